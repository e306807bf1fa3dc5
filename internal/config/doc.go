// Package config provides user configuration management for upnpc.
//
// This package manages a YAML-based configuration file that stores scan
// preferences, named output formats and the devices recorded with
// --remember. The configuration follows OS-specific conventions for storage
// location, and --config points it anywhere else.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/upnpc/config.yaml or $HOME/.config/upnpc/config.yaml
//   - macOS: $HOME/.config/upnpc/config.yaml
//   - Windows: %LOCALAPPDATA%\upnpc\config.yaml
//
// # File Format
//
//	version: 1
//	preferences:
//	  search_target: upnp:rootdevice
//	  duration: 5
//	  format: "@short"
//	  formats:
//	    short: "{name} ({udn})"
//	devices:
//	  uuid:RINCON_000E58A0B2C001400:
//	    name: Living Room
//	    manufacturer: Sonos, Inc.
//	    last_url: http://10.0.0.5:1400/xml/device_description.xml
//
// # Usage Example
//
//	registry, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.RememberDevice(device)
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// Save is serialized by a mutex and replaces the file atomically. A Registry
// value itself is not safe for concurrent mutation.
package config
