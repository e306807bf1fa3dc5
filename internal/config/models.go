package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/muurk/upnpc/internal/discovery"
)

// Registry represents the entire user configuration file.
// This stores scan preferences, named output formats and remembered devices.
type Registry struct {
	Version     int                `yaml:"version"`
	Preferences *Preferences       `yaml:"preferences,omitempty"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by UDN

	// path is where the registry was loaded from and will be saved to
	path string
}

// Device is what upnpc remembers about a device it has printed
type Device struct {
	Name         string    `yaml:"name,omitempty"`
	Manufacturer string    `yaml:"manufacturer,omitempty"`
	ModelName    string    `yaml:"model_name,omitempty"`
	DeviceType   string    `yaml:"device_type,omitempty"`
	LastURL      string    `yaml:"last_url,omitempty"`  // Last description location
	LastSeen     time.Time `yaml:"last_seen,omitempty"` // Last time the device was printed
}

// Preferences replace the built-in flag defaults. Zero values mean unset.
type Preferences struct {
	SearchTarget string            `yaml:"search_target,omitempty"`
	Duration     uint8             `yaml:"duration,omitempty"` // Seconds
	Format       string            `yaml:"format,omitempty"`
	Formats      map[string]string `yaml:"formats,omitempty"` // Named presets, selected with -f @name
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Devices:     make(map[string]*Device),
		Preferences: &Preferences{},
	}
}

// Path returns the file the registry is bound to, empty for the default location
func (r *Registry) Path() string {
	return r.path
}

// GetDevice retrieves a remembered device by UDN.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(udn string) *Device {
	return r.Devices[udn]
}

// EnsureDevice ensures a device entry exists in the registry.
// Returns the device entry (existing or newly created).
func (r *Registry) EnsureDevice(udn string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	if device, exists := r.Devices[udn]; exists {
		return device
	}

	device := &Device{}
	r.Devices[udn] = device
	return device
}

// RememberDevice records or refreshes a discovered device.
// Devices without a UDN cannot be keyed and are ignored.
func (r *Registry) RememberDevice(d *discovery.Device) bool {
	if d.UDN == "" {
		return false
	}

	device := r.EnsureDevice(d.UDN)
	device.Name = d.FriendlyName
	device.Manufacturer = d.Manufacturer
	device.ModelName = d.ModelName
	device.DeviceType = d.RawDeviceType
	if d.DeviceType != nil {
		device.DeviceType = d.DeviceType.String()
	}
	device.LastURL = ""
	if d.URL != nil {
		device.LastURL = d.URL.String()
	}
	device.LastSeen = d.DiscoveredAt
	if device.LastSeen.IsZero() {
		device.LastSeen = time.Now()
	}
	return true
}

// ForgetDevice removes a remembered device. Returns false if it was unknown.
func (r *Registry) ForgetDevice(udn string) bool {
	if _, exists := r.Devices[udn]; !exists {
		return false
	}
	delete(r.Devices, udn)
	return true
}

// KnownDevices converts the remembered devices into discovery records,
// ordered by name then UDN. Attributes that are not remembered stay empty.
func (r *Registry) KnownDevices() discovery.DeviceList {
	list := make(discovery.DeviceList, 0, len(r.Devices))
	for udn, device := range r.Devices {
		list = append(list, device.toDiscovery(udn))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].FriendlyName != list[j].FriendlyName {
			return list[i].FriendlyName < list[j].FriendlyName
		}
		return list[i].UDN < list[j].UDN
	})
	return list
}

func (d *Device) toDiscovery(udn string) *discovery.Device {
	out := &discovery.Device{
		FriendlyName: d.Name,
		Manufacturer: d.Manufacturer,
		ModelName:    d.ModelName,
		UDN:          udn,
		DiscoveredAt: d.LastSeen,
	}
	if d.LastURL != "" {
		if u, err := url.Parse(d.LastURL); err == nil {
			out.URL = u
		}
	}
	if urn, err := discovery.ParseURN(d.DeviceType); err == nil {
		out.DeviceType = &urn
	} else {
		out.RawDeviceType = d.DeviceType
	}
	return out
}

// ResolveFormat expands a "@name" reference to the named preset. Any other
// value is returned unchanged.
func (r *Registry) ResolveFormat(value string) (string, error) {
	if !strings.HasPrefix(value, "@") {
		return value, nil
	}

	name := strings.TrimPrefix(value, "@")
	if r.Preferences != nil {
		if preset, ok := r.Preferences.Formats[name]; ok {
			return preset, nil
		}
	}
	return "", fmt.Errorf("unknown format preset %q", name)
}

// FormatNames returns the names of the configured presets in sorted order
func (r *Registry) FormatNames() []string {
	if r.Preferences == nil {
		return nil
	}
	names := make([]string, 0, len(r.Preferences.Formats))
	for name := range r.Preferences.Formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultFormats are the presets written by CreateDefaultConfig
var DefaultFormats = map[string]string{
	"short": "{name} ({udn})",
	"csv":   "{udn},{name},{manufacturer},{model_name},{url}",
	"types": "{device_type:<60} {name}",
	"debug": "{name:?} {manufacturer:?} {model_name:?} {udn:?} {url:?}",
}
