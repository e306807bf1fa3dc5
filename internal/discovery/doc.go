// Package discovery finds UPnP devices on the local network via SSDP.
//
// Two sources are provided. Scanner sends M-SEARCH requests (active
// discovery, built on github.com/huin/goupnp). Listener waits for
// ssdp:alive announcements (passive discovery, built on
// github.com/koron/go-ssdp). Both fetch the device description of every
// new location and deliver the result as a Stream.
//
// # Discovery Process
//
//  1. The search target is sent (Scanner) or used to filter announcements (Listener)
//  2. Each response location is deduplicated across the whole window
//  3. New locations have their description fetched concurrently
//  4. Devices are yielded in the order their descriptions arrive
//  5. The stream ends once the window has closed and all fetches are done
//
// # Usage Example
//
//	target, err := discovery.ParseSearchTarget("urn:schemas-upnp-org:device:MediaRenderer:1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	stream, err := discovery.NewScanner().Discover(ctx, target, 3*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer stream.Close()
//
//	for {
//	    device, err := stream.Next(ctx)
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(device)
//	}
//
// # Template Fields
//
// Device.NamedArgs maps a device onto the placeholders listed in Fields.
// The url and device_type fields are identifiers, everything else is text,
// and attributes a device did not report are empty.
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow SSDP (UDP port 1900) and HTTP to the devices
package discovery
