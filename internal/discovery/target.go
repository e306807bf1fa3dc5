package discovery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/huin/goupnp/ssdp"
)

// TargetKind identifies the form of a search target
type TargetKind int

const (
	// TargetAll matches every device and service ("ssdp:all")
	TargetAll TargetKind = iota
	// TargetRootDevice matches root devices only ("upnp:rootdevice")
	TargetRootDevice
	// TargetUUID matches one device by its UUID ("uuid:...")
	TargetUUID
	// TargetURN matches a device or service type ("urn:...")
	TargetURN
)

// SearchTarget is the filter sent as the ST header of an M-SEARCH request
type SearchTarget struct {
	Kind TargetKind
	UUID string
	URN  URN
}

// AllDevices is the default search target
var AllDevices = SearchTarget{Kind: TargetAll}

// ParseSearchTarget converts a command line value into a search target.
// Accepted forms are "ssdp:all", "upnp:rootdevice", "uuid:<id>" and
// "urn:<domain>:device|service:<type>:<version>".
func ParseSearchTarget(s string) (SearchTarget, error) {
	switch {
	case s == ssdp.SSDPAll:
		return AllDevices, nil
	case s == ssdp.UPNPRootDevice:
		return SearchTarget{Kind: TargetRootDevice}, nil
	case strings.HasPrefix(s, "uuid:"):
		id := strings.TrimPrefix(s, "uuid:")
		if id == "" {
			return SearchTarget{}, fmt.Errorf("unable to convert '%s' to an URN: empty uuid", s)
		}
		return SearchTarget{Kind: TargetUUID, UUID: id}, nil
	}

	urn, err := ParseURN(s)
	if err != nil {
		return SearchTarget{}, fmt.Errorf("unable to convert '%s' to an URN: %w", s, err)
	}
	return SearchTarget{Kind: TargetURN, URN: urn}, nil
}

// String returns the ST header value
func (t SearchTarget) String() string {
	switch t.Kind {
	case TargetRootDevice:
		return ssdp.UPNPRootDevice
	case TargetUUID:
		return "uuid:" + t.UUID
	case TargetURN:
		return t.URN.String()
	default:
		return ssdp.SSDPAll
	}
}

// Matches reports whether an announcement with the given NT header value
// falls under this target
func (t SearchTarget) Matches(nt string) bool {
	if t.Kind == TargetAll {
		return true
	}
	return nt == t.String()
}

// URNKind distinguishes device types from service types
type URNKind int

const (
	// URNDevice is a device type ("urn:...:device:...")
	URNDevice URNKind = iota
	// URNService is a service type ("urn:...:service:...")
	URNService
)

// URN is a UPnP type identifier such as
// "urn:schemas-upnp-org:device:MediaRenderer:1"
type URN struct {
	Kind    URNKind
	Domain  string
	Type    string
	Version uint32
}

// ParseURN parses "urn:<domain>:device|service:<type>:<version>"
func ParseURN(s string) (URN, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 5 {
		return URN{}, fmt.Errorf("expected 5 colon separated parts, got %d", len(parts))
	}
	if parts[0] != "urn" {
		return URN{}, fmt.Errorf("missing 'urn' prefix")
	}
	if parts[1] == "" {
		return URN{}, fmt.Errorf("empty domain")
	}

	var kind URNKind
	switch parts[2] {
	case "device":
		kind = URNDevice
	case "service":
		kind = URNService
	default:
		return URN{}, fmt.Errorf("expected 'device' or 'service', got %q", parts[2])
	}

	if parts[3] == "" {
		return URN{}, fmt.Errorf("empty type")
	}

	version, err := strconv.ParseUint(parts[4], 10, 32)
	if err != nil {
		return URN{}, fmt.Errorf("invalid version %q: %w", parts[4], err)
	}

	return URN{
		Kind:    kind,
		Domain:  parts[1],
		Type:    parts[3],
		Version: uint32(version),
	}, nil
}

// String returns the URN in its wire form
func (u URN) String() string {
	kind := "device"
	if u.Kind == URNService {
		kind = "service"
	}
	return fmt.Sprintf("urn:%s:%s:%s:%d", u.Domain, kind, u.Type, u.Version)
}

// MatchesDevice reports whether an already described device falls under
// this target. Root device searches match every device.
func (t SearchTarget) MatchesDevice(d *Device) bool {
	switch t.Kind {
	case TargetUUID:
		return d.UDN == t.String()
	case TargetURN:
		return d.DeviceType != nil && *d.DeviceType == t.URN
	default:
		return true
	}
}
