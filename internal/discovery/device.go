package discovery

import (
	"fmt"
	"net/url"
	"time"

	"github.com/huin/goupnp"
	"github.com/muurk/upnpc/internal/format"
)

// Device represents a discovered UPnP device. Empty strings and nil
// pointers mean the device did not report the attribute.
type Device struct {
	// FriendlyName is the user-facing name (e.g., "Living Room")
	FriendlyName string

	// Manufacturer is the vendor name (e.g., "Sonos, Inc.")
	Manufacturer string

	// ModelName is the vendor model name (e.g., "Play:1")
	ModelName string

	// UDN is the unique device name (e.g., "uuid:RINCON_000E58A0B2C001400")
	UDN string

	// UPC is the universal product code
	UPC string

	SerialNumber     string
	ManufacturerURL  string
	ModelDescription string
	ModelURL         string
	ModelNumber      string

	// URL is the location of the device description
	URL *url.URL

	// DeviceType is the parsed deviceType element
	DeviceType *URN

	// RawDeviceType is the deviceType element as reported. It is rendered
	// when the element is not a well-formed URN.
	RawDeviceType string

	// USN is the unique service name from the SSDP response (not rendered)
	USN string

	// DiscoveredAt is when the description was fetched
	DiscoveredAt time.Time
}

// Field names recognised in output templates
const (
	FieldName             = "name"
	FieldManufacturer     = "manufacturer"
	FieldModelName        = "model_name"
	FieldUDN              = "udn"
	FieldUPC              = "upc"
	FieldSerial           = "serial"
	FieldManufacturerURL  = "manufacturer_url"
	FieldModelDescription = "model_description"
	FieldModelURL         = "model_url"
	FieldModelNumber      = "model_number"
	FieldURL              = "url"
	FieldDeviceType       = "device_type"
)

// DefaultFormat is the output template used when none is given
const DefaultFormat = "name: {name}, manufacturer: {manufacturer}, model_name: {model_name}, udn: {udn}, url: {url}"

// Field describes one template placeholder
type Field struct {
	Name        string
	Description string
}

// Fields lists every placeholder in display order
var Fields = []Field{
	{FieldName, "friendly name"},
	{FieldManufacturer, "manufacturer"},
	{FieldModelName, "model name"},
	{FieldUDN, "unique device name (uuid:...)"},
	{FieldUPC, "universal product code"},
	{FieldSerial, "serial number"},
	{FieldManufacturerURL, "manufacturer web site"},
	{FieldModelDescription, "model description"},
	{FieldModelURL, "model web site"},
	{FieldModelNumber, "model number"},
	{FieldURL, "location of the device description"},
	{FieldDeviceType, "device type URN"},
}

// FieldNames returns the placeholder names in display order
func FieldNames() []string {
	names := make([]string, len(Fields))
	for i, f := range Fields {
		names[i] = f.Name
	}
	return names
}

// NamedArgs maps the device onto the twelve template placeholders.
// Every key is always present; missing attributes are Empty.
func (d *Device) NamedArgs() format.Args {
	return format.Args{
		FieldName:             text(d.FriendlyName),
		FieldManufacturer:     text(d.Manufacturer),
		FieldModelName:        text(d.ModelName),
		FieldUDN:              text(d.UDN),
		FieldUPC:              text(d.UPC),
		FieldSerial:           text(d.SerialNumber),
		FieldManufacturerURL:  text(d.ManufacturerURL),
		FieldModelDescription: text(d.ModelDescription),
		FieldModelURL:         text(d.ModelURL),
		FieldModelNumber:      text(d.ModelNumber),
		FieldURL:              d.urlValue(),
		FieldDeviceType:       d.deviceTypeValue(),
	}
}

func text(s string) format.Value {
	if s == "" {
		return format.Empty()
	}
	return format.Text(s)
}

// Nil pointers must not reach format.Identifier as a non-nil interface.
func (d *Device) urlValue() format.Value {
	if d.URL == nil {
		return format.Empty()
	}
	return format.Identifier(d.URL)
}

func (d *Device) deviceTypeValue() format.Value {
	if d.DeviceType == nil {
		return text(d.RawDeviceType)
	}
	return format.Identifier(d.DeviceType)
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	loc := ""
	if d.URL != nil {
		loc = d.URL.String()
	}
	return fmt.Sprintf("UPnP Device %s (%s) at %s", d.UDN, d.FriendlyName, loc)
}

// newDevice converts a fetched description into a Device
func newDevice(root *goupnp.RootDevice, loc *url.URL, usn string) *Device {
	desc := root.Device
	d := &Device{
		FriendlyName:     desc.FriendlyName,
		Manufacturer:     desc.Manufacturer,
		ModelName:        desc.ModelName,
		UDN:              desc.UDN,
		UPC:              desc.UPC,
		SerialNumber:     desc.SerialNumber,
		ManufacturerURL:  desc.ManufacturerURL.Str,
		ModelDescription: desc.ModelDescription,
		ModelURL:         desc.ModelURL.Str,
		ModelNumber:      desc.ModelNumber,
		RawDeviceType:    desc.DeviceType,
		URL:              loc,
		USN:              usn,
		DiscoveredAt:     time.Now(),
	}
	if urn, err := ParseURN(desc.DeviceType); err == nil {
		d.DeviceType = &urn
	}
	return d
}
