package models

import "strings"

// AggregateLabel is the display label of the synthetic all-devices aggregate
const AggregateLabel = "All"

// Device identifies either a real device or the aggregate of all devices.
// The zero value selects nothing.
type Device struct {
	id  string
	all bool
}

// AggregateAll is the pseudo-device summing every real device
var AggregateAll = Device{all: true}

// DeviceID returns the selector for a real device
func DeviceID(id string) Device {
	return Device{id: id}
}

// DevicePrefix forces a label to name a real device, so a device whose id
// is "All" stays selectable as "device:All".
const DevicePrefix = "device:"

// ParseDevice maps a user-facing label to a device. The aggregate label
// selects AggregateAll; an empty label selects nothing.
func ParseDevice(label string) Device {
	switch {
	case label == "":
		return Device{}
	case label == AggregateLabel:
		return AggregateAll
	case strings.HasPrefix(label, DevicePrefix):
		return DeviceID(strings.TrimPrefix(label, DevicePrefix))
	default:
		return DeviceID(label)
	}
}

// ID returns the device identifier, empty for the aggregate
func (d Device) ID() string { return d.id }

// IsAggregate reports whether d is AggregateAll
func (d Device) IsAggregate() bool { return d.all }

// IsZero reports whether no device is selected
func (d Device) IsZero() bool { return !d.all && d.id == "" }

// String returns the display label
func (d Device) String() string {
	if d.all {
		return AggregateLabel
	}
	return d.id
}
