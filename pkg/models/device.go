package models

import "strings"

// NoVersion is the version component used when a topology entity carries no
// version attribute. The literal "undefined" is kept for compatibility with
// device keys minted by existing deployments.
const NoVersion = "undefined"

// EntityType distinguishes true device entities from relationship and kind
// records in the topology stream. Only ENTITY records are retained.
type EntityType int32

const (
	EntityTypeUnknown EntityType = iota
	EntityTypeEntity
	EntityTypeRelation
	EntityTypeKind
)

// DeviceKey is the composite identity used to deduplicate device records
// across the topology and configuration sources. Two devices with the same
// ID but different versions are distinct entries.
type DeviceKey struct {
	DeviceID string `json:"device_id"`
	Version  string `json:"version"`
}

// NewDeviceKey builds a key, substituting NoVersion for a blank version.
func NewDeviceKey(deviceID, version string) DeviceKey {
	if version == "" {
		version = NoVersion
	}
	return DeviceKey{DeviceID: deviceID, Version: version}
}

// ParseDeviceKey splits a "deviceId:version" string back into a key.
// Input without a separator maps to a key with NoVersion.
func ParseDeviceKey(s string) DeviceKey {
	if idx := strings.LastIndex(s, ":"); idx >= 0 {
		return NewDeviceKey(s[:idx], s[idx+1:])
	}
	return NewDeviceKey(s, "")
}

func (k DeviceKey) String() string {
	return k.DeviceID + ":" + k.Version
}

// DeviceRecord is the unified view of one device, merged from the topology
// and configuration-snapshot sources. Records are created on first sighting
// from either source and never deleted during the process lifetime.
type DeviceRecord struct {
	DeviceID       string          `json:"device_id"`
	Version        string          `json:"version"`
	Kind           string          `json:"kind,omitempty"`
	EntityType     EntityType      `json:"entity_type"`
	ProtocolStates []ProtocolState `json:"protocol_states,omitempty"`
}

// Key returns the record's registry key.
func (d *DeviceRecord) Key() DeviceKey {
	return NewDeviceKey(d.DeviceID, d.Version)
}

// TopologyEntity is one record from the topology source. Attributes is a
// string-keyed map that includes "version" and "kind" for device entities.
type TopologyEntity struct {
	ID             string            `json:"id"`
	Type           EntityType        `json:"type"`
	Attributes     map[string]string `json:"attributes,omitempty"`
	ProtocolStates []ProtocolState   `json:"protocol_states,omitempty"`
}
