package models

// ConfigValue is one path/value pair inside a configuration snapshot.
type ConfigValue struct {
	Path    string `json:"path"`
	Value   []byte `json:"value,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
}

// ConfigurationSnapshot is a point-in-time capture of one device's
// configuration, delivered continuously by the snapshot source. The snapshot
// table is keyed by ID and is last-write-wins.
type ConfigurationSnapshot struct {
	ID            string        `json:"id"`
	DeviceID      string        `json:"device_id"`
	DeviceType    string        `json:"device_type,omitempty"`
	DeviceVersion string        `json:"device_version,omitempty"`
	SnapshotID    string        `json:"snapshot_id,omitempty"`
	Values        []ConfigValue `json:"values,omitempty"`
}

// DeviceKey returns the registry key derived from the snapshot's own device
// fields. This is distinct from the snapshot-table key (the ID field).
func (s *ConfigurationSnapshot) DeviceKey() DeviceKey {
	return NewDeviceKey(s.DeviceID, s.DeviceVersion)
}
