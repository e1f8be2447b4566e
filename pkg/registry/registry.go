// Package registry holds the merged, in-memory view of the device fleet.
// Two tables back it: device records keyed by deviceId:version and
// configuration snapshots keyed by the snapshot's own ID. All writes go
// through the two Upsert operations; none of them return errors, malformed
// input degrades to sentinel values instead.
package registry

import (
	"sync"

	"github.com/devicewatch/devicewatch/pkg/logger"
	"github.com/devicewatch/devicewatch/pkg/models"
	"github.com/devicewatch/devicewatch/pkg/status"
)

const (
	attrVersion = "version"
	attrKind    = "kind"
)

// Registry is the authoritative in-memory device table. Safe for concurrent
// use; stream consumers and queries may run on different goroutines.
type Registry struct {
	mu        sync.RWMutex
	devices   map[models.DeviceKey]*models.DeviceRecord
	snapshots map[string]*models.ConfigurationSnapshot
	logger    logger.Logger
}

// New creates an empty registry.
func New(log logger.Logger) *Registry {
	return &Registry{
		devices:   make(map[models.DeviceKey]*models.DeviceRecord),
		snapshots: make(map[string]*models.ConfigurationSnapshot),
		logger:    log,
	}
}

// UpsertFromTopology records a device entity reported by the topology
// source. Relationship and kind records are filtered out. Topology never
// overrides an existing record: the first writer wins, so replaying the
// same entity is a no-op.
func (r *Registry) UpsertFromTopology(entity *models.TopologyEntity) {
	if entity == nil || entity.ID == "" {
		return
	}
	if entity.Type != models.EntityTypeEntity {
		return
	}

	key := models.NewDeviceKey(entity.ID, entity.Attributes[attrVersion])

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.devices[key]; ok {
		return
	}

	r.devices[key] = &models.DeviceRecord{
		DeviceID:       entity.ID,
		Version:        key.Version,
		Kind:           entity.Attributes[attrKind],
		EntityType:     models.EntityTypeEntity,
		ProtocolStates: cloneProtocolStates(entity.ProtocolStates),
	}

	r.logger.Debug().
		Str("device_key", key.String()).
		Str("kind", entity.Attributes[attrKind]).
		Msg("Registered device from topology")
}

// UpsertFromConfigSnapshot stores a configuration snapshot and lazily
// creates a minimal device record the first time a device is seen from the
// snapshot source. The snapshot table is last-write-wins; the device table
// is insert-only.
func (r *Registry) UpsertFromConfigSnapshot(snapshot *models.ConfigurationSnapshot) {
	if snapshot == nil {
		return
	}

	key := snapshot.DeviceKey()

	// Snapshots are keyed by their own ID field, which is distinct from the
	// device key. A blank ID degrades to the device key string.
	snapshotID := snapshot.ID
	if snapshotID == "" {
		snapshotID = key.String()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshots[snapshotID] = cloneSnapshot(snapshot)

	if snapshot.DeviceID == "" {
		return
	}

	if _, ok := r.devices[key]; !ok {
		r.devices[key] = &models.DeviceRecord{
			DeviceID:   snapshot.DeviceID,
			Version:    key.Version,
			Kind:       snapshot.DeviceType,
			EntityType: models.EntityTypeEntity,
		}

		r.logger.Debug().
			Str("device_key", key.String()).
			Str("snapshot_id", snapshotID).
			Msg("Registered device from configuration snapshot")
	}
}

// UpdateProtocolStates replaces a device's protocol states with the most
// recent status report. Unknown keys are ignored; states are not a history.
func (r *Registry) UpdateProtocolStates(key models.DeviceKey, states []models.ProtocolState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.devices[key]
	if !ok {
		return
	}

	record.ProtocolStates = cloneProtocolStates(states)
}

// StatusStylesFor returns the style tokens for a device. An unknown key or
// a record without protocol data yields an empty slice, not an error.
func (r *Registry) StatusStylesFor(key models.DeviceKey) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.devices[key]
	if !ok {
		return status.Labels(nil)
	}

	return status.Labels(record.ProtocolStates)
}

// StatusCodeFor returns the derived ordering score for a device, or zero
// for an unknown key.
func (r *Registry) StatusCodeFor(key models.DeviceKey) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.devices[key]
	if !ok {
		return 0
	}

	return status.Code(record.ProtocolStates)
}

// GetDevice retrieves a defensive copy of one device record.
func (r *Registry) GetDevice(key models.DeviceKey) (*models.DeviceRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.devices[key]
	if !ok {
		return nil, false
	}

	return cloneDeviceRecord(record), true
}

// GetSnapshot retrieves a defensive copy of one configuration snapshot by
// the snapshot table's own key.
func (r *Registry) GetSnapshot(id string) (*models.ConfigurationSnapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot, ok := r.snapshots[id]
	if !ok {
		return nil, false
	}

	return cloneSnapshot(snapshot), true
}

// DeviceCount reports the number of device records currently held.
func (r *Registry) DeviceCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.devices)
}

// SnapshotCount reports the number of configuration snapshots currently held.
func (r *Registry) SnapshotCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.snapshots)
}

func cloneDeviceRecord(src *models.DeviceRecord) *models.DeviceRecord {
	if src == nil {
		return nil
	}

	dst := *src
	dst.ProtocolStates = cloneProtocolStates(src.ProtocolStates)

	return &dst
}

func cloneProtocolStates(states []models.ProtocolState) []models.ProtocolState {
	if len(states) == 0 {
		return nil
	}

	return append([]models.ProtocolState(nil), states...)
}

func cloneSnapshot(src *models.ConfigurationSnapshot) *models.ConfigurationSnapshot {
	if src == nil {
		return nil
	}

	dst := *src
	if len(src.Values) > 0 {
		dst.Values = make([]models.ConfigValue, len(src.Values))
		for i, v := range src.Values {
			dst.Values[i] = v
			if len(v.Value) > 0 {
				dst.Values[i].Value = append([]byte(nil), v.Value...)
			}
		}
	}

	return &dst
}
