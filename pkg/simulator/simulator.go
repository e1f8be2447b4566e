// Package simulator provides in-memory topology, snapshot, and admin
// sources so the watcher can run without a live configuration service.
package simulator

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/devicewatch/devicewatch/pkg/logger"
	"github.com/devicewatch/devicewatch/pkg/models"
	"github.com/devicewatch/devicewatch/pkg/stream"
)

const defaultInterval = 2 * time.Second

var deviceKinds = []string{"spine", "leaf", "gateway", "tor"}

// Fleet simulates a fleet of managed devices. It implements the
// subscription package's SnapshotService, TopologyService, and
// AdminService.
type Fleet struct {
	devices  []models.DeviceKey
	kinds    map[models.DeviceKey]string
	interval time.Duration
	logger   logger.Logger
}

// New seeds a simulated fleet of count devices emitting a fresh event
// roughly every interval.
func New(count int, interval time.Duration, log logger.Logger) *Fleet {
	if count <= 0 {
		count = 1
	}
	if interval <= 0 {
		interval = defaultInterval
	}

	f := &Fleet{
		devices:  make([]models.DeviceKey, 0, count),
		kinds:    make(map[models.DeviceKey]string, count),
		interval: interval,
		logger:   log,
	}

	for i := 0; i < count; i++ {
		key := models.NewDeviceKey(fmt.Sprintf("device-%02d", i+1), "1.0.0")
		f.devices = append(f.devices, key)
		f.kinds[key] = deviceKinds[i%len(deviceKinds)]
	}

	return f
}

func (f *Fleet) randomKey() models.DeviceKey {
	return f.devices[rand.IntN(len(f.devices))]
}

func randomProtocolStates() []models.ProtocolState {
	profiles := [][]models.ProtocolState{
		{
			{
				Protocol:     models.ProtocolGNMI,
				Connectivity: models.ConnectivityReachable,
				Service:      models.ServiceAvailable,
				Channel:      models.ChannelConnected,
			},
			{
				Protocol:     models.ProtocolP4Runtime,
				Connectivity: models.ConnectivityReachable,
				Service:      models.ServiceAvailable,
				Channel:      models.ChannelConnected,
			},
		},
		{
			{
				Protocol:     models.ProtocolGNMI,
				Connectivity: models.ConnectivityReachable,
				Service:      models.ServiceConnecting,
				Channel:      models.ChannelConnected,
			},
		},
		{
			{
				Protocol:     models.ProtocolGNOI,
				Connectivity: models.ConnectivityUnreachable,
				Service:      models.ServiceUnavailable,
				Channel:      models.ChannelDisconnected,
			},
		},
	}

	return profiles[rand.IntN(len(profiles))]
}

func (f *Fleet) entityFor(key models.DeviceKey) *models.TopologyEntity {
	return &models.TopologyEntity{
		ID:   key.DeviceID,
		Type: models.EntityTypeEntity,
		Attributes: map[string]string{
			"version": key.Version,
			"kind":    f.kinds[key],
		},
		ProtocolStates: randomProtocolStates(),
	}
}

func (f *Fleet) snapshotFor(key models.DeviceKey) *models.ConfigurationSnapshot {
	return &models.ConfigurationSnapshot{
		ID:            key.String(),
		DeviceID:      key.DeviceID,
		DeviceType:    f.kinds[key],
		DeviceVersion: key.Version,
		SnapshotID:    uuid.NewString(),
		Values: []models.ConfigValue{
			{Path: "/system/config/hostname", Value: []byte(key.DeviceID)},
		},
	}
}

// Watch emits every seeded device once, then a refreshed entity for a
// random device each interval.
func (f *Fleet) Watch(ctx context.Context) (stream.Receiver[*models.TopologyEntity], error) {
	pending := make([]*models.TopologyEntity, 0, len(f.devices))
	for _, key := range f.devices {
		pending = append(pending, f.entityFor(key))
	}

	return &feed[*models.TopologyEntity]{
		ctx:      ctx,
		pending:  pending,
		interval: f.interval,
		next: func() *models.TopologyEntity {
			return f.entityFor(f.randomKey())
		},
	}, nil
}

// Subscribe emits one snapshot per seeded device, then a fresh snapshot
// for a random device each interval. The filter is accepted but not
// interpreted by the simulator.
func (f *Fleet) Subscribe(ctx context.Context, _ string) (stream.Receiver[*models.ConfigurationSnapshot], error) {
	pending := make([]*models.ConfigurationSnapshot, 0, len(f.devices))
	for _, key := range f.devices {
		pending = append(pending, f.snapshotFor(key))
	}

	return &feed[*models.ConfigurationSnapshot]{
		ctx:      ctx,
		pending:  pending,
		interval: f.interval,
		next: func() *models.ConfigurationSnapshot {
			return f.snapshotFor(f.randomKey())
		},
	}, nil
}

// Rollback acknowledges the request without touching simulated state.
func (f *Fleet) Rollback(_ context.Context, changeName, comment string) (*models.RollbackResponse, error) {
	f.logger.Info().Str("change", changeName).Str("comment", comment).Msg("Simulated rollback")

	return &models.RollbackResponse{
		Message: fmt.Sprintf("change %s rolled back", changeName),
	}, nil
}

// ListRegisteredModels streams a fixed plugin catalog.
func (f *Fleet) ListRegisteredModels(ctx context.Context, _ bool) (stream.Receiver[*models.ModelInfo], error) {
	return &feed[*models.ModelInfo]{
		ctx: ctx,
		pending: []*models.ModelInfo{
			{Name: "openconfig-interfaces", Version: "2.4.1", Module: "openconfig"},
			{Name: "openconfig-system", Version: "0.9.1", Module: "openconfig"},
		},
	}, nil
}

// CompactChanges acknowledges the request.
func (f *Fleet) CompactChanges(_ context.Context, retention *durationpb.Duration) (*models.CompactionResponse, error) {
	return &models.CompactionResponse{
		Message: fmt.Sprintf("compacted changes older than %s", retention.AsDuration()),
	}, nil
}

// feed replays pending items, then produces one item per interval. A nil
// next function completes the stream once pending drains.
type feed[T any] struct {
	ctx      context.Context
	pending  []T
	interval time.Duration
	next     func() T
}

func (f *feed[T]) Recv() (T, error) {
	var zero T

	if len(f.pending) > 0 {
		item := f.pending[0]
		f.pending = f.pending[1:]

		return item, nil
	}

	if f.next == nil {
		return zero, io.EOF
	}

	timer := time.NewTimer(f.interval)
	defer timer.Stop()

	select {
	case <-f.ctx.Done():
		return zero, f.ctx.Err()
	case <-timer.C:
		return f.next(), nil
	}
}
