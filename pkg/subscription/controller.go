// Package subscription orchestrates the long-lived source streams feeding
// the device registry and exposes the administrative RPC surface. One
// controller instance owns the registry's write path for its lifetime.
package subscription

import (
	"context"
	"sync"
	"time"

	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/devicewatch/devicewatch/pkg/logger"
	"github.com/devicewatch/devicewatch/pkg/models"
	"github.com/devicewatch/devicewatch/pkg/registry"
	"github.com/devicewatch/devicewatch/pkg/stream"
)

// defaultRollbackComment annotates rollback requests when the caller does
// not supply a comment.
const defaultRollbackComment = "Rolled back via devicewatch"

const attrVersion = "version"

// State describes one logical watch. Transitions: Idle -> Active ->
// (Completed | Errored | Cancelled). An explicit stop cancels; a transport
// error surfaces once via the registered error callback.
type State int32

const (
	StateIdle State = iota
	StateActive
	StateCompleted
	StateErrored
	StateCancelled
)

var stateNames = map[State]string{
	StateIdle:      "idle",
	StateActive:    "active",
	StateCompleted: "completed",
	StateErrored:   "errored",
	StateCancelled: "cancelled",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Controller bridges the snapshot and topology streams into the registry
// and fronts the admin RPCs. At most one snapshot watch and one topology
// watch are active at a time; starting a new one releases the old stream
// first so no stream is silently orphaned.
type Controller struct {
	registry  *registry.Registry
	snapshots SnapshotService
	topology  TopologyService
	admin     AdminService
	filter    string
	logger    logger.Logger

	mu          sync.Mutex
	configState State
	configSub   *stream.Subscription[*models.ConfigurationSnapshot]
	topoState   State
	topoSub     *stream.Subscription[*models.TopologyEntity]
}

// Config carries the controller's constructor dependencies.
type Config struct {
	Registry  *registry.Registry
	Snapshots SnapshotService
	Topology  TopologyService
	Admin     AdminService

	// SnapshotFilter is the optional wildcard filter passed to the snapshot
	// subscription. Empty subscribes to all devices.
	SnapshotFilter string
}

// New creates a controller. All collaborator services are required.
func New(cfg Config, log logger.Logger) (*Controller, error) {
	switch {
	case cfg.Registry == nil:
		return nil, ErrRegistryRequired
	case cfg.Snapshots == nil:
		return nil, ErrSnapshotServiceRequired
	case cfg.Topology == nil:
		return nil, ErrTopologyServiceRequired
	case cfg.Admin == nil:
		return nil, ErrAdminServiceRequired
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Controller{
		registry:  cfg.Registry,
		snapshots: cfg.Snapshots,
		topology:  cfg.Topology,
		admin:     cfg.Admin,
		filter:    cfg.SnapshotFilter,
		logger:    log,
	}, nil
}

// WatchConfigurations starts the configuration-snapshot subscription,
// merging every snapshot into the registry. An active watch is stopped
// first. A transport error is reported once through errCb and leaves
// already-merged state intact; restarting is the caller's policy.
func (c *Controller) WatchConfigurations(ctx context.Context, errCb func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopConfigLocked()

	sub := stream.Bridge(ctx, c.logger, func(ctx context.Context) (stream.Receiver[*models.ConfigurationSnapshot], error) {
		return c.snapshots.Subscribe(ctx, c.filter)
	})

	c.configSub = sub
	c.configState = StateActive

	c.logger.Info().Str("filter", c.filter).Msg("Watching configuration snapshots")

	go c.consumeConfigurations(sub, errCb)
}

func (c *Controller) consumeConfigurations(sub *stream.Subscription[*models.ConfigurationSnapshot], errCb func(error)) {
	for snapshot := range sub.Events() {
		c.registry.UpsertFromConfigSnapshot(snapshot)
	}

	c.settle(sub.Err(), errCb, func() (*State, bool) {
		return &c.configState, c.configSub == sub
	})
}

// StopWatchingConfigurations releases the active snapshot stream. Calling
// it while idle or already stopped is a no-op.
func (c *Controller) StopWatchingConfigurations() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopConfigLocked()
}

func (c *Controller) stopConfigLocked() {
	if c.configState != StateActive || c.configSub == nil {
		return
	}

	c.configSub.Cancel()
	c.configState = StateCancelled

	c.logger.Info().Msg("Stopped watching configuration snapshots")
}

// WatchTopology starts the topology-entity subscription. Entity records
// insert new devices (first writer wins); entities carrying protocol states
// refresh the per-device status report.
func (c *Controller) WatchTopology(ctx context.Context, errCb func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTopologyLocked()

	sub := stream.Bridge(ctx, c.logger, func(ctx context.Context) (stream.Receiver[*models.TopologyEntity], error) {
		return c.topology.Watch(ctx)
	})

	c.topoSub = sub
	c.topoState = StateActive

	c.logger.Info().Msg("Watching topology entities")

	go c.consumeTopology(sub, errCb)
}

func (c *Controller) consumeTopology(sub *stream.Subscription[*models.TopologyEntity], errCb func(error)) {
	for entity := range sub.Events() {
		c.registry.UpsertFromTopology(entity)

		if entity != nil && entity.Type == models.EntityTypeEntity && entity.ProtocolStates != nil {
			key := models.NewDeviceKey(entity.ID, entity.Attributes[attrVersion])
			c.registry.UpdateProtocolStates(key, entity.ProtocolStates)
		}
	}

	c.settle(sub.Err(), errCb, func() (*State, bool) {
		return &c.topoState, c.topoSub == sub
	})
}

// StopWatchingTopology releases the active topology stream. Idempotent.
func (c *Controller) StopWatchingTopology() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTopologyLocked()
}

func (c *Controller) stopTopologyLocked() {
	if c.topoState != StateActive || c.topoSub == nil {
		return
	}

	c.topoSub.Cancel()
	c.topoState = StateCancelled

	c.logger.Info().Msg("Stopped watching topology entities")
}

// settle records a watch's terminal state once its stream has drained. A
// superseded or explicitly cancelled watch keeps its existing state.
func (c *Controller) settle(err error, errCb func(error), current func() (*State, bool)) {
	c.mu.Lock()

	state, owns := current()
	if !owns || *state != StateActive {
		c.mu.Unlock()
		return
	}

	if err != nil {
		*state = StateErrored
	} else {
		*state = StateCompleted
	}

	c.mu.Unlock()

	if err != nil {
		c.logger.Error().Err(err).Msg("Watch terminated with transport error")

		if errCb != nil {
			errCb(err)
		}
	}
}

// ConfigurationState reports the snapshot watch's lifecycle state.
func (c *Controller) ConfigurationState() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.configState
}

// TopologyState reports the topology watch's lifecycle state.
func (c *Controller) TopologyState() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.topoState
}

// RequestRollback asks the configuration service to roll back a named
// change. A blank comment gets a fixed default. The result is informational
// only and never merged into the registry.
func (c *Controller) RequestRollback(ctx context.Context, changeName, comment string) *stream.Subscription[*models.RollbackResponse] {
	if comment == "" {
		comment = defaultRollbackComment
	}

	return stream.BridgeUnary(ctx, c.logger, func(ctx context.Context) (*models.RollbackResponse, error) {
		return c.admin.Rollback(ctx, changeName, comment)
	})
}

// RequestListRegisteredModels streams the model plugins registered with the
// configuration service. Raw pass-through; nothing is merged.
func (c *Controller) RequestListRegisteredModels(ctx context.Context, verbose bool) *stream.Subscription[*models.ModelInfo] {
	return stream.Bridge(ctx, c.logger, func(ctx context.Context) (stream.Receiver[*models.ModelInfo], error) {
		return c.admin.ListRegisteredModels(ctx, verbose)
	})
}

// RequestCompactChanges asks the configuration service to compact change
// history older than the retention period. Interpreting the response is the
// caller's responsibility.
func (c *Controller) RequestCompactChanges(ctx context.Context, retention time.Duration) *stream.Subscription[*models.CompactionResponse] {
	return stream.BridgeUnary(ctx, c.logger, func(ctx context.Context) (*models.CompactionResponse, error) {
		return c.admin.CompactChanges(ctx, durationpb.New(retention))
	})
}

// Shutdown cancels any active watches. The controller can be reused by
// starting new watches afterwards.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopConfigLocked()
	c.stopTopologyLocked()
}
