package subscription

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/devicewatch/devicewatch/pkg/logger"
	"github.com/devicewatch/devicewatch/pkg/models"
	"github.com/devicewatch/devicewatch/pkg/registry"
	"github.com/devicewatch/devicewatch/pkg/stream"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// scripted replays fixed items, then reports a terminal error.
type scripted[T any] struct {
	items    []T
	terminal error
	idx      int
}

func (s *scripted[T]) Recv() (T, error) {
	if s.idx < len(s.items) {
		item := s.items[s.idx]
		s.idx++

		return item, nil
	}

	var zero T

	return zero, s.terminal
}

// blocking blocks in Recv until the issuing context is cancelled and counts
// resource releases.
type blocking[T any] struct {
	ctx      context.Context
	releases atomic.Int32
}

func (b *blocking[T]) Recv() (T, error) {
	<-b.ctx.Done()
	b.releases.Add(1)

	var zero T

	return zero, b.ctx.Err()
}

type testHarness struct {
	controller *Controller
	registry   *registry.Registry
	snapshots  *MockSnapshotService
	topology   *MockTopologyService
	admin      *MockAdminService
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()

	ctrl := gomock.NewController(t)
	reg := registry.New(logger.NewTestLogger())

	snapshots := NewMockSnapshotService(ctrl)
	topology := NewMockTopologyService(ctrl)
	admin := NewMockAdminService(ctrl)

	controller, err := New(Config{
		Registry:  reg,
		Snapshots: snapshots,
		Topology:  topology,
		Admin:     admin,
	}, logger.NewTestLogger())
	require.NoError(t, err)

	return &testHarness{
		controller: controller,
		registry:   reg,
		snapshots:  snapshots,
		topology:   topology,
		admin:      admin,
	}
}

func drain[T any](t *testing.T, sub *stream.Subscription[T]) []T {
	t.Helper()

	var items []T

	timeout := time.After(waitFor)

	for {
		select {
		case item, ok := <-sub.Events():
			if !ok {
				return items
			}

			items = append(items, item)
		case <-timeout:
			t.Fatal("timed out draining subscription")
		}
	}
}

func testSnapshot(deviceID, version string) *models.ConfigurationSnapshot {
	return &models.ConfigurationSnapshot{
		ID:            deviceID + ":" + version,
		DeviceID:      deviceID,
		DeviceVersion: version,
		DeviceType:    "switch",
	}
}

func TestNewValidatesDependencies(t *testing.T) {
	_, err := New(Config{}, logger.NewTestLogger())
	assert.ErrorIs(t, err, ErrRegistryRequired)

	_, err = New(Config{Registry: registry.New(logger.NewTestLogger())}, logger.NewTestLogger())
	assert.ErrorIs(t, err, ErrSnapshotServiceRequired)
}

func TestWatchConfigurationsMergesSnapshots(t *testing.T) {
	h := newHarness(t)

	h.snapshots.EXPECT().
		Subscribe(gomock.Any(), "").
		Return(&scripted[*models.ConfigurationSnapshot]{
			items: []*models.ConfigurationSnapshot{
				testSnapshot("dev1", "1.0"),
				testSnapshot("dev2", "2.0"),
			},
			terminal: io.EOF,
		}, nil)

	h.controller.WatchConfigurations(context.Background(), nil)

	require.Eventually(t, func() bool {
		return h.controller.ConfigurationState() == StateCompleted
	}, waitFor, tick)

	assert.Equal(t, 2, h.registry.DeviceCount())
	assert.Equal(t, 2, h.registry.SnapshotCount())

	_, ok := h.registry.GetDevice(models.NewDeviceKey("dev1", "1.0"))
	assert.True(t, ok)
}

func TestWatchConfigurationsErrorSurfacesOnce(t *testing.T) {
	h := newHarness(t)

	transportErr := status.Error(codes.Unavailable, "stream broken")

	h.snapshots.EXPECT().
		Subscribe(gomock.Any(), "").
		Return(&scripted[*models.ConfigurationSnapshot]{
			items:    []*models.ConfigurationSnapshot{testSnapshot("dev1", "1.0")},
			terminal: transportErr,
		}, nil)

	errs := make(chan error, 2)

	h.controller.WatchConfigurations(context.Background(), func(err error) { errs <- err })

	select {
	case err := <-errs:
		assert.Equal(t, codes.Unavailable, status.Code(err))
	case <-time.After(waitFor):
		t.Fatal("error callback never invoked")
	}

	assert.Equal(t, StateErrored, h.controller.ConfigurationState())

	// Data merged before the failure stays intact.
	assert.Equal(t, 1, h.registry.DeviceCount())

	select {
	case err := <-errs:
		t.Fatalf("error reported more than once: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStopWatchingConfigurationsIdempotent(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, StateIdle, h.controller.ConfigurationState())

	h.controller.StopWatchingConfigurations()
	h.controller.StopWatchingConfigurations()

	assert.Equal(t, StateIdle, h.controller.ConfigurationState())
}

func TestStopCancelsActiveWatch(t *testing.T) {
	h := newHarness(t)

	src := &blocking[*models.ConfigurationSnapshot]{}

	h.snapshots.EXPECT().
		Subscribe(gomock.Any(), "").
		DoAndReturn(func(ctx context.Context, _ string) (stream.Receiver[*models.ConfigurationSnapshot], error) {
			src.ctx = ctx
			return src, nil
		})

	h.controller.WatchConfigurations(context.Background(), func(err error) {
		t.Errorf("unexpected error callback: %v", err)
	})

	require.Eventually(t, func() bool {
		return h.controller.ConfigurationState() == StateActive
	}, waitFor, tick)

	h.controller.StopWatchingConfigurations()

	assert.Equal(t, StateCancelled, h.controller.ConfigurationState())

	require.Eventually(t, func() bool {
		return src.releases.Load() == 1
	}, waitFor, tick)

	// The state stays cancelled once the drained stream settles.
	h.controller.StopWatchingConfigurations()
	assert.Equal(t, StateCancelled, h.controller.ConfigurationState())
}

func TestWatchRestartReleasesPriorStream(t *testing.T) {
	h := newHarness(t)

	first := &blocking[*models.ConfigurationSnapshot]{}
	second := &blocking[*models.ConfigurationSnapshot]{}

	gomock.InOrder(
		h.snapshots.EXPECT().
			Subscribe(gomock.Any(), "").
			DoAndReturn(func(ctx context.Context, _ string) (stream.Receiver[*models.ConfigurationSnapshot], error) {
				first.ctx = ctx
				return first, nil
			}),
		h.snapshots.EXPECT().
			Subscribe(gomock.Any(), "").
			DoAndReturn(func(ctx context.Context, _ string) (stream.Receiver[*models.ConfigurationSnapshot], error) {
				second.ctx = ctx
				return second, nil
			}),
	)

	ctx := context.Background()

	h.controller.WatchConfigurations(ctx, nil)

	require.Eventually(t, func() bool {
		return h.controller.ConfigurationState() == StateActive
	}, waitFor, tick)

	h.controller.WatchConfigurations(ctx, nil)

	require.Eventually(t, func() bool {
		return first.releases.Load() == 1
	}, waitFor, tick)

	assert.Equal(t, StateActive, h.controller.ConfigurationState())
	assert.Equal(t, int32(0), second.releases.Load())

	h.controller.Shutdown()
}

func TestWatchTopologyMergesEntities(t *testing.T) {
	h := newHarness(t)

	h.topology.EXPECT().
		Watch(gomock.Any()).
		Return(&scripted[*models.TopologyEntity]{
			items: []*models.TopologyEntity{
				{
					ID:         "dev1",
					Type:       models.EntityTypeEntity,
					Attributes: map[string]string{"version": "1.0", "kind": "switch"},
					ProtocolStates: []models.ProtocolState{
						{
							Protocol:     models.ProtocolGNMI,
							Connectivity: models.ConnectivityReachable,
							Service:      models.ServiceAvailable,
							Channel:      models.ChannelConnected,
						},
					},
				},
				{
					ID:   "ignored-relation",
					Type: models.EntityTypeRelation,
				},
			},
			terminal: io.EOF,
		}, nil)

	h.controller.WatchTopology(context.Background(), nil)

	require.Eventually(t, func() bool {
		return h.controller.TopologyState() == StateCompleted
	}, waitFor, tick)

	assert.Equal(t, 1, h.registry.DeviceCount())

	key := models.NewDeviceKey("dev1", "1.0")
	assert.Equal(t, []string{"gnmi_connected", "gnmi_reachable"}, h.registry.StatusStylesFor(key))
	assert.Equal(t, 13, h.registry.StatusCodeFor(key))
}

func TestRequestRollbackDefaultComment(t *testing.T) {
	h := newHarness(t)

	h.admin.EXPECT().
		Rollback(gomock.Any(), "change-42", defaultRollbackComment).
		Return(&models.RollbackResponse{Message: "ok"}, nil)

	sub := h.controller.RequestRollback(context.Background(), "change-42", "")

	items := drain(t, sub)
	require.Len(t, items, 1)
	assert.Equal(t, "ok", items[0].Message)
	assert.NoError(t, sub.Err())

	// Registry is never touched by rollback results.
	assert.Equal(t, 0, h.registry.DeviceCount())
}

func TestRequestRollbackExplicitComment(t *testing.T) {
	h := newHarness(t)

	h.admin.EXPECT().
		Rollback(gomock.Any(), "change-42", "manual revert").
		Return(&models.RollbackResponse{}, nil)

	sub := h.controller.RequestRollback(context.Background(), "change-42", "manual revert")

	drain(t, sub)
	assert.NoError(t, sub.Err())
}

func TestRequestCompactChanges(t *testing.T) {
	h := newHarness(t)

	h.admin.EXPECT().
		CompactChanges(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, retention *durationpb.Duration) (*models.CompactionResponse, error) {
			assert.Equal(t, 24*time.Hour, retention.AsDuration())
			return &models.CompactionResponse{Message: "compacted"}, nil
		})

	sub := h.controller.RequestCompactChanges(context.Background(), 24*time.Hour)

	items := drain(t, sub)
	require.Len(t, items, 1)
	assert.Equal(t, "compacted", items[0].Message)
}

func TestRequestListRegisteredModels(t *testing.T) {
	h := newHarness(t)

	h.admin.EXPECT().
		ListRegisteredModels(gomock.Any(), true).
		Return(&scripted[*models.ModelInfo]{
			items: []*models.ModelInfo{
				{Name: "openconfig-interfaces", Version: "2.4.1"},
				{Name: "openconfig-system", Version: "0.9.1"},
			},
			terminal: io.EOF,
		}, nil)

	sub := h.controller.RequestListRegisteredModels(context.Background(), true)

	items := drain(t, sub)
	require.Len(t, items, 2)
	assert.Equal(t, "openconfig-interfaces", items[0].Name)
	assert.NoError(t, sub.Err())

	assert.Equal(t, 0, h.registry.DeviceCount())
}

func TestShutdownCancelsAllWatches(t *testing.T) {
	h := newHarness(t)

	configSrc := &blocking[*models.ConfigurationSnapshot]{}
	topoSrc := &blocking[*models.TopologyEntity]{}

	h.snapshots.EXPECT().
		Subscribe(gomock.Any(), "").
		DoAndReturn(func(ctx context.Context, _ string) (stream.Receiver[*models.ConfigurationSnapshot], error) {
			configSrc.ctx = ctx
			return configSrc, nil
		})
	h.topology.EXPECT().
		Watch(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (stream.Receiver[*models.TopologyEntity], error) {
			topoSrc.ctx = ctx
			return topoSrc, nil
		})

	ctx := context.Background()
	h.controller.WatchConfigurations(ctx, nil)
	h.controller.WatchTopology(ctx, nil)

	require.Eventually(t, func() bool {
		return h.controller.ConfigurationState() == StateActive &&
			h.controller.TopologyState() == StateActive
	}, waitFor, tick)

	h.controller.Shutdown()

	assert.Equal(t, StateCancelled, h.controller.ConfigurationState())
	assert.Equal(t, StateCancelled, h.controller.TopologyState())

	require.Eventually(t, func() bool {
		return configSrc.releases.Load() == 1 && topoSrc.releases.Load() == 1
	}, waitFor, tick)
}
