package simulator

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/devicewatch/devicewatch/pkg/logger"
	"github.com/devicewatch/devicewatch/pkg/models"
)

func TestWatchEmitsEverySeededDevice(t *testing.T) {
	fleet := New(3, time.Hour, logger.NewTestLogger())

	rx, err := fleet.Watch(context.Background())
	require.NoError(t, err)

	seen := make(map[string]bool)

	for i := 0; i < 3; i++ {
		entity, err := rx.Recv()
		require.NoError(t, err)
		require.Equal(t, models.EntityTypeEntity, entity.Type)
		assert.NotEmpty(t, entity.Attributes["kind"])
		assert.Equal(t, "1.0.0", entity.Attributes["version"])

		seen[entity.ID] = true
	}

	assert.Len(t, seen, 3)
}

func TestSubscribeSnapshotsCarryUniqueSnapshotIDs(t *testing.T) {
	fleet := New(2, time.Hour, logger.NewTestLogger())

	rx, err := fleet.Subscribe(context.Background(), "")
	require.NoError(t, err)

	first, err := rx.Recv()
	require.NoError(t, err)

	second, err := rx.Recv()
	require.NoError(t, err)

	assert.NotEqual(t, first.DeviceID, second.DeviceID)
	assert.NotEqual(t, first.SnapshotID, second.SnapshotID)
	assert.Equal(t, first.DeviceID+":"+first.DeviceVersion, first.ID)
}

func TestSubscribeCancelUnblocksRecv(t *testing.T) {
	fleet := New(1, time.Hour, logger.NewTestLogger())

	ctx, cancel := context.WithCancel(context.Background())

	rx, err := fleet.Subscribe(ctx, "")
	require.NoError(t, err)

	_, err = rx.Recv()
	require.NoError(t, err)

	cancel()

	_, err = rx.Recv()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListRegisteredModelsCompletes(t *testing.T) {
	fleet := New(1, time.Hour, logger.NewTestLogger())

	rx, err := fleet.ListRegisteredModels(context.Background(), false)
	require.NoError(t, err)

	var names []string

	for {
		info, err := rx.Recv()
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}

		names = append(names, info.Name)
	}

	assert.Equal(t, []string{"openconfig-interfaces", "openconfig-system"}, names)
}

func TestAdminAcknowledgements(t *testing.T) {
	fleet := New(1, time.Hour, logger.NewTestLogger())

	rollback, err := fleet.Rollback(context.Background(), "change-7", "operator request")
	require.NoError(t, err)
	assert.Contains(t, rollback.Message, "change-7")

	compaction, err := fleet.CompactChanges(context.Background(), durationpb.New(24*time.Hour))
	require.NoError(t, err)
	assert.Contains(t, compaction.Message, "24h")
}
