package subscription

//go:generate mockgen -destination=mock_services.go -package=subscription github.com/devicewatch/devicewatch/pkg/subscription SnapshotService,TopologyService,AdminService

import (
	"context"

	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/devicewatch/devicewatch/pkg/models"
	"github.com/devicewatch/devicewatch/pkg/stream"
)

// SnapshotService is the configuration-snapshot source. Subscribe opens one
// push stream of per-device snapshots matching the optional wildcard filter
// (empty string subscribes to every device).
type SnapshotService interface {
	Subscribe(ctx context.Context, filter string) (stream.Receiver[*models.ConfigurationSnapshot], error)
}

// TopologyService is the topology-entity source. Watch opens one push
// stream of entity records; the core reads them and never writes back.
type TopologyService interface {
	Watch(ctx context.Context) (stream.Receiver[*models.TopologyEntity], error)
}

// AdminService is the administrative RPC surface of the configuration
// service. The authorization credential travels opaquely per call on the
// underlying connection.
type AdminService interface {
	Rollback(ctx context.Context, changeName, comment string) (*models.RollbackResponse, error)
	ListRegisteredModels(ctx context.Context, verbose bool) (stream.Receiver[*models.ModelInfo], error)
	CompactChanges(ctx context.Context, retention *durationpb.Duration) (*models.CompactionResponse, error)
}
