package subscription

import "errors"

var (
	ErrRegistryRequired        = errors.New("device registry is required")
	ErrSnapshotServiceRequired = errors.New("snapshot service is required")
	ErrTopologyServiceRequired = errors.New("topology service is required")
	ErrAdminServiceRequired    = errors.New("admin service is required")
)
