package health

import "context"

// ClusterPinger checks search cluster availability.
type ClusterPinger interface {
	Ping(ctx context.Context) error
}
