package domain

import (
	"context"
	"time"
)

// EndpointHit is one recorded call to a tracked endpoint.
// swagger:model EndpointHit
type EndpointHit struct {
	ID        int64    `json:"id,omitempty"`
	App       string   `json:"app"`
	URI       string   `json:"uri"`
	IP        string   `json:"ip"`
	Timestamp DateTime `json:"timestamp"`
}

// ViewStats is the aggregated hit count for one endpoint of one app.
// swagger:model ViewStats
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// StatsRepository defines storage for the statistics service.
type StatsRepository interface {
	Save(ctx context.Context, hit *EndpointHit) error
	// Aggregate counts hits per (app, uri) with created_on in [start, end].
	// When uris is non-empty only those endpoints are counted; unique counts
	// distinct client IPs instead of raw hits.
	Aggregate(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]*ViewStats, error)
}

// StatsService defines the statistics service business operations.
type StatsService interface {
	RecordHit(ctx context.Context, hit *EndpointHit) error
	GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]*ViewStats, error)
}

// StatsClient is the EWM server's port to the statistics service. Both calls
// are best-effort from the caller's point of view: a stats outage must not
// break event reads.
type StatsClient interface {
	PostHit(ctx context.Context, hit *EndpointHit) error
	GetViews(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]*ViewStats, error)
}

// TokenIssuer issues bearer tokens for service-to-service calls.
type TokenIssuer interface {
	Issue(subject string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a bearer token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (subject string, err error)
}
