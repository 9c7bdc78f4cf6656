package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"explorewithme/internal/domain"
)

type statsRepository struct {
	DB *sql.DB
}

func NewStatsRepository(db *sql.DB) domain.StatsRepository {
	return &statsRepository{
		DB: db,
	}
}

func (r *statsRepository) Save(ctx context.Context, hit *domain.EndpointHit) error {
	return r.DB.QueryRowContext(ctx,
		`INSERT INTO endpoint_hits (app, uri, ip, created_on)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		hit.App, hit.URI, hit.IP, hit.Timestamp,
	).Scan(&hit.ID)
}

// Aggregate counts hits per (app, uri) in SQL rather than filtering rows in
// memory. unique switches the count to distinct client IPs.
func (r *statsRepository) Aggregate(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]*domain.ViewStats, error) {
	count := "COUNT(*)"
	if unique {
		count = "COUNT(DISTINCT ip)"
	}
	where := []string{"created_on >= $1", "created_on <= $2"}
	args := []any{start, end}
	if len(uris) > 0 {
		where = append(where, "uri = ANY($3)")
		args = append(args, pq.Array(uris))
	}
	query := fmt.Sprintf(
		`SELECT app, uri, %s AS hits
		 FROM endpoint_hits
		 WHERE %s
		 GROUP BY app, uri
		 ORDER BY hits DESC`,
		count, strings.Join(where, " AND "))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]*domain.ViewStats, 0)
	for rows.Next() {
		vs := &domain.ViewStats{}
		if err := rows.Scan(&vs.App, &vs.URI, &vs.Hits); err != nil {
			return nil, err
		}
		stats = append(stats, vs)
	}
	return stats, rows.Err()
}
