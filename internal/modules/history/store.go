// README: Quote history store backed by PostgreSQL.
package history

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, r *Record) error {
	dwell := r.DwellMinutes
	if dwell == nil {
		dwell = []int32{}
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO quote_history (
			id, distance_meters, duration_seconds, dwell_minutes, stops_count,
			vehicle_type, schedule_type, hourly_total, per_job_total,
			recommended_plan, total_price, route_source, created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12, $13
		)`,
		r.ID, r.DistanceMeters, r.DurationSeconds, dwell, r.StopsCount,
		r.VehicleType, r.ScheduleType, r.HourlyTotal, r.PerJobTotal,
		r.RecommendedPlan, r.TotalPrice, toStringPtr(r.RouteSource), r.CreatedAt,
	)
	return err
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, distance_meters, duration_seconds, dwell_minutes, stops_count,
		       vehicle_type, schedule_type, hourly_total, per_job_total,
		       recommended_plan, total_price, route_source, created_at
		FROM quote_history
		ORDER BY created_at DESC, id
		LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var r Record
		var source sql.NullString
		if err := rows.Scan(
			&r.ID, &r.DistanceMeters, &r.DurationSeconds, &r.DwellMinutes, &r.StopsCount,
			&r.VehicleType, &r.ScheduleType, &r.HourlyTotal, &r.PerJobTotal,
			&r.RecommendedPlan, &r.TotalPrice, &source, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		r.RouteSource = source.String
		out = append(out, r)
	}
	return out, rows.Err()
}

func toStringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
