// README: History service records priced quotes and lists recent ones.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"farequote/internal/modules/pricing"
)

// Repository is the persistence contract the service needs; *Store satisfies it.
type Repository interface {
	Insert(ctx context.Context, r *Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Record stores the quote and returns the persisted record.
func (s *Service) Record(ctx context.Context, cmp pricing.Comparison, routeSource string) (*Record, error) {
	in := cmp.Input
	// pricing.MaxDwellMinutes and pricing.MaxStopsCount bound validated input within int32.
	dwell := make([]int32, len(in.DwellMinutes))
	for i, m := range in.DwellMinutes {
		dwell[i] = int32(m)
	}
	r := &Record{
		ID:              uuid.NewString(),
		DistanceMeters:  in.DistanceMeters,
		DurationSeconds: in.DurationSeconds,
		DwellMinutes:    dwell,
		StopsCount:      int32(in.StopsCount),
		VehicleType:     string(in.Vehicle),
		ScheduleType:    string(in.Schedule),
		HourlyTotal:     cmp.Hourly.Total,
		PerJobTotal:     cmp.PerJob.Total,
		RecommendedPlan: string(cmp.Recommended),
		TotalPrice:      cmp.Total,
		RouteSource:     routeSource,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, r); err != nil {
		return nil, fmt.Errorf("insert quote history: %w", err)
	}
	return r, nil
}

func (s *Service) Recent(ctx context.Context, limit int) ([]Record, error) {
	records, err := s.repo.Recent(ctx, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list quote history: %w", err)
	}
	return records, nil
}
