// README: Quote history record, one row per priced request.
package history

import "time"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Record is the audit copy of a quote: the trip inputs plus both plan totals.
type Record struct {
	ID              string    `json:"id"`
	DistanceMeters  float64   `json:"distanceMeters"`
	DurationSeconds float64   `json:"durationSeconds"`
	DwellMinutes    []int32   `json:"dwellMinutes"`
	StopsCount      int32     `json:"stopsCount"`
	VehicleType     string    `json:"vehicleType"`
	ScheduleType    string    `json:"scheduleType"`
	HourlyTotal     int64     `json:"hourlyTotal"`
	PerJobTotal     int64     `json:"perJobTotal"`
	RecommendedPlan string    `json:"recommendedPlan"`
	TotalPrice      int64     `json:"totalPrice"`
	RouteSource     string    `json:"routeSource,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ClampLimit maps a requested page size into [1, MaxLimit]; zero means DefaultLimit.
func ClampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultLimit
	case limit < 1:
		return 1
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}
