// README: Trip input, vehicle/schedule enums, and validation for the tariff engine.
package pricing

import (
	"fmt"
	"math"
	"strings"
)

type VehicleClass string

const (
	Compact VehicleClass = "Compact"
	Van     VehicleClass = "Van"
)

// ParseVehicleClass accepts the canonical names and the fleet model aliases ("ray", "starex").
func ParseVehicleClass(s string) (VehicleClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "compact", "ray":
		return Compact, nil
	case "van", "starex":
		return Van, nil
	case "":
		return "", &ValidationError{Field: "vehicleType", Reason: "is required"}
	}
	return "", &ValidationError{Field: "vehicleType", Reason: fmt.Sprintf("unknown vehicle type %q", s)}
}

type ScheduleType string

const (
	AdHoc   ScheduleType = "AdHoc"
	Regular ScheduleType = "Regular"
)

// ParseScheduleType treats an empty value as AdHoc.
func ParseScheduleType(s string) (ScheduleType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "adhoc", "ad-hoc", "ad_hoc":
		return AdHoc, nil
	case "regular":
		return Regular, nil
	}
	return "", &ValidationError{Field: "scheduleType", Reason: fmt.Sprintf("unknown schedule type %q", s)}
}

type Plan string

const (
	PlanHourly Plan = "Hourly"
	PlanPerJob Plan = "PerJob"
)

// Upper bounds that keep minute, band and stop fee arithmetic inside int64.
// MaxDwellMinutes and MaxStopsCount also fit int32 columns.
const (
	maxDistanceMeters  = 1e9
	maxDurationSeconds = 1e9

	MaxDwellMinutes = 16_666_666
	MaxStopsCount   = 10_000
)

// TripInput is a computed route plus the commercial options of the request.
// StopsCount excludes the origin and the final destination.
type TripInput struct {
	DistanceMeters  float64
	DurationSeconds float64
	DwellMinutes    []int
	StopsCount      int
	Vehicle         VehicleClass
	Schedule        ScheduleType
}

func (in TripInput) DistanceKm() float64 {
	return in.DistanceMeters / 1000
}

// DriveMinutes is the drive time rounded up to whole minutes.
func (in TripInput) DriveMinutes() int {
	return int(math.Ceil(in.DurationSeconds / 60))
}

func (in TripInput) DwellTotal() int {
	total := 0
	for _, m := range in.DwellMinutes {
		total += m
	}
	return total
}

// Validate rejects the input as a whole; no partial result is ever computed.
func (in TripInput) Validate() error {
	if err := checkQuantity("distance", in.DistanceMeters, maxDistanceMeters); err != nil {
		return err
	}
	if err := checkQuantity("time", in.DurationSeconds, maxDurationSeconds); err != nil {
		return err
	}
	total := 0
	for i, m := range in.DwellMinutes {
		field := fmt.Sprintf("dwellMinutes[%d]", i)
		switch {
		case m < 0:
			return &ValidationError{Field: field, Reason: "must not be negative"}
		case m > MaxDwellMinutes:
			return &ValidationError{Field: field, Reason: "exceeds the supported range"}
		}
		total += m
		if total > MaxDwellMinutes {
			return &ValidationError{Field: "dwellMinutes", Reason: "exceeds the supported range"}
		}
	}
	switch {
	case in.StopsCount < 0:
		return &ValidationError{Field: "stopsCount", Reason: "must not be negative"}
	case in.StopsCount > MaxStopsCount:
		return &ValidationError{Field: "stopsCount", Reason: "exceeds the supported range"}
	}
	if in.Vehicle != Compact && in.Vehicle != Van {
		return &ValidationError{Field: "vehicleType", Reason: fmt.Sprintf("unknown vehicle type %q", in.Vehicle)}
	}
	if in.Schedule != AdHoc && in.Schedule != Regular {
		return &ValidationError{Field: "scheduleType", Reason: fmt.Sprintf("unknown schedule type %q", in.Schedule)}
	}
	return nil
}

func checkQuantity(field string, v, limit float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return &ValidationError{Field: field, Reason: "must be a finite number"}
	case v < 0:
		return &ValidationError{Field: field, Reason: "must not be negative"}
	case v > limit:
		return &ValidationError{Field: field, Reason: "exceeds the supported range"}
	}
	return nil
}

// ValidationError identifies the offending request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}
