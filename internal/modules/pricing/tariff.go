package pricing

import (
	"fmt"

	"farequote/internal/config"
)

type vehicleAmounts struct {
	compact, van int64
}

func (a vehicleAmounts) of(v VehicleClass) int64 {
	if v == Van {
		return a.van
	}
	return a.compact
}

type vehicleFactors struct {
	compact, van float64
}

func (f vehicleFactors) of(v VehicleClass) float64 {
	if v == Van {
		return f.van
	}
	return f.compact
}

// Tariff is the validated, read-only parameter set every calculator runs on.
// It is built once at startup and shared by all requests without locking.
type Tariff struct {
	hourly RateTable
	perJob RateTable

	stopFee           vehicleAmounts
	fuelBand          vehicleAmounts
	overage           vehicleAmounts
	regularLoadFactor float64

	baseRate       float64
	perKmRate      float64
	perMinuteRate  float64
	weight         vehicleFactors
	fuelPrice      float64
	fuelEfficiency vehicleFactors
}

func NewTariff(cfg config.Tariff) (*Tariff, error) {
	hourly, err := NewRateTable("min", cfg.Hourly)
	if err != nil {
		return nil, fmt.Errorf("hourly table: %w", err)
	}
	perJob, err := NewRateTable("km", cfg.PerJob)
	if err != nil {
		return nil, fmt.Errorf("per-job table: %w", err)
	}
	if cfg.RegularLoadFactor <= 0 {
		return nil, fmt.Errorf("regular load factor must be positive, got %v", cfg.RegularLoadFactor)
	}
	if cfg.FuelEfficiency.Compact <= 0 || cfg.FuelEfficiency.Van <= 0 {
		return nil, fmt.Errorf("fuel efficiency must be positive")
	}
	return &Tariff{
		hourly:            hourly,
		perJob:            perJob,
		stopFee:           vehicleAmounts{cfg.StopFee.Compact, cfg.StopFee.Van},
		fuelBand:          vehicleAmounts{cfg.FuelBand.Compact, cfg.FuelBand.Van},
		overage:           vehicleAmounts{cfg.Overage.Compact, cfg.Overage.Van},
		regularLoadFactor: cfg.RegularLoadFactor,
		baseRate:          cfg.BaseRate,
		perKmRate:         cfg.PerKmRate,
		perMinuteRate:     cfg.PerMinuteRate,
		weight:            vehicleFactors{cfg.Weight.Compact, cfg.Weight.Van},
		fuelPrice:         cfg.FuelPrice,
		fuelEfficiency:    vehicleFactors{cfg.FuelEfficiency.Compact, cfg.FuelEfficiency.Van},
	}, nil
}

// DefaultTariff returns the built-in tariff. It panics only if the built-in tables are broken.
func DefaultTariff() *Tariff {
	t, err := NewTariff(config.DefaultTariff())
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tariff) HourlyTable() RateTable { return t.hourly }

func (t *Tariff) PerJobTable() RateTable { return t.perJob }

// ClassConstants are the per-vehicle constants exposed to callers rendering the tariff.
type ClassConstants struct {
	StopFee        int64
	RegularStopFee int64
	FuelBandCharge int64
	OveragePerKm   int64
	WeightFactor   float64
	FuelEfficiency float64
}

func (t *Tariff) Constants(v VehicleClass) ClassConstants {
	_, regularStopFee := t.stopFeeFor(v, Regular)
	return ClassConstants{
		StopFee:        t.stopFee.of(v),
		RegularStopFee: regularStopFee,
		FuelBandCharge: t.fuelBand.of(v),
		OveragePerKm:   t.overage.of(v),
		WeightFactor:   t.weight.of(v),
		FuelEfficiency: t.fuelEfficiency.of(v),
	}
}

func (t *Tariff) RegularLoadFactor() float64 { return t.regularLoadFactor }

func (t *Tariff) FuelPrice() float64 { return t.fuelPrice }
