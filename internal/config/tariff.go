package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// RateRow is one stepped bracket: values apply while the key is <= Upper.
type RateRow struct {
	Upper   float64 `yaml:"upper"`
	Compact int64   `yaml:"compact"`
	Van     int64   `yaml:"van"`
}

// Amounts holds a KRW amount per vehicle class.
type Amounts struct {
	Compact int64
	Van     int64
}

// Factors holds a real-valued parameter per vehicle class.
type Factors struct {
	Compact float64
	Van     float64
}

// Tariff is the raw numeric tariff. pricing.NewTariff validates and freezes it.
type Tariff struct {
	Hourly []RateRow // bill-minute ceiling -> KRW per hour
	PerJob []RateRow // km ceiling -> flat KRW per job

	StopFee           Amounts
	FuelBand          Amounts // per started 10 km band beyond the included allowance
	Overage           Amounts // per started km beyond the last PerJob bracket
	RegularLoadFactor float64

	BaseRate       float64
	PerKmRate      float64
	PerMinuteRate  float64
	Weight         Factors
	FuelPrice      float64 // KRW per litre
	FuelEfficiency Factors // km per litre
}

// DefaultTariff returns the built-in tariff. Every call returns fresh slices.
func DefaultTariff() Tariff {
	return Tariff{
		Hourly: []RateRow{
			{Upper: 120, Compact: 26500, Van: 33000},
			{Upper: 180, Compact: 25000, Van: 31000},
			{Upper: 240, Compact: 24000, Van: 30000},
			{Upper: 360, Compact: 23000, Van: 28500},
			{Upper: 480, Compact: 22000, Van: 27500},
			{Upper: 600, Compact: 21000, Van: 26500},
		},
		PerJob: []RateRow{
			{Upper: 5, Compact: 25000, Van: 30000},
			{Upper: 10, Compact: 27000, Van: 34000},
			{Upper: 15, Compact: 30000, Van: 37000},
			{Upper: 20, Compact: 33000, Van: 40000},
			{Upper: 25, Compact: 36000, Van: 43000},
		},
		StopFee:           Amounts{Compact: 5000, Van: 7000},
		FuelBand:          Amounts{Compact: 2000, Van: 2800},
		Overage:           Amounts{Compact: 1200, Van: 1500},
		RegularLoadFactor: 1.2,

		BaseRate:       30000,
		PerKmRate:      1000,
		PerMinuteRate:  200,
		Weight:         Factors{Compact: 1.0, Van: 1.2},
		FuelPrice:      1700,
		FuelEfficiency: Factors{Compact: 12, Van: 9},
	}
}

type tariffFile struct {
	Hourly []RateRow `yaml:"hourly"`
	PerJob []RateRow `yaml:"perJob"`
}

// loadTariffFile replaces the tables present in a YAML file; absent tables keep their defaults.
func loadTariffFile(path string, t *Tariff) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f tariffFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if f.Hourly == nil && f.PerJob == nil {
		return errors.New("no hourly or perJob table found")
	}
	if f.Hourly != nil {
		if err := ValidateRows(f.Hourly); err != nil {
			return fmt.Errorf("hourly: %w", err)
		}
		t.Hourly = f.Hourly
	}
	if f.PerJob != nil {
		if err := ValidateRows(f.PerJob); err != nil {
			return fmt.Errorf("perJob: %w", err)
		}
		t.PerJob = f.PerJob
	}
	return nil
}

var (
	ErrEmptyTable     = errors.New("rate table must have at least one row")
	ErrUnorderedTable = errors.New("rate table thresholds must be strictly increasing")
	ErrNegativeRate   = errors.New("rate table values must not be negative")
	ErrBadThreshold   = errors.New("rate table thresholds must be finite and positive")
)

// ValidateRows checks the stepped-table invariants shared by every rate table.
func ValidateRows(rows []RateRow) error {
	if len(rows) == 0 {
		return ErrEmptyTable
	}
	for i, r := range rows {
		if math.IsNaN(r.Upper) || math.IsInf(r.Upper, 0) || r.Upper <= 0 {
			return fmt.Errorf("row %d: %w", i, ErrBadThreshold)
		}
		if i > 0 && r.Upper <= rows[i-1].Upper {
			return fmt.Errorf("row %d: %w", i, ErrUnorderedTable)
		}
		if r.Compact < 0 || r.Van < 0 {
			return fmt.Errorf("row %d: %w", i, ErrNegativeRate)
		}
	}
	return nil
}
