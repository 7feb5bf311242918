package pricing

import "math"

// ReferenceEstimate is a linear cost estimate (base + distance + time, weighted
// per class, plus fuel at the configured price and efficiency). It is reported
// next to the plans and never affects the recommendation.
type ReferenceEstimate struct {
	Labour   int64
	FuelCost int64
	Total    int64
}

func (t *Tariff) Reference(in TripInput) ReferenceEstimate {
	km := in.DistanceKm()
	minutes := float64(in.DriveMinutes() + in.DwellTotal())

	labour := (t.baseRate + km*t.perKmRate + minutes*t.perMinuteRate) * t.weight.of(in.Vehicle)
	fuel := km / t.fuelEfficiency.of(in.Vehicle) * t.fuelPrice

	l := int64(math.Round(labour))
	f := int64(math.Round(fuel))
	return ReferenceEstimate{Labour: l, FuelCost: f, Total: l + f}
}
