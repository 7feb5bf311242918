package pricing

import "math"

const (
	fuelBandKm        = 10.0
	includedKmPerHour = 10.0
)

// FuelSurcharge charges every started 10 km band driven beyond the distance
// included with the billed time.
type FuelSurcharge struct {
	IncludedKm float64
	ExcessKm   float64
	Bands      int64
	Amount     int64
}

func (t *Tariff) FuelSurcharge(v VehicleClass, distanceKm float64, billMinutes int) FuelSurcharge {
	included := includedKmPerHour * float64(billMinutes) / 60
	excess := math.Max(0, distanceKm-included)
	bands := int64(math.Ceil(excess / fuelBandKm))
	return FuelSurcharge{
		IncludedKm: included,
		ExcessKm:   excess,
		Bands:      bands,
		Amount:     bands * t.fuelBand.of(v),
	}
}
