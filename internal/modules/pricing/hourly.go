package pricing

import "math"

const (
	minBillMinutes     = 120
	billQuantumMinutes = 30
)

// HourlyQuote is the time-metered plan. Schedule type has no effect on it.
type HourlyQuote struct {
	Total        int64
	RatePerHour  int64
	BaseCharge   int64
	BillMinutes  int
	DriveMinutes int
	DwellMinutes int
	Fuel         FuelSurcharge
}

func (t *Tariff) Hourly(in TripInput) HourlyQuote {
	drive := in.DriveMinutes()
	dwell := in.DwellTotal()
	bill := BillMinutes(drive + dwell)

	rate := t.hourly.Lookup(in.Vehicle, float64(bill))
	base := int64(math.Round(float64(rate) * float64(bill) / 60))
	fuel := t.FuelSurcharge(in.Vehicle, in.DistanceKm(), bill)

	return HourlyQuote{
		Total:        base + fuel.Amount,
		RatePerHour:  rate,
		BaseCharge:   base,
		BillMinutes:  bill,
		DriveMinutes: drive,
		DwellMinutes: dwell,
		Fuel:         fuel,
	}
}

// BillMinutes rounds raw minutes up to the 30-minute quantum with a two-hour floor.
func BillMinutes(raw int) int {
	if raw < 0 {
		raw = 0
	}
	bill := (raw + billQuantumMinutes - 1) / billQuantumMinutes * billQuantumMinutes
	if bill < minBillMinutes {
		return minBillMinutes
	}
	return bill
}
