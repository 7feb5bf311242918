package pricing

import "math"

// PerJobQuote is the distance-bracket plan. NextBracketLabel and NextDelta are
// only meaningful when HasNext is set.
type PerJobQuote struct {
	Total       int64
	Base        int64
	StopFee     int64
	StopFeeEach int64
	StopsCount  int
	OverageKm   int64

	// RateColumn is the table column the base price was read from.
	RateColumn       VehicleClass
	BracketLabel     string
	NextBracketLabel string
	NextDelta        int64
	HasNext          bool
}

func (t *Tariff) PerJob(in TripInput) PerJobQuote {
	km := in.DistanceKm()
	q := PerJobQuote{StopsCount: in.StopsCount}

	var idx int
	var beyond bool
	if in.Schedule == Regular && in.Vehicle == Compact {
		// Regular compact work is billed off the van column, and the lookup
		// clamps without adding overage.
		idx, beyond = t.perJob.Locate(km)
		q.Base = t.perJob.Lookup(Van, km)
	} else {
		q.Base, idx, beyond, q.OverageKm = t.perJobBase(in.Vehicle, km)
	}

	q.RateColumn, q.StopFeeEach = t.stopFeeFor(in.Vehicle, in.Schedule)
	q.StopFee = int64(in.StopsCount) * q.StopFeeEach
	q.Total = q.Base + q.StopFee

	if beyond {
		q.BracketLabel = t.perJob.BeyondLabel()
		return q
	}
	q.BracketLabel = t.perJob.Label(idx)
	if idx+1 < t.perJob.Len() {
		q.HasNext = true
		q.NextBracketLabel = t.perJob.Label(idx + 1)
		q.NextDelta = t.perJob.Row(idx+1).Value(q.RateColumn) - t.perJob.Row(idx).Value(q.RateColumn)
	}
	return q
}

// perJobBase is the ad-hoc base price: the bracket value, or past the last
// bracket the last value plus a per-km charge for every started km of overage.
func (t *Tariff) perJobBase(v VehicleClass, km float64) (base int64, idx int, beyond bool, overageKm int64) {
	idx, beyond = t.perJob.Locate(km)
	base = t.perJob.Row(idx).Value(v)
	if beyond {
		overageKm = int64(math.Ceil(km - t.perJob.Last().Upper))
		base += overageKm * t.overage.of(v)
	}
	return base, idx, beyond, overageKm
}

// stopFeeFor returns the rate column and the per-stop fee for a vehicle/schedule pair.
// Regular loading is asymmetric: compact borrows the van column and van stop
// fee, van keeps its own column and scales its stop fee by the load factor.
func (t *Tariff) stopFeeFor(v VehicleClass, s ScheduleType) (VehicleClass, int64) {
	if s != Regular {
		return v, t.stopFee.of(v)
	}
	if v == Compact {
		return Van, t.stopFee.of(Van)
	}
	return Van, int64(math.Round(float64(t.stopFee.of(Van)) * t.regularLoadFactor))
}
