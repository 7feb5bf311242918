// README: Pricing service computes both billing plans and recommends the cheaper one.
package pricing

// Comparison is the full result for one trip. Both plans are always present.
type Comparison struct {
	Input       TripInput
	Hourly      HourlyQuote
	PerJob      PerJobQuote
	Reference   ReferenceEstimate
	Recommended Plan
	Total       int64
	Savings     int64
}

// Service is stateless apart from its read-only tariff and is safe for concurrent use.
type Service struct {
	tariff *Tariff
}

func NewService(tariff *Tariff) *Service {
	return &Service{tariff: tariff}
}

func (s *Service) Tariff() *Tariff {
	return s.tariff
}

// Quote validates the trip and prices it under both plans.
func (s *Service) Quote(in TripInput) (Comparison, error) {
	if in.Schedule == "" {
		in.Schedule = AdHoc
	}
	if err := in.Validate(); err != nil {
		return Comparison{}, err
	}
	in.DwellMinutes = append([]int(nil), in.DwellMinutes...)

	hourly := s.tariff.Hourly(in)
	perJob := s.tariff.PerJob(in)

	cmp := Comparison{
		Input:       in,
		Hourly:      hourly,
		PerJob:      perJob,
		Reference:   s.tariff.Reference(in),
		Recommended: Recommend(hourly.Total, perJob.Total),
	}
	if cmp.Recommended == PlanHourly {
		cmp.Total = hourly.Total
		cmp.Savings = perJob.Total - hourly.Total
	} else {
		cmp.Total = perJob.Total
		cmp.Savings = hourly.Total - perJob.Total
	}
	return cmp, nil
}

// Recommend picks the cheaper plan; a tie goes to Hourly.
func Recommend(hourlyTotal, perJobTotal int64) Plan {
	if hourlyTotal <= perJobTotal {
		return PlanHourly
	}
	return PlanPerJob
}
