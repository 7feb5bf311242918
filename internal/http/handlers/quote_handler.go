// README: Quote handlers: price a known route, or resolve waypoints first.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"farequote/internal/maps"
	"farequote/internal/modules/history"
	"farequote/internal/modules/pricing"
	"farequote/internal/types"
)

const routeTimeout = 10 * time.Second

// QuoteHistory is the optional audit sink; *history.Service satisfies it.
type QuoteHistory interface {
	Record(ctx context.Context, cmp pricing.Comparison, routeSource string) (*history.Record, error)
	Recent(ctx context.Context, limit int) ([]history.Record, error)
}

type QuoteHandler struct {
	pricing *pricing.Service
	routes  maps.Planner
	history QuoteHistory
	logger  *slog.Logger
}

// NewQuoteHandler wires the handler. routes and hist may be nil.
func NewQuoteHandler(svc *pricing.Service, routes maps.Planner, hist QuoteHistory, logger *slog.Logger) *QuoteHandler {
	useJSONFieldNames()
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteHandler{pricing: svc, routes: routes, history: hist, logger: logger}
}

type quoteReq struct {
	Distance     *float64 `json:"distance" binding:"required,gte=0"`
	Time         *float64 `json:"time" binding:"required,gte=0"`
	VehicleType  string   `json:"vehicleType" binding:"required"`
	DwellMinutes []int    `json:"dwellMinutes" binding:"omitempty,dive,gte=0"`
	StopsCount   *int     `json:"stopsCount" binding:"omitempty,gte=0"`
	ScheduleType string   `json:"scheduleType"`
}

type routeQuoteReq struct {
	Waypoints    []string `json:"waypoints" binding:"required,min=2,dive,required"`
	VehicleType  string   `json:"vehicleType" binding:"required"`
	DwellMinutes []int    `json:"dwellMinutes" binding:"omitempty,dive,gte=0"`
	StopsCount   *int     `json:"stopsCount" binding:"omitempty,gte=0"`
	ScheduleType string   `json:"scheduleType"`
}

type referenceDTO struct {
	Labour   int64 `json:"labour"`
	FuelCost int64 `json:"fuelCost"`
	Total    int64 `json:"total"`
}

type breakdownDTO struct {
	RecommendedPlan string       `json:"recommendedPlan"`
	HourlyTotal     int64        `json:"hourlyTotal"`
	PerJobTotal     int64        `json:"perJobTotal"`
	Savings         int64        `json:"savings"`
	DistanceKm      float64      `json:"distanceKm"`
	DriveMinutes    int          `json:"driveMinutes"`
	DwellMinutes    int          `json:"dwellMinutes"`
	VehicleType     string       `json:"vehicleType"`
	ScheduleType    string       `json:"scheduleType"`
	Reference       referenceDTO `json:"reference"`
}

type quoteDTO struct {
	TotalPrice     int64        `json:"totalPrice"`
	FormattedTotal string       `json:"formattedTotal"`
	Breakdown      breakdownDTO `json:"breakdown"`
}

type hourlyDTO struct {
	Total         int64   `json:"total"`
	RatePerHour   int64   `json:"ratePerHour"`
	BillMinutes   int     `json:"billMinutes"`
	FuelSurcharge int64   `json:"fuelSurcharge"`
	BaseCharge    int64   `json:"baseCharge"`
	DriveMinutes  int     `json:"driveMinutes"`
	DwellMinutes  int     `json:"dwellMinutes"`
	IncludedKm    float64 `json:"includedKm"`
	ExcessKm      float64 `json:"excessKm"`
	Bands         int64   `json:"bands"`
}

type perJobDTO struct {
	Total            int64   `json:"total"`
	Base             int64   `json:"base"`
	StopFee          int64   `json:"stopFee"`
	BracketLabel     string  `json:"bracketLabel"`
	NextBracketLabel *string `json:"nextBracketLabel,omitempty"`
	NextDelta        *int64  `json:"nextDelta,omitempty"`
	StopsCount       int     `json:"stopsCount"`
	OverageKm        int64   `json:"overageKm"`
}

type plansDTO struct {
	Hourly hourlyDTO `json:"hourly"`
	PerJob perJobDTO `json:"perJob"`
}

type quoteResponse struct {
	Success bool        `json:"success"`
	Quote   quoteDTO    `json:"quote"`
	Plans   plansDTO    `json:"plans"`
	Route   *maps.Route `json:"route,omitempty"`
}

// Quote handles POST /quote.
func (h *QuoteHandler) Quote(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeValidation, bindingMessage(err))
		return
	}
	in, err := tripInput(*req.Distance, *req.Time, req.VehicleType, req.ScheduleType, req.DwellMinutes, req.StopsCount)
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	h.respond(c, in, nil)
}

// QuoteRoute handles POST /quote/route.
func (h *QuoteHandler) QuoteRoute(c *gin.Context) {
	var req routeQuoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeValidation, bindingMessage(err))
		return
	}
	// Reject bad options before planning the route.
	if _, err := tripInput(0, 0, req.VehicleType, req.ScheduleType, req.DwellMinutes, req.StopsCount); err != nil {
		writeQuoteError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), routeTimeout)
	defer cancel()

	route, err := h.routes.Plan(ctx, req.Waypoints)
	if err != nil {
		h.logger.Warn("route planning failed", "waypoints", len(req.Waypoints), "err", err)
		writeQuoteError(c, err)
		return
	}

	in, err := tripInput(route.DistanceMeters, route.DurationSeconds, req.VehicleType, req.ScheduleType, req.DwellMinutes, req.StopsCount)
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	h.respond(c, in, &route)
}

func (h *QuoteHandler) respond(c *gin.Context, in pricing.TripInput, route *maps.Route) {
	cmp, err := h.pricing.Quote(in)
	if err != nil {
		writeQuoteError(c, err)
		return
	}

	if h.history != nil {
		source := ""
		if route != nil {
			source = route.Source
		}
		if _, err := h.history.Record(c.Request.Context(), cmp, source); err != nil {
			h.logger.Error("record quote failed", "err", err)
		}
	}

	resp := toQuoteResponse(cmp)
	resp.Route = route
	writeJSON(c, http.StatusOK, resp)
}

func tripInput(distance, duration float64, vehicle, schedule string, dwell []int, stops *int) (pricing.TripInput, error) {
	v, err := pricing.ParseVehicleClass(vehicle)
	if err != nil {
		return pricing.TripInput{}, err
	}
	s, err := pricing.ParseScheduleType(schedule)
	if err != nil {
		return pricing.TripInput{}, err
	}
	count := len(dwell)
	if stops != nil {
		count = *stops
	}
	return pricing.TripInput{
		DistanceMeters:  distance,
		DurationSeconds: duration,
		DwellMinutes:    dwell,
		StopsCount:      count,
		Vehicle:         v,
		Schedule:        s,
	}, nil
}

func toQuoteResponse(cmp pricing.Comparison) quoteResponse {
	in, hr, pj := cmp.Input, cmp.Hourly, cmp.PerJob

	perJob := perJobDTO{
		Total:        pj.Total,
		Base:         pj.Base,
		StopFee:      pj.StopFee,
		BracketLabel: pj.BracketLabel,
		StopsCount:   pj.StopsCount,
		OverageKm:    pj.OverageKm,
	}
	if pj.HasNext {
		label, delta := pj.NextBracketLabel, pj.NextDelta
		perJob.NextBracketLabel = &label
		perJob.NextDelta = &delta
	}

	return quoteResponse{
		Success: true,
		Quote: quoteDTO{
			TotalPrice:     cmp.Total,
			FormattedTotal: types.KRW(cmp.Total).Format(),
			Breakdown: breakdownDTO{
				RecommendedPlan: string(cmp.Recommended),
				HourlyTotal:     hr.Total,
				PerJobTotal:     pj.Total,
				Savings:         cmp.Savings,
				DistanceKm:      in.DistanceKm(),
				DriveMinutes:    hr.DriveMinutes,
				DwellMinutes:    hr.DwellMinutes,
				VehicleType:     string(in.Vehicle),
				ScheduleType:    string(in.Schedule),
				Reference: referenceDTO{
					Labour:   cmp.Reference.Labour,
					FuelCost: cmp.Reference.FuelCost,
					Total:    cmp.Reference.Total,
				},
			},
		},
		Plans: plansDTO{
			Hourly: hourlyDTO{
				Total:         hr.Total,
				RatePerHour:   hr.RatePerHour,
				BillMinutes:   hr.BillMinutes,
				FuelSurcharge: hr.Fuel.Amount,
				BaseCharge:    hr.BaseCharge,
				DriveMinutes:  hr.DriveMinutes,
				DwellMinutes:  hr.DwellMinutes,
				IncludedKm:    hr.Fuel.IncludedKm,
				ExcessKm:      hr.Fuel.ExcessKm,
				Bands:         hr.Fuel.Bands,
			},
			PerJob: perJob,
		},
	}
}
