// README: Read-only tariff view for comparison tables.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"farequote/internal/modules/pricing"
)

type TariffHandler struct {
	pricing *pricing.Service
}

func NewTariffHandler(svc *pricing.Service) *TariffHandler {
	return &TariffHandler{pricing: svc}
}

type rateRowDTO struct {
	Label   string  `json:"label"`
	Upper   float64 `json:"upper"`
	Compact int64   `json:"compact"`
	Van     int64   `json:"van"`
}

type rateTableDTO struct {
	Unit        string       `json:"unit"`
	Rows        []rateRowDTO `json:"rows"`
	BeyondLabel string       `json:"beyondLabel"`
}

type classConstantsDTO struct {
	StopFee        int64   `json:"stopFee"`
	RegularStopFee int64   `json:"regularStopFee"`
	FuelBandCharge int64   `json:"fuelBandCharge"`
	OveragePerKm   int64   `json:"overagePerKm"`
	WeightFactor   float64 `json:"weightFactor"`
	FuelEfficiency float64 `json:"fuelEfficiency"`
}

type tariffDTO struct {
	Hourly            rateTableDTO                 `json:"hourly"`
	PerJob            rateTableDTO                 `json:"perJob"`
	Constants         map[string]classConstantsDTO `json:"constants"`
	RegularLoadFactor float64                      `json:"regularLoadFactor"`
	FuelPrice         float64                      `json:"fuelPrice"`
}

// Get handles GET /tariff.
func (h *TariffHandler) Get(c *gin.Context) {
	t := h.pricing.Tariff()
	constants := make(map[string]classConstantsDTO, 2)
	for _, v := range []pricing.VehicleClass{pricing.Compact, pricing.Van} {
		k := t.Constants(v)
		constants[string(v)] = classConstantsDTO{
			StopFee:        k.StopFee,
			RegularStopFee: k.RegularStopFee,
			FuelBandCharge: k.FuelBandCharge,
			OveragePerKm:   k.OveragePerKm,
			WeightFactor:   k.WeightFactor,
			FuelEfficiency: k.FuelEfficiency,
		}
	}
	writeJSON(c, http.StatusOK, gin.H{
		"success": true,
		"tariff": tariffDTO{
			Hourly:            toRateTableDTO(t.HourlyTable()),
			PerJob:            toRateTableDTO(t.PerJobTable()),
			Constants:         constants,
			RegularLoadFactor: t.RegularLoadFactor(),
			FuelPrice:         t.FuelPrice(),
		},
	})
}

func toRateTableDTO(rt pricing.RateTable) rateTableDTO {
	rows := make([]rateRowDTO, rt.Len())
	for i, r := range rt.Rows() {
		rows[i] = rateRowDTO{Label: rt.Label(i), Upper: r.Upper, Compact: r.Compact, Van: r.Van}
	}
	return rateTableDTO{Unit: rt.Unit(), Rows: rows, BeyondLabel: rt.BeyondLabel()}
}
