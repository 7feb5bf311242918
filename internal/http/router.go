// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"farequote/internal/http/handlers"
	"farequote/internal/http/middleware"
	"farequote/internal/maps"
	"farequote/internal/modules/pricing"
)

type RouterDeps struct {
	Pricing *pricing.Service
	// Routes enables POST /quote/route when set.
	Routes maps.Planner
	// History records every quote and enables GET /quotes/recent when set.
	History     handlers.QuoteHistory
	Logger      *slog.Logger
	CORSOrigins []string
}

func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.Logging(logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	quoteHandler := handlers.NewQuoteHandler(deps.Pricing, deps.Routes, deps.History, logger)
	r.POST("/quote", quoteHandler.Quote)
	if deps.Routes != nil {
		r.POST("/quote/route", quoteHandler.QuoteRoute)
	}

	tariffHandler := handlers.NewTariffHandler(deps.Pricing)
	r.GET("/tariff", tariffHandler.Get)

	if deps.History != nil {
		historyHandler := handlers.NewHistoryHandler(deps.History)
		r.GET("/quotes/recent", historyHandler.Recent)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   gin.H{"code": handlers.CodeNotFound, "message": "no such endpoint"},
		})
	})

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}
