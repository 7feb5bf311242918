// README: Recent quote listing, registered only when history is enabled.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	history QuoteHistory
}

func NewHistoryHandler(hist QuoteHistory) *HistoryHandler {
	return &HistoryHandler{history: hist}
}

// Recent handles GET /quotes/recent?limit=N.
func (h *HistoryHandler) Recent(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, CodeValidation, "limit must be an integer")
			return
		}
		limit = n
	}

	records, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		WriteServerError(c)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "quotes": records})
}
