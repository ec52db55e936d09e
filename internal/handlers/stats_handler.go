package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tuitionterminal/backend/internal/services/stats"
)

// StatsHandler serves landing page statistics
type StatsHandler struct {
	stats *stats.Service
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *stats.Service) *StatsHandler {
	return &StatsHandler{stats: statsService}
}

// GetStats returns the marketplace overview counters
func (h *StatsHandler) GetStats(c *gin.Context) {
	overview, err := h.stats.GetOverview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, overview)
}
