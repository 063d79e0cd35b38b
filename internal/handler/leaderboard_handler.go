package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codetrack/backend/internal/domain"
	"github.com/codetrack/backend/internal/service"
)

// LeaderboardHandler handles ranking HTTP requests
type LeaderboardHandler struct {
	statsService *service.StatisticsService
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(statsService *service.StatisticsService) *LeaderboardHandler {
	return &LeaderboardHandler{
		statsService: statsService,
	}
}

// GetLeaderboard returns the top users ranked by problems solved
// GET /api/leaderboard?limit=10
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit",
			})
			return
		}
		limit = parsed
	}

	entries, err := h.statsService.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Leaderboard temporarily unavailable",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute leaderboard",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entries,
		"count":       len(entries),
	})
}
