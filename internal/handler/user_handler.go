package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codetrack/backend/internal/domain"
	"github.com/codetrack/backend/internal/middleware"
	"github.com/codetrack/backend/internal/service"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService  *service.UserService
	statsService *service.StatisticsService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService, statsService *service.StatisticsService) *UserHandler {
	return &UserHandler{
		userService:  userService,
		statsService: statsService,
	}
}

// GetCurrentUser returns the currently authenticated user
// GET /api/me
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve user",
		})
		return
	}

	c.JSON(http.StatusOK, user.ToResponse())
}

// GetMyStatistics returns aggregated statistics for the authenticated user
// GET /api/me/statistics
func (h *UserHandler) GetMyStatistics(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	h.renderStatistics(c, userID)
}

// GetUserStatistics returns aggregated statistics for any user
// GET /api/users/:id/statistics
func (h *UserHandler) GetUserStatistics(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID",
		})
		return
	}
	h.renderStatistics(c, userID)
}

func (h *UserHandler) renderStatistics(c *gin.Context, userID uuid.UUID) {
	stats, err := h.statsService.GetUserStatistics(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid user ID",
			})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
		case errors.Is(err, domain.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Statistics temporarily unavailable",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to compute statistics",
			})
		}
		return
	}

	c.JSON(http.StatusOK, stats)
}
