package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codetrack/backend/internal/domain"
	"github.com/codetrack/backend/internal/middleware"
	"github.com/codetrack/backend/internal/service"
)

// SubmissionHandler handles submission intake and history HTTP requests
type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissionService *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// Submit judges and records a code submission
// POST /api/submissions
func (h *SubmissionHandler) Submit(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req domain.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	submission, err := h.submissionService.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProblemNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Problem not found",
			})
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid submission",
			})
		case errors.Is(err, domain.ErrJudgeUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Judge is unavailable, try again later",
			})
		case errors.Is(err, domain.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Submission could not be recorded",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to process submission",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, submission.ToResponse())
}

// ListMine returns the authenticated user's submission history
// GET /api/submissions
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	submissions, err := h.submissionService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Submission history temporarily unavailable",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve submissions",
		})
		return
	}

	responses := make([]domain.SubmissionResponse, len(submissions))
	for i := range submissions {
		responses[i] = submissions[i].ToResponse()
	}
	c.JSON(http.StatusOK, gin.H{
		"submissions": responses,
		"count":       len(responses),
	})
}
