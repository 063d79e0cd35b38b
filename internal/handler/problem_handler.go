package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codetrack/backend/internal/domain"
	"github.com/codetrack/backend/internal/service"
)

// ProblemHandler handles problem catalog HTTP requests
type ProblemHandler struct {
	problemService *service.ProblemService
}

// NewProblemHandler creates a new problem handler
func NewProblemHandler(problemService *service.ProblemService) *ProblemHandler {
	return &ProblemHandler{
		problemService: problemService,
	}
}

// ListProblems returns the problem catalog, optionally filtered by difficulty
// GET /api/problems?difficulty=easy
func (h *ProblemHandler) ListProblems(c *gin.Context) {
	var (
		problems []domain.Problem
		err      error
	)

	if difficulty := c.Query("difficulty"); difficulty != "" {
		problems, err = h.problemService.GetProblemsByDifficulty(c.Request.Context(), domain.Difficulty(difficulty))
	} else {
		problems, err = h.problemService.GetAllProblems(c.Request.Context())
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid difficulty filter",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve problems",
		})
		return
	}

	responses := make([]domain.ProblemResponse, len(problems))
	for i := range problems {
		responses[i] = problems[i].ToResponse()
	}
	c.JSON(http.StatusOK, gin.H{
		"problems": responses,
		"count":    len(responses),
	})
}

// GetProblem returns a single problem by ID
// GET /api/problems/:id
func (h *ProblemHandler) GetProblem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid problem ID",
		})
		return
	}

	problem, err := h.problemService.GetProblemByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProblemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Problem not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve problem",
		})
		return
	}

	c.JSON(http.StatusOK, problem.ToResponse())
}

// GetProblemStats returns catalog counts by difficulty and topic
// GET /api/problems/stats
func (h *ProblemHandler) GetProblemStats(c *gin.Context) {
	stats, err := h.problemService.GetProblemStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve problem stats",
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}
