package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/copyforge/backend/internal/domain"
	"github.com/copyforge/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	pipeline *usecase.Pipeline
}

// NewHandler creates a new HTTP handler
func NewHandler(pipeline *usecase.Pipeline) *Handler {
	return &Handler{pipeline: pipeline}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "copyforge-backend",
		"version": "1.0.0",
	})
}

// generateRequest is the inbound payload for copy generation
type generateRequest struct {
	ProductName string `json:"productName" binding:"required"`
	Brand       string `json:"brand" binding:"required"`
	Category    string `json:"category" binding:"required"`
}

// GenerateCopy handles product copy generation requests.
// A refusal is a successful pipeline run with a negative outcome and is
// returned as 200; only a broken pipeline produces an error status.
func (h *Handler) GenerateCopy(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "productName, brand and category are required",
		})
		return
	}

	category, ok := domain.ParseCategory(req.Category)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "unknown category",
			"categories": domain.Categories,
		})
		return
	}

	result, err := h.pipeline.Run(c.Request.Context(), domain.GenerationRequest{
		ProductName: req.ProductName,
		Brand:       req.Brand,
		Category:    category,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	if result.Status == domain.StatusRefused {
		c.JSON(http.StatusOK, gin.H{
			"status":          string(domain.StatusRefused),
			"confidenceScore": result.Refusal.ConfidenceScore,
			"message":         result.Refusal.Message,
			"alternatives":    result.Refusal.Alternatives,
			"internalLog":     result.Refusal.InternalLog,
		})
		return
	}

	c.JSON(http.StatusOK, generateResponse{
		Status:           string(domain.StatusGenerated),
		GeneratedContent: result.Content,
	})
}

// generateResponse flattens the generated content under a status field
type generateResponse struct {
	Status string `json:"status"`
	*domain.GeneratedContent
}

// respondError maps pipeline errors to HTTP statuses without leaking
// internal details
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request parameters"})
	case errors.Is(err, domain.ErrGenerationFailed), errors.Is(err, domain.ErrLLMUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "content generation failed, please retry"})
	default:
		log.Printf("[HTTP] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
