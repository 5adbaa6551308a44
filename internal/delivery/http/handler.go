package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stylist/engine/internal/domain"
	"github.com/stylist/engine/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recommendations *usecase.RecommendationService
	profiles        *usecase.ProfileService
}

// NewHandler creates a new HTTP handler
func NewHandler(recommendations *usecase.RecommendationService, profiles *usecase.ProfileService) *Handler {
	return &Handler{
		recommendations: recommendations,
		profiles:        profiles,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "stylist-engine",
		"version": "1.0.0",
	})
}

// GetRecommendations handles personalized recommendation requests
func (h *Handler) GetRecommendations(c *gin.Context) {
	var req domain.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	resp, err := h.recommendations.GetRecommendations(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetSimilarItems handles similar-item lookup requests
func (h *Handler) GetSimilarItems(c *gin.Context) {
	var req domain.SimilarItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	items, err := h.recommendations.GetSimilarItems(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CompleteOutfit handles outfit completion requests built around owned items
func (h *Handler) CompleteOutfit(c *gin.Context) {
	var req domain.OutfitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	outfits, err := h.recommendations.CompleteOutfit(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"outfits": outfits})
}

// BuildProfile assembles a style profile from quiz, closet and feedback signals
func (h *Handler) BuildProfile(c *gin.Context) {
	var req domain.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	profile := h.profiles.BuildProfile(&req)
	c.JSON(http.StatusOK, profile)
}

// respondError maps service errors to HTTP status codes. Invalid input is the
// only error the services surface to callers.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrInvalidRequest) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
