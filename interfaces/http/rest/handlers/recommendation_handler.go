package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stackit-backend/application/services"
	"stackit-backend/pkg/common"
	apperrors "stackit-backend/pkg/errors"
)

// RecommendationHandler handles personalization HTTP requests
type RecommendationHandler struct {
	recommendations *services.RecommendationService
	logger          *zap.Logger
	errors          *apperrors.ErrorHandler
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(recommendations *services.RecommendationService, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recommendations: recommendations,
		logger:          logger,
		errors:          apperrors.NewErrorHandler(logger, false),
	}
}

// GetRecommendations handles GET /recommendations/{userID}
func (h *RecommendationHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		h.errors.Handle(w, r, apperrors.NewValidationError("user ID is required"))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 50 {
			h.errors.Handle(w, r, apperrors.NewValidationError("limit must be an integer between 1 and 50"))
			return
		}
		limit = parsed
	}

	recommendations, err := h.recommendations.PersonalizedRecommendations(r.Context(), userID, limit)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, recommendations)
}

// GetExpertise handles GET /users/{userID}/expertise
func (h *RecommendationHandler) GetExpertise(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		h.errors.Handle(w, r, apperrors.NewValidationError("user ID is required"))
		return
	}

	level, err := h.recommendations.UserExpertise(r.Context(), userID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"userId":         userID,
		"expertiseLevel": level,
	})
}
