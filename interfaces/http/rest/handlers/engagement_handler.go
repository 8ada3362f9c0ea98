package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"stackit-backend/application/services"
	"stackit-backend/pkg/common"
	apperrors "stackit-backend/pkg/errors"
	"stackit-backend/pkg/utils"
)

// EngagementHandler handles engagement analytics HTTP requests
type EngagementHandler struct {
	engagement *services.EngagementService
	logger     *zap.Logger
	errors     *apperrors.ErrorHandler
}

// NewEngagementHandler creates a new engagement handler
func NewEngagementHandler(engagement *services.EngagementService, logger *zap.Logger) *EngagementHandler {
	return &EngagementHandler{
		engagement: engagement,
		logger:     logger,
		errors:     apperrors.NewErrorHandler(logger, false),
	}
}

// AnalyzeEngagementRequest represents the request body for engagement analysis
type AnalyzeEngagementRequest struct {
	Timeframe string `json:"timeframe,omitempty" validate:"omitempty,oneof=day week month quarter year all"`
}

// AnalyzeEngagement handles POST /engagement/analyze
func (h *EngagementHandler) AnalyzeEngagement(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeEngagementRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	report, err := h.engagement.AnalyzeEngagement(r.Context(), req.Timeframe)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, report)
}
