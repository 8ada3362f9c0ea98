package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stackit-backend/application/services"
	"stackit-backend/domain/content"
	"stackit-backend/pkg/common"
	apperrors "stackit-backend/pkg/errors"
	"stackit-backend/pkg/observability"
	"stackit-backend/pkg/utils"
)

// ModerationHandler handles moderation HTTP requests
type ModerationHandler struct {
	moderation *services.ModerationService
	tracer     *observability.Tracer
	logger     *zap.Logger
	errors     *apperrors.ErrorHandler
}

// NewModerationHandler creates a new moderation handler
func NewModerationHandler(moderation *services.ModerationService, tracer *observability.Tracer, logger *zap.Logger) *ModerationHandler {
	return &ModerationHandler{
		moderation: moderation,
		tracer:     tracer,
		logger:     logger,
		errors:     apperrors.NewErrorHandler(logger, false),
	}
}

// AnalyzeContentRequest represents the request body for single-item analysis
type AnalyzeContentRequest struct {
	Title   string                     `json:"title,omitempty" validate:"omitempty,max=300"`
	Content string                     `json:"content" validate:"required,min=1,max=100000"`
	Author  string                     `json:"author,omitempty" validate:"omitempty,max=100"`
	Context services.ModerationContext `json:"context,omitempty"`
}

// AnalyzeContent handles POST /moderation/analyze
func (h *ModerationHandler) AnalyzeContent(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeContentRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	report := h.moderation.AnalyzeContent(req.Content, req.Title, req.Author, req.Context)

	common.RespondJSON(w, http.StatusOK, report)
}

// BatchAnalyzeRequest represents the request body for batch analysis
type BatchAnalyzeRequest struct {
	Items []services.ModerationItem `json:"items" validate:"required,min=1,max=100"`
}

// BatchAnalyze handles POST /moderation/batch
func (h *ModerationHandler) BatchAnalyze(w http.ResponseWriter, r *http.Request) {
	var req BatchAnalyzeRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var report *services.BatchModerationReport
	_ = h.tracer.TraceFunction(r.Context(), "moderation.batch", func(ctx context.Context) error {
		report = h.moderation.BatchAnalyze(ctx, req.Items)
		return nil
	})

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"results":      report.Results,
		"count":        len(report.Results),
		"skippedItems": report.SkippedItems,
	})
}

// VisibilityRequest represents the request body for a visibility change
type VisibilityRequest struct {
	Kind   string `json:"kind" validate:"required,oneof=question answer"`
	Hidden bool   `json:"hidden"`
}

// SetVisibility handles PUT /moderation/content/{contentID}/visibility
func (h *ModerationHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "contentID")
	if contentID == "" {
		h.errors.Handle(w, r, apperrors.NewValidationError("content ID is required"))
		return
	}

	var req VisibilityRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	kind := content.KindQuestion
	if req.Kind == "answer" {
		kind = content.KindAnswer
	}

	if err := h.moderation.SetContentVisibility(r.Context(), kind, contentID, req.Hidden); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"contentId": contentID,
		"hidden":    req.Hidden,
	})
}

// FlaggingInsightsRequest represents the request body for history analysis
type FlaggingInsightsRequest struct {
	History []services.FlaggingRecord `json:"history" validate:"required,min=1"`
}

// FlaggingInsights handles POST /moderation/history/insights
func (h *ModerationHandler) FlaggingInsights(w http.ResponseWriter, r *http.Request) {
	var req FlaggingInsightsRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	insights := h.moderation.AnalyzeFlaggingHistory(req.History)

	common.RespondJSON(w, http.StatusOK, insights)
}
