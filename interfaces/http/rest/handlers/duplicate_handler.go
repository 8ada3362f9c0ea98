package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"stackit-backend/application/services"
	"stackit-backend/pkg/common"
	apperrors "stackit-backend/pkg/errors"
	"stackit-backend/pkg/observability"
	"stackit-backend/pkg/utils"
)

// DuplicateHandler handles duplicate detection HTTP requests
type DuplicateHandler struct {
	duplicates *services.DuplicateService
	tracer     *observability.Tracer
	logger     *zap.Logger
	errors     *apperrors.ErrorHandler
}

// NewDuplicateHandler creates a new duplicate handler
func NewDuplicateHandler(duplicates *services.DuplicateService, tracer *observability.Tracer, logger *zap.Logger) *DuplicateHandler {
	return &DuplicateHandler{
		duplicates: duplicates,
		tracer:     tracer,
		logger:     logger,
		errors:     apperrors.NewErrorHandler(logger, false),
	}
}

// DetectDuplicatesRequest represents the request body for corpus-wide detection
type DetectDuplicatesRequest struct {
	SimilarityThreshold float64 `json:"similarityThreshold,omitempty" validate:"omitempty,gt=0,lte=1"`
	MaxCandidates       int     `json:"maxCandidates,omitempty" validate:"omitempty,gt=0,lte=50"`
	ConsiderAnswers     bool    `json:"considerAnswers,omitempty"`
	StrictMode          bool    `json:"strictMode,omitempty"`
}

func (r DetectDuplicatesRequest) options() services.DuplicateOptions {
	return services.DuplicateOptions{
		SimilarityThreshold: r.SimilarityThreshold,
		MaxCandidates:       r.MaxCandidates,
		ConsiderAnswers:     r.ConsiderAnswers,
		StrictMode:          r.StrictMode,
	}
}

// DetectDuplicates handles POST /duplicates/detect
func (h *DuplicateHandler) DetectDuplicates(w http.ResponseWriter, r *http.Request) {
	var req DetectDuplicatesRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var report *services.DuplicateReport
	err := h.tracer.TraceFunction(r.Context(), "duplicates.detect", func(ctx context.Context) error {
		var traceErr error
		report, traceErr = h.duplicates.DetectDuplicates(ctx, req.options())
		return traceErr
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, report)
}

// BatchDetectRequest represents the request body for chunked detection
type BatchDetectRequest struct {
	BatchSize int `json:"batchSize,omitempty" validate:"omitempty,gt=0,lte=500"`
	DetectDuplicatesRequest
}

// BatchDetect handles POST /duplicates/batch
func (h *DuplicateHandler) BatchDetect(w http.ResponseWriter, r *http.Request) {
	var req BatchDetectRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var report *services.BatchDuplicateReport
	err := h.tracer.TraceFunction(r.Context(), "duplicates.batch", func(ctx context.Context) error {
		var traceErr error
		report, traceErr = h.duplicates.BatchDetect(ctx, req.BatchSize, req.options())
		return traceErr
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, report)
}

// ValidateMergeRequest represents the request body for merge validation
type ValidateMergeRequest struct {
	QuestionID1 string `json:"questionId1" validate:"required"`
	QuestionID2 string `json:"questionId2" validate:"required"`
}

// ValidateMerge handles POST /duplicates/validate-merge
func (h *DuplicateHandler) ValidateMerge(w http.ResponseWriter, r *http.Request) {
	var req ValidateMergeRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	eligibility, err := h.duplicates.ValidateMerge(r.Context(), req.QuestionID1, req.QuestionID2)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, eligibility)
}

// MergePlanRequest represents the request body for merge planning
type MergePlanRequest struct {
	Group services.DuplicateGroup `json:"group" validate:"required"`
}

// PlanMerge handles POST /duplicates/merge-plan
func (h *DuplicateHandler) PlanMerge(w http.ResponseWriter, r *http.Request) {
	var req MergePlanRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if req.Group.Primary.ID == "" {
		h.errors.Handle(w, r, apperrors.NewValidationError("group.primary is required"))
		return
	}

	plan := h.duplicates.PlanMerge(req.Group)

	common.RespondJSON(w, http.StatusOK, plan)
}
