package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"stackit-backend/application/services"
	"stackit-backend/domain/analysis"
	"stackit-backend/pkg/common"
	apperrors "stackit-backend/pkg/errors"
	"stackit-backend/pkg/utils"
)

// maxBodyBytes caps analysis request payloads at 1 MiB
const maxBodyBytes = 1 << 20

// AnalysisHandler handles content analysis HTTP requests
type AnalysisHandler struct {
	similarity *services.SimilarityService
	extractor  *analysis.Extractor
	logger     *zap.Logger
	errors     *apperrors.ErrorHandler
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(similarity *services.SimilarityService, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		similarity: similarity,
		extractor:  analysis.NewExtractor(analysis.DefaultLexicon()),
		logger:     logger,
		errors:     apperrors.NewErrorHandler(logger, false),
	}
}

// SimilarQuestionsRequest represents the request body for similarity search
type SimilarQuestionsRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=300"`
	Description string  `json:"description,omitempty" validate:"omitempty,max=30000"`
	Threshold   float64 `json:"threshold,omitempty" validate:"omitempty,gt=0,lte=1"`
	MaxResults  int     `json:"maxResults,omitempty" validate:"omitempty,gt=0,lte=50"`
}

// FindSimilarQuestions handles POST /analysis/similar-questions
func (h *AnalysisHandler) FindSimilarQuestions(w http.ResponseWriter, r *http.Request) {
	var req SimilarQuestionsRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	matches, err := h.similarity.FindSimilarQuestions(r.Context(), req.Title, req.Description, req.Threshold, req.MaxResults)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"similarQuestions": matches,
		"count":            len(matches),
	})
}

// SuggestTagsRequest represents the request body for tag suggestion
type SuggestTagsRequest struct {
	Title        string   `json:"title" validate:"required,min=3,max=300"`
	Description  string   `json:"description,omitempty" validate:"omitempty,max=30000"`
	ExistingTags []string `json:"existingTags,omitempty" validate:"omitempty,max=10,dive,max=50"`
	MaxTags      int      `json:"maxTags,omitempty" validate:"omitempty,gt=0,lte=10"`
}

// SuggestTags handles POST /analysis/tags/suggest
func (h *AnalysisHandler) SuggestTags(w http.ResponseWriter, r *http.Request) {
	var req SuggestTagsRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	tags := h.similarity.SuggestTags(req.Title, req.Description, req.ExistingTags, req.MaxTags)

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"suggestedTags": tags,
	})
}

// SummarizeRequest represents the request body for answer summarization
type SummarizeRequest struct {
	Content   string `json:"content" validate:"required,min=1,max=100000"`
	MaxLength int    `json:"maxLength,omitempty" validate:"omitempty,gt=0,lte=2000"`
}

// Summarize handles POST /analysis/summarize
func (h *AnalysisHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req SummarizeRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	summary := h.extractor.Summarize(req.Content, req.MaxLength)

	common.RespondJSON(w, http.StatusOK, summary)
}

// QualityRequest represents the request body for quality scoring
type QualityRequest struct {
	Content string `json:"content" validate:"required,min=1,max=100000"`
}

// ScoreQuality handles POST /analysis/quality
func (h *AnalysisHandler) ScoreQuality(w http.ResponseWriter, r *http.Request) {
	var req QualityRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	score := h.extractor.ScoreQuality(req.Content)

	common.RespondJSON(w, http.StatusOK, score)
}
