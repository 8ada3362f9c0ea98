package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"stackit-backend/application/ports"
	"stackit-backend/application/services"
	"stackit-backend/domain/content"
	"stackit-backend/pkg/common"
	apperrors "stackit-backend/pkg/errors"
	"stackit-backend/pkg/utils"
)

// TopicHandler handles topic extraction HTTP requests
type TopicHandler struct {
	topics *services.TopicService
	store  ports.ContentStore
	logger *zap.Logger
	errors *apperrors.ErrorHandler
}

// NewTopicHandler creates a new topic handler
func NewTopicHandler(topics *services.TopicService, store ports.ContentStore, logger *zap.Logger) *TopicHandler {
	return &TopicHandler{
		topics: topics,
		store:  store,
		logger: logger,
		errors: apperrors.NewErrorHandler(logger, false),
	}
}

// ExtractTopicsRequest represents the request body for topic extraction
type ExtractTopicsRequest struct {
	Limit         int   `json:"limit,omitempty" validate:"omitempty,gt=0,lte=5000"`
	MinFrequency  int   `json:"minFrequency,omitempty" validate:"omitempty,gt=0"`
	MaxTopics     int   `json:"maxTopics,omitempty" validate:"omitempty,gt=0,lte=200"`
	ClusterTopics *bool `json:"clusterTopics,omitempty"`
	TimeBased     bool  `json:"timeBased,omitempty"`
	Organize      bool  `json:"organize,omitempty"`
}

// ExtractTopics handles POST /topics/extract
func (h *TopicHandler) ExtractTopics(w http.ResponseWriter, r *http.Request) {
	var req ExtractTopicsRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	items, err := h.loadCorpus(r, req.Limit)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	options := services.DefaultTopicOptions()
	if req.MinFrequency > 0 {
		options.MinFrequency = req.MinFrequency
	}
	if req.MaxTopics > 0 {
		options.MaxTopics = req.MaxTopics
	}
	if req.ClusterTopics != nil {
		options.ClusterTopics = *req.ClusterTopics
	}
	options.TimeBased = req.TimeBased

	report := h.topics.ExtractTopics(items, options)

	response := map[string]interface{}{
		"report": report,
	}
	if req.Organize {
		response["groups"] = h.topics.OrganizeByTopics(items, report)
	}

	common.RespondJSON(w, http.StatusOK, response)
}

// RecommendTopicsRequest represents the request body for topic recommendation
type RecommendTopicsRequest struct {
	Title   string `json:"title" validate:"required,min=3,max=300"`
	Content string `json:"content,omitempty" validate:"omitempty,max=100000"`
	Limit   int    `json:"limit,omitempty" validate:"omitempty,gt=0,lte=5000"`
}

// RecommendTopics handles POST /topics/recommend
func (h *TopicHandler) RecommendTopics(w http.ResponseWriter, r *http.Request) {
	var req RecommendTopicsRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	items, err := h.loadCorpus(r, req.Limit)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	report := h.topics.ExtractTopics(items, nil)
	suggestions := h.topics.RecommendTopics(req.Title, req.Content, report.Topics)

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
	})
}

// loadCorpus fetches visible questions and answers as a mixed item list
func (h *TopicHandler) loadCorpus(r *http.Request, limit int) ([]content.Item, error) {
	questions, err := h.store.ListQuestions(r.Context(), limit)
	if err != nil {
		return nil, err
	}
	answers, err := h.store.ListAnswers(r.Context(), limit)
	if err != nil {
		return nil, err
	}

	items := make([]content.Item, 0, len(questions)+len(answers))
	for _, q := range questions {
		items = append(items, content.ItemFromQuestion(q))
	}
	for _, a := range answers {
		items = append(items, content.ItemFromAnswer(a))
	}
	return items, nil
}
