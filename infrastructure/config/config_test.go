package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "stackit-content", cfg.DynamoDBTable)
	assert.Equal(t, "AuthorIndex", cfg.AuthorIndex)
	assert.Equal(t, "QuestionIndex", cfg.QuestionIndex)
	assert.Equal(t, "stackit-events", cfg.EventBusName)
	assert.Equal(t, "stackit.content-intelligence", cfg.EventSource)
	assert.InDelta(t, 0.6, cfg.SimilarityThreshold, 1e-9)
	assert.InDelta(t, 0.8, cfg.DuplicateThreshold, 1e-9)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TABLE_NAME", "custom-table")
	t.Setenv("SIMILARITY_THRESHOLD", "0.75")
	t.Setenv("MAX_RECOMMENDATIONS", "25")
	t.Setenv("ENABLE_METRICS", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "custom-table", cfg.DynamoDBTable)
	assert.InDelta(t, 0.75, cfg.SimilarityThreshold, 1e-9)
	assert.Equal(t, 25, cfg.MaxRecommendations)
	assert.True(t, cfg.EnableMetrics)
}

func TestValidate_ProductionRequiresSecret(t *testing.T) {
	cfg := &Config{
		Environment:         "production",
		DynamoDBTable:       "stackit-content",
		EventBusName:        "stackit-events",
		SimilarityThreshold: 0.6,
		DuplicateThreshold:  0.8,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.JWTSecret = "secret"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ThresholdBounds(t *testing.T) {
	cfg := &Config{
		Environment:         "development",
		SimilarityThreshold: 1.5,
		DuplicateThreshold:  0.8,
	}
	assert.Error(t, cfg.Validate())

	cfg.SimilarityThreshold = 0.6
	cfg.DuplicateThreshold = 0
	assert.Error(t, cfg.Validate())
}
