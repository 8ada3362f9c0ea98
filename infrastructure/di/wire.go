//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"stackit-backend/infrastructure/config"
)

// SuperSet is the complete provider set for the application
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideContentStore,
	ProvideEventPublisher,
	ProvideMetrics,
	ProvideTracer,
	ProvideJWTValidator,
	ProvideSimilarityService,
	ProvideDuplicateService,
	ProvideModerationService,
	ProvideEngagementService,
	ProvideRecommendationService,
	ProvideTopicService,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer builds the dependency container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
