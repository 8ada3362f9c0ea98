package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"stackit-backend/application/ports"
	"stackit-backend/application/services"
	"stackit-backend/infrastructure/config"
	ebmessaging "stackit-backend/infrastructure/messaging/eventbridge"
	dynamostore "stackit-backend/infrastructure/persistence/dynamodb"
	"stackit-backend/pkg/auth"
	"stackit-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	// Core infrastructure
	Config    *config.Config
	Logger    *zap.Logger
	AWSConfig aws.Config

	// AWS clients
	DynamoDBClient    *dynamodb.Client
	EventBridgeClient *eventbridge.Client
	CloudWatchClient  *cloudwatch.Client

	// Ports
	ContentStore   ports.ContentStore
	EventPublisher ports.EventPublisher
	Metrics        ports.MetricsRecorder

	// Observability and auth
	Tracer       *observability.Tracer
	JWTValidator *auth.JWTValidator

	// Application services
	SimilarityService     *services.SimilarityService
	DuplicateService      *services.DuplicateService
	ModerationService     *services.ModerationService
	EngagementService     *services.EngagementService
	RecommendationService *services.RecommendationService
	TopicService          *services.TopicService
}

// ProvideLogger creates the application logger based on environment
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}

// ProvideAWSConfig loads AWS configuration for the configured region
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *eventbridge.Client {
	return eventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *cloudwatch.Client {
	return cloudwatch.NewFromConfig(awsCfg)
}

// ProvideContentStore creates the DynamoDB-backed content store
func ProvideContentStore(client *dynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ContentStore {
	return dynamostore.NewContentStore(client, cfg.DynamoDBTable, cfg.AuthorIndex, cfg.QuestionIndex, logger)
}

// ProvideEventPublisher creates the EventBridge event publisher
func ProvideEventPublisher(client *eventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return ebmessaging.NewPublisher(client, cfg.EventBusName, cfg.EventSource, logger)
}

// ProvideMetrics creates the CloudWatch metrics recorder
func ProvideMetrics(client *cloudwatch.Client, cfg *config.Config, logger *zap.Logger) ports.MetricsRecorder {
	namespace := "StackIt/" + cfg.Environment
	return observability.NewMetrics(namespace, client, logger)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer() *observability.Tracer {
	return observability.NewTracer("stackit-content-intelligence")
}

// ProvideJWTValidator creates the JWT validator used by the HTTP layer
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT secret is required in production")
		}
		secret = "development-secret-change-in-production"
	}

	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     secret,
		Issuer:        cfg.JWTIssuer,
	})
}

// ProvideSimilarityService creates the similarity analysis service
func ProvideSimilarityService(store ports.ContentStore, logger *zap.Logger) *services.SimilarityService {
	return services.NewSimilarityService(store, logger)
}

// ProvideDuplicateService creates the duplicate detection service
func ProvideDuplicateService(store ports.ContentStore, publisher ports.EventPublisher, logger *zap.Logger) *services.DuplicateService {
	return services.NewDuplicateService(store, publisher, logger)
}

// ProvideModerationService creates the content moderation service
func ProvideModerationService(store ports.ContentStore, publisher ports.EventPublisher, logger *zap.Logger) *services.ModerationService {
	return services.NewModerationService(store, publisher, logger)
}

// ProvideEngagementService creates the engagement analysis service
func ProvideEngagementService(store ports.ContentStore, logger *zap.Logger) *services.EngagementService {
	return services.NewEngagementService(store, logger)
}

// ProvideRecommendationService creates the recommendation service
func ProvideRecommendationService(store ports.ContentStore, logger *zap.Logger) *services.RecommendationService {
	return services.NewRecommendationService(store, logger)
}

// ProvideTopicService creates the topic extraction service
func ProvideTopicService(logger *zap.Logger) *services.TopicService {
	return services.NewTopicService(logger)
}
