package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"stackit-backend/application/ports"
	"stackit-backend/domain/content"
	apperrors "stackit-backend/pkg/errors"
)

// ContentStore implements ports.ContentStore on a single DynamoDB
// table. Questions and answers live as separate item types:
//
//	PK=QUESTION#<id> SK=METADATA  GSI1PK=USER#<userID>
//	PK=ANSWER#<id>   SK=METADATA  GSI1PK=USER#<userID> GSI2PK=QUESTION#<qid>
//
// The author index (GSI1) serves per-user queries, the question index
// (GSI2) serves answers-for-question lookups.
type ContentStore struct {
	client        *dynamodb.Client
	tableName     string
	authorIndex   string
	questionIndex string
	logger        *zap.Logger
}

var _ ports.ContentStore = (*ContentStore)(nil)

// NewContentStore creates a new DynamoDB-backed content store
func NewContentStore(client *dynamodb.Client, tableName, authorIndex, questionIndex string, logger *zap.Logger) *ContentStore {
	return &ContentStore{
		client:        client,
		tableName:     tableName,
		authorIndex:   authorIndex,
		questionIndex: questionIndex,
		logger:        logger,
	}
}

// questionItem represents the DynamoDB item structure for a question
type questionItem struct {
	PK               string   `dynamodbav:"PK"`
	SK               string   `dynamodbav:"SK"`
	GSI1PK           string   `dynamodbav:"GSI1PK"`
	GSI1SK           string   `dynamodbav:"GSI1SK"`
	EntityType       string   `dynamodbav:"EntityType"`
	QuestionID       string   `dynamodbav:"QuestionID"`
	Title            string   `dynamodbav:"Title"`
	Description      string   `dynamodbav:"Description"`
	Tags             []string `dynamodbav:"Tags,omitempty"`
	UserID           string   `dynamodbav:"UserID"`
	Username         string   `dynamodbav:"Username"`
	Votes            int      `dynamodbav:"Votes"`
	AnswerCount      int      `dynamodbav:"AnswerCount"`
	AcceptedAnswerID string   `dynamodbav:"AcceptedAnswerID,omitempty"`
	Hidden           bool     `dynamodbav:"Hidden"`
	CreatedAt        string   `dynamodbav:"CreatedAt"`
	UpdatedAt        string   `dynamodbav:"UpdatedAt,omitempty"`
}

// answerItem represents the DynamoDB item structure for an answer
type answerItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`
	GSI2PK     string `dynamodbav:"GSI2PK"`
	GSI2SK     string `dynamodbav:"GSI2SK"`
	EntityType string `dynamodbav:"EntityType"`
	AnswerID   string `dynamodbav:"AnswerID"`
	QuestionID string `dynamodbav:"QuestionID"`
	Content    string `dynamodbav:"Content"`
	UserID     string `dynamodbav:"UserID"`
	Username   string `dynamodbav:"Username"`
	Votes      int    `dynamodbav:"Votes"`
	IsAccepted bool   `dynamodbav:"IsAccepted"`
	Hidden     bool   `dynamodbav:"Hidden"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

const (
	entityQuestion = "QUESTION"
	entityAnswer   = "ANSWER"
	skMetadata     = "METADATA"
)

// GetQuestion retrieves a single question by ID
func (s *ContentStore) GetQuestion(ctx context.Context, id string) (*content.Question, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: questionPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
	})
	if err != nil {
		s.logger.Error("Failed to get question from DynamoDB",
			zap.Error(err),
			zap.String("questionId", id),
		)
		return nil, apperrors.NewExternalError("dynamodb", err)
	}
	if result.Item == nil {
		return nil, apperrors.NewNotFoundError("question " + id)
	}

	var item questionItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal question").WithCause(err)
	}
	q := item.toDomain()
	return &q, nil
}

// ListQuestions retrieves up to limit visible questions, newest first
func (s *ContentStore) ListQuestions(ctx context.Context, limit int) ([]content.Question, error) {
	items, err := s.scanEntity(ctx, entityQuestion)
	if err != nil {
		return nil, err
	}

	questions := make([]content.Question, 0, len(items))
	for _, raw := range items {
		var item questionItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("Skipping unreadable question item", zap.Error(err))
			continue
		}
		questions = append(questions, item.toDomain())
	}

	sortQuestionsNewestFirst(questions)
	if limit > 0 && len(questions) > limit {
		questions = questions[:limit]
	}
	return questions, nil
}

// ListAnswers retrieves up to limit visible answers, newest first
func (s *ContentStore) ListAnswers(ctx context.Context, limit int) ([]content.Answer, error) {
	items, err := s.scanEntity(ctx, entityAnswer)
	if err != nil {
		return nil, err
	}

	answers := make([]content.Answer, 0, len(items))
	for _, raw := range items {
		var item answerItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("Skipping unreadable answer item", zap.Error(err))
			continue
		}
		answers = append(answers, item.toDomain())
	}

	sortAnswersNewestFirst(answers)
	if limit > 0 && len(answers) > limit {
		answers = answers[:limit]
	}
	return answers, nil
}

// AnswersForQuestion retrieves all answers attached to a question
func (s *ContentStore) AnswersForQuestion(ctx context.Context, questionID string) ([]content.Answer, error) {
	keyCond := expression.Key("GSI2PK").Equal(expression.Value(questionPK(questionID)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query expression").WithCause(err)
	}

	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		IndexName:                 aws.String(s.questionIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	answers := make([]content.Answer, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperrors.NewExternalError("dynamodb", fmt.Errorf("query answers for question %s: %w", questionID, err))
		}
		for _, raw := range page.Items {
			var item answerItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				s.logger.Warn("Skipping unreadable answer item", zap.Error(err))
				continue
			}
			if item.Hidden {
				continue
			}
			answers = append(answers, item.toDomain())
		}
	}
	return answers, nil
}

// QuestionsByAuthor retrieves all questions posted by a user
func (s *ContentStore) QuestionsByAuthor(ctx context.Context, userID string) ([]content.Question, error) {
	items, err := s.queryAuthor(ctx, userID, entityQuestion)
	if err != nil {
		return nil, err
	}

	questions := make([]content.Question, 0, len(items))
	for _, raw := range items {
		var item questionItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("Skipping unreadable question item", zap.Error(err))
			continue
		}
		questions = append(questions, item.toDomain())
	}
	sortQuestionsNewestFirst(questions)
	return questions, nil
}

// AnswersByAuthor retrieves all answers posted by a user
func (s *ContentStore) AnswersByAuthor(ctx context.Context, userID string) ([]content.Answer, error) {
	items, err := s.queryAuthor(ctx, userID, entityAnswer)
	if err != nil {
		return nil, err
	}

	answers := make([]content.Answer, 0, len(items))
	for _, raw := range items {
		var item answerItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("Skipping unreadable answer item", zap.Error(err))
			continue
		}
		answers = append(answers, item.toDomain())
	}
	sortAnswersNewestFirst(answers)
	return answers, nil
}

// SetHidden flips the visibility flag on a question or answer
func (s *ContentStore) SetHidden(ctx context.Context, kind content.ContentKind, id string, hidden bool) error {
	pk := questionPK(id)
	if kind == content.KindAnswer {
		pk = answerPK(id)
	}

	update := expression.Set(expression.Name("Hidden"), expression.Value(hidden)).
		Set(expression.Name("UpdatedAt"), expression.Value(time.Now().UTC().Format(time.RFC3339)))
	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return apperrors.NewInternalError("failed to build update expression").WithCause(err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return apperrors.NewNotFoundError(fmt.Sprintf("%s %s", kind, id))
		}
		s.logger.Error("Failed to update content visibility",
			zap.Error(err),
			zap.String("contentId", id),
			zap.String("kind", string(kind)),
		)
		return apperrors.NewExternalError("dynamodb", err)
	}

	s.logger.Info("Content visibility updated in DynamoDB",
		zap.String("contentId", id),
		zap.String("kind", string(kind)),
		zap.Bool("hidden", hidden),
	)
	return nil
}

// scanEntity pages through the table collecting visible items of one
// entity type. Analysis runs read the whole corpus, so a scan is the
// intended access pattern here, not an accident.
func (s *ContentStore) scanEntity(ctx context.Context, entityType string) ([]map[string]types.AttributeValue, error) {
	filter := expression.Name("EntityType").Equal(expression.Value(entityType)).
		And(expression.Name("Hidden").Equal(expression.Value(false)))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build scan expression").WithCause(err)
	}

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:                 aws.String(s.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	items := make([]map[string]types.AttributeValue, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperrors.NewExternalError("dynamodb", fmt.Errorf("scan %s items: %w", entityType, err))
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

// queryAuthor queries the author index for one user's items of one
// entity type, using the sort key prefix to separate the types
func (s *ContentStore) queryAuthor(ctx context.Context, userID, entityType string) ([]map[string]types.AttributeValue, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("GSI1SK").BeginsWith(entityType + "#"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build author query expression").WithCause(err)
	}

	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		IndexName:                 aws.String(s.authorIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	items := make([]map[string]types.AttributeValue, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperrors.NewExternalError("dynamodb", fmt.Errorf("query %s items for user %s: %w", entityType, userID, err))
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

func (i questionItem) toDomain() content.Question {
	createdAt, _ := time.Parse(time.RFC3339, i.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, i.UpdatedAt)
	return content.Question{
		ID:               i.QuestionID,
		Title:            i.Title,
		Description:      i.Description,
		Tags:             i.Tags,
		UserID:           i.UserID,
		Username:         i.Username,
		Votes:            i.Votes,
		Answers:          i.AnswerCount,
		AcceptedAnswerID: i.AcceptedAnswerID,
		Hidden:           i.Hidden,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}
}

func (i answerItem) toDomain() content.Answer {
	createdAt, _ := time.Parse(time.RFC3339, i.CreatedAt)
	return content.Answer{
		ID:         i.AnswerID,
		QuestionID: i.QuestionID,
		Content:    i.Content,
		UserID:     i.UserID,
		Username:   i.Username,
		Votes:      i.Votes,
		IsAccepted: i.IsAccepted,
		Hidden:     i.Hidden,
		CreatedAt:  createdAt,
	}
}

func questionPK(id string) string { return "QUESTION#" + id }
func answerPK(id string) string   { return "ANSWER#" + id }
func userPK(id string) string     { return "USER#" + id }

func sortQuestionsNewestFirst(questions []content.Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].CreatedAt.After(questions[j].CreatedAt)
	})
}

func sortAnswersNewestFirst(answers []content.Answer) {
	sort.SliceStable(answers, func(i, j int) bool {
		return answers[i].CreatedAt.After(answers[j].CreatedAt)
	})
}
