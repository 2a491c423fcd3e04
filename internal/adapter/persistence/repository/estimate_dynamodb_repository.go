package repository

import (
	"context"
	"errors"
	"time"

	"restoredoc/internal/domain/entities"
	"restoredoc/internal/infrastructure/database"
	"restoredoc/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type estimateItem struct {
	ID            string  `dynamodbav:"id"`
	JobID         string  `dynamodbav:"job_id"`
	Version       int     `dynamodbav:"version"`
	IsCurrent     bool    `dynamodbav:"is_current"`
	Status        string  `dynamodbav:"status"`
	DamageType    string  `dynamodbav:"damage_type"`
	Subtotal      float64 `dynamodbav:"subtotal"`
	MarkupPercent float64 `dynamodbav:"markup_percent"`
	MarkupAmount  float64 `dynamodbav:"markup_amount"`
	TotalEstimate float64 `dynamodbav:"total_estimate"`
	Document      string  `dynamodbav:"document"`
	CreatedAt     string  `dynamodbav:"created_at"`
	UpdatedAt     string  `dynamodbav:"updated_at"`
}

// EstimateDynamoRepository persists estimate versions in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: job_id-index (PK: job_id)
//
// Line items, assessment and advisories live in the "document" attribute as JSON.
type EstimateDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IEstimateRepository = (*EstimateDynamoRepository)(nil)

func NewEstimateDynamoRepository(ddb *dynamodb.Client, tableName string) *EstimateDynamoRepository {
	return &EstimateDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *EstimateDynamoRepository) Create(ctx context.Context, e entities.Estimate) (entities.Estimate, error) {
	it, err := toEstimateItem(e)
	if err != nil {
		return entities.Estimate{}, err
	}
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Estimate{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Estimate{}, err
	}
	return e, nil
}

func (r *EstimateDynamoRepository) GetByID(ctx context.Context, id string) (entities.Estimate, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Estimate{}, err
	}
	if len(out.Item) == 0 {
		return entities.Estimate{}, nil
	}
	return unmarshalEstimate(out.Item)
}

func (r *EstimateDynamoRepository) ListByJobID(ctx context.Context, jobID string) ([]entities.Estimate, error) {
	p := dynamodb.NewQueryPaginator(r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(database.EstimatesJobIDIndex),
		KeyConditionExpression: aws.String("job_id = :jid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":jid": &types.AttributeValueMemberS{Value: jobID},
		},
	})

	items := []entities.Estimate{}
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			e, err := unmarshalEstimate(raw)
			if err != nil {
				return nil, err
			}
			items = append(items, e)
		}
	}
	sortByVersion(items)
	return items, nil
}

func (r *EstimateDynamoRepository) SetCurrent(ctx context.Context, id string, current bool) (entities.Estimate, error) {
	return r.update(ctx, id, func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #is_current = :is_current, #updated_at = :updated_at"
		vals := map[string]types.AttributeValue{
			":is_current": &types.AttributeValueMemberBOOL{Value: current},
			":updated_at": &types.AttributeValueMemberS{Value: now},
		}
		names := map[string]string{
			"#is_current": "is_current",
			"#updated_at": "updated_at",
		}
		return expr, vals, names
	})
}

func (r *EstimateDynamoRepository) UpdateStatusByID(ctx context.Context, id string, status entities.EstimateStatus) (entities.Estimate, error) {
	return r.update(ctx, id, func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #status = :status, #updated_at = :updated_at"
		vals := map[string]types.AttributeValue{
			":status":     &types.AttributeValueMemberS{Value: string(status)},
			":updated_at": &types.AttributeValueMemberS{Value: now},
		}
		names := map[string]string{
			"#status":     "status",
			"#updated_at": "updated_at",
		}
		return expr, vals, names
	})
}

func (r *EstimateDynamoRepository) update(
	ctx context.Context,
	id string,
	build func(now string) (updateExpr string, values map[string]types.AttributeValue, names map[string]string),
) (entities.Estimate, error) {
	updateExpr, values, names := build(formatTime(time.Now()))

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression:       aws.String("attribute_exists(#id)"),
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#id": "id"}),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Estimate{}, nil
		}
		return entities.Estimate{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Estimate{}, nil
	}
	return unmarshalEstimate(out.Attributes)
}

func unmarshalEstimate(av map[string]types.AttributeValue) (entities.Estimate, error) {
	var it estimateItem
	if err := attributevalue.UnmarshalMap(av, &it); err != nil {
		return entities.Estimate{}, err
	}
	return fromEstimateItem(it)
}

func toEstimateItem(e entities.Estimate) (estimateItem, error) {
	doc, err := encodeEstimateDocument(e)
	if err != nil {
		return estimateItem{}, err
	}
	return estimateItem{
		ID:            e.ID,
		JobID:         e.JobID,
		Version:       e.Version,
		IsCurrent:     e.IsCurrent,
		Status:        string(e.Status),
		DamageType:    string(e.DamageType),
		Subtotal:      e.Subtotal,
		MarkupPercent: e.MarkupPercent,
		MarkupAmount:  e.MarkupAmount,
		TotalEstimate: e.TotalEstimate,
		Document:      doc,
		CreatedAt:     formatTime(e.CreatedAt),
		UpdatedAt:     formatTime(e.UpdatedAt),
	}, nil
}

func fromEstimateItem(it estimateItem) (entities.Estimate, error) {
	e := entities.Estimate{
		ID:            it.ID,
		JobID:         it.JobID,
		Version:       it.Version,
		IsCurrent:     it.IsCurrent,
		Status:        entities.EstimateStatus(it.Status),
		DamageType:    entities.DamageType(it.DamageType),
		Subtotal:      it.Subtotal,
		MarkupPercent: it.MarkupPercent,
		MarkupAmount:  it.MarkupAmount,
		TotalEstimate: it.TotalEstimate,
		CreatedAt:     parseTime(it.CreatedAt),
		UpdatedAt:     parseTime(it.UpdatedAt),
	}
	if err := decodeEstimateDocument(it.Document, &e); err != nil {
		return entities.Estimate{}, err
	}
	return e, nil
}
