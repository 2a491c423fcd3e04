package repository

import (
	"context"

	"restoredoc/internal/domain/entities"
	"restoredoc/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type jobItem struct {
	ID              string `dynamodbav:"id"`
	ContractorID    string `dynamodbav:"contractor_id"`
	CustomerName    string `dynamodbav:"customer_name"`
	CustomerEmail   string `dynamodbav:"customer_email,omitempty"`
	CustomerPhone   string `dynamodbav:"customer_phone,omitempty"`
	DamageType      string `dynamodbav:"damage_type"`
	PropertyAddress string `dynamodbav:"property_address"`
	City            string `dynamodbav:"city"`
	State           string `dynamodbav:"state"`
	Zip             string `dynamodbav:"zip,omitempty"`
	Notes           string `dynamodbav:"notes,omitempty"`
	CreatedAt       string `dynamodbav:"created_at"`
	UpdatedAt       string `dynamodbav:"updated_at"`
}

// JobDynamoRepository persists jobs in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: contractor_id-index (PK: contractor_id)
type JobDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IJobRepository = (*JobDynamoRepository)(nil)

func NewJobDynamoRepository(ddb *dynamodb.Client, tableName string) *JobDynamoRepository {
	return &JobDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *JobDynamoRepository) Create(ctx context.Context, j entities.Job) (entities.Job, error) {
	av, err := attributevalue.MarshalMap(toJobItem(j))
	if err != nil {
		return entities.Job{}, err
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
		return entities.Job{}, err
	}
	return j, nil
}

func (r *JobDynamoRepository) GetByID(ctx context.Context, id string) (entities.Job, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Job{}, err
	}
	if len(out.Item) == 0 {
		return entities.Job{}, nil
	}

	var it jobItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Job{}, err
	}
	return fromJobItem(it), nil
}

// List scans the whole table; job volume per contractor is small.
func (r *JobDynamoRepository) List(ctx context.Context) ([]entities.Job, error) {
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})

	jobs := []entities.Job{}
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var page []jobItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		for _, it := range page {
			jobs = append(jobs, fromJobItem(it))
		}
	}
	sortJobsNewestFirst(jobs)
	return jobs, nil
}

func toJobItem(j entities.Job) jobItem {
	return jobItem{
		ID:              j.ID,
		ContractorID:    j.ContractorID,
		CustomerName:    j.CustomerName,
		CustomerEmail:   j.CustomerEmail,
		CustomerPhone:   j.CustomerPhone,
		DamageType:      string(j.DamageType),
		PropertyAddress: j.PropertyAddress,
		City:            j.City,
		State:           j.State,
		Zip:             j.Zip,
		Notes:           j.Notes,
		CreatedAt:       formatTime(j.CreatedAt),
		UpdatedAt:       formatTime(j.UpdatedAt),
	}
}

func fromJobItem(it jobItem) entities.Job {
	return entities.Job{
		ID:              it.ID,
		ContractorID:    it.ContractorID,
		CustomerName:    it.CustomerName,
		CustomerEmail:   it.CustomerEmail,
		CustomerPhone:   it.CustomerPhone,
		DamageType:      entities.DamageType(it.DamageType),
		PropertyAddress: it.PropertyAddress,
		City:            it.City,
		State:           it.State,
		Zip:             it.Zip,
		Notes:           it.Notes,
		CreatedAt:       parseTime(it.CreatedAt),
		UpdatedAt:       parseTime(it.UpdatedAt),
	}
}
