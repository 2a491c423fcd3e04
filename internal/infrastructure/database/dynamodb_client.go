package database

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const (
	JobsContractorIDIndex   = "contractor_id-index"
	EstimatesJobIDIndex     = "job_id-index"
	PaymentsEstimateIDIndex = "estimate_id-index"
)

// TableNames holds the DynamoDB table names, overridable per environment.
type TableNames struct {
	Jobs      string
	Estimates string
	Payments  string
}

func TableNamesFromEnv() TableNames {
	return TableNames{
		Jobs:      getenvDefault("JOBS_TABLE", "jobs"),
		Estimates: getenvDefault("ESTIMATES_TABLE", "estimates"),
		Payments:  getenvDefault("PAYMENTS_TABLE", "payments"),
	}
}

// ConnectDynamoDB creates a DynamoDB client using environment variables.
//
// Supported env vars (local-friendly):
//   - AWS_REGION (default: us-east-1)
//   - AWS_ACCESS_KEY_ID (default: local)
//   - AWS_SECRET_ACCESS_KEY (default: local)
//   - DYNAMODB_ENDPOINT (optional; e.g. http://dynamodb:8000)
func ConnectDynamoDB(ctx context.Context) (*dynamodb.Client, error) {
	cfg, err := NewDynamoDBConfigFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("create dynamodb config: %w", err)
	}
	endpoint := os.Getenv("DYNAMODB_ENDPOINT")
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

func NewDynamoDBConfigFromEnv(ctx context.Context) (aws.Config, error) {
	// Local DynamoDB does not validate credentials, but the AWS SDK requires them.
	creds := credentials.NewStaticCredentialsProvider(
		getenvDefault("AWS_ACCESS_KEY_ID", "local"),
		getenvDefault("AWS_SECRET_ACCESS_KEY", "local"),
		"",
	)
	return config.LoadDefaultConfig(ctx,
		config.WithRegion(getenvDefault("AWS_REGION", "us-east-1")),
		config.WithCredentialsProvider(creds),
	)
}

// EnsureTables creates any missing table with the keys and indexes the
// repositories query. Intended for local DynamoDB; existing tables are left alone.
func EnsureTables(ctx context.Context, ddb *dynamodb.Client, names TableNames, logger *zap.Logger) error {
	specs := []struct {
		name  string
		index string
		attr  string
	}{
		{names.Jobs, JobsContractorIDIndex, "contractor_id"},
		{names.Estimates, EstimatesJobIDIndex, "job_id"},
		{names.Payments, PaymentsEstimateIDIndex, "estimate_id"},
	}
	for _, s := range specs {
		_, err := ddb.CreateTable(ctx, tableInput(s.name, s.index, s.attr))
		if err != nil {
			var inUse *types.ResourceInUseException
			if errors.As(err, &inUse) {
				continue
			}
			return fmt.Errorf("create table %s: %w", s.name, err)
		}
		logger.Info("dynamodb table created", zap.String("table", s.name), zap.String("index", s.index))
	}
	return nil
}

func tableInput(name, index, attr string) *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName:   aws.String(name),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(attr), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{{
			IndexName: aws.String(index),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String(attr), KeyType: types.KeyTypeHash},
			},
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		}},
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
