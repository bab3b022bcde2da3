// Package counter provides CounterStore implementations that live outside
// the relational database.
package counter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ibis1225/pet-ai/internal/shared/config"
)

const (
	attrDateKey   = "date_key"
	attrCounter   = "counter"
	attrUpdatedAt = "updated_at"
	attrExpiresAt = "expires_at"

	// counters are only read on the day they belong to
	counterTTL = 7 * 24 * time.Hour
)

// dynamodbAPI is the subset of the DynamoDB client the counter uses.
type dynamodbAPI interface {
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// DynamoCounter keeps one item per UTC day and increments it with an
// atomic ADD update.
type DynamoCounter struct {
	api       dynamodbAPI
	tableName string
	now       func() time.Time
}

func NewDynamoCounter(api dynamodbAPI, tableName string) (*DynamoCounter, error) {
	if api == nil {
		return nil, errors.New("counter: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("counter: table name must not be empty")
	}
	return &DynamoCounter{api: api, tableName: tableName, now: time.Now}, nil
}

// NewDynamoCounterFromConfig builds a client from the default AWS
// credential chain. DynamoEndpoint points at DynamoDB Local in development.
func NewDynamoCounterFromConfig(ctx context.Context, cfg *config.CounterConfig) (*DynamoCounter, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.DynamoRegion != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.DynamoRegion))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("counter: load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoEndpoint)
		}
	})

	return NewDynamoCounter(client, cfg.DynamoTable)
}

func (c *DynamoCounter) Increment(ctx context.Context, dateKey string) (int64, error) {
	now := c.now()

	out, err := c.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			attrDateKey: &types.AttributeValueMemberS{Value: dateKey},
		},
		UpdateExpression: aws.String("ADD #counter :one SET #updated_at = :now, #expires_at = :ttl"),
		ExpressionAttributeNames: map[string]string{
			"#counter":    attrCounter,
			"#updated_at": attrUpdatedAt,
			"#expires_at": attrExpiresAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.UnixMilli(), 10)},
			":ttl": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Add(counterTTL).Unix(), 10)},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("counter: increment %s: %w", dateKey, err)
	}
	if out == nil {
		return 0, fmt.Errorf("counter: increment %s: empty response", dateKey)
	}

	return int64Attr(out.Attributes, attrCounter)
}

func int64Attr(item map[string]types.AttributeValue, key string) (int64, error) {
	v, ok := item[key]
	if !ok {
		return 0, fmt.Errorf("counter: missing attribute %q", key)
	}
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("counter: attribute %q is not a number", key)
	}
	parsed, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("counter: parse attribute %q: %w", key, err)
	}
	return parsed, nil
}
