package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/heitorleonny/rag-bedrock-piloto/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DynamoStore persists records in a DynamoDB table with pk/sk string keys.
// Attribute values are marshalled by hand: amounts must travel as DynamoDB
// numbers built from decimal strings, never through float64.
type DynamoStore struct {
	client *dynamodb.Client
	table  string
	alloc  *keyAllocator
	logger *zap.Logger
}

func NewDynamoStore(cfg aws.Config, table string, logger *zap.Logger) *DynamoStore {
	return &DynamoStore{
		client: dynamodb.NewFromConfig(cfg),
		table:  table,
		alloc:  newKeyAllocator(time.Now),
		logger: logger,
	}
}

func (s *DynamoStore) Append(ctx context.Context, item models.ExpenseItem, currency string) (models.ExpenseRecord, error) {
	sk, createdAt := s.alloc.next()
	record := newRecord(item, currency, sk, createdAt)

	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                marshalRecord(record),
		ConditionExpression: aws.String("attribute_not_exists(sk)"),
	})
	if err != nil {
		s.logger.Error("Failed to put expense record",
			zap.Error(err),
			zap.String("sort_key", sk))
		return models.ExpenseRecord{}, &StoreError{Op: "put item", Err: err}
	}

	return record, nil
}

func (s *DynamoStore) ScanAll(ctx context.Context) ([]models.ExpenseRecord, error) {
	return s.query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: PartitionKey},
		},
	}, "")
}

func (s *DynamoStore) ScanMonth(ctx context.Context, year int, month time.Month) ([]models.ExpenseRecord, error) {
	low, high := monthRange(year, month)

	// Key conditions only offer an inclusive BETWEEN; the exclusive upper
	// bound is enforced below when the pages are decoded.
	return s.query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("pk = :pk AND sk BETWEEN :lo AND :hi"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: PartitionKey},
			":lo": &types.AttributeValueMemberS{Value: low},
			":hi": &types.AttributeValueMemberS{Value: high},
		},
	}, high)
}

func (s *DynamoStore) query(ctx context.Context, input *dynamodb.QueryInput, exclusiveHigh string) ([]models.ExpenseRecord, error) {
	var records []models.ExpenseRecord

	for {
		out, err := s.client.Query(ctx, input)
		if err != nil {
			s.logger.Error("Failed to query expense records", zap.Error(err))
			return nil, &StoreError{Op: "query", Err: err}
		}

		for _, attrs := range out.Items {
			record, err := unmarshalRecord(attrs)
			if err != nil {
				return nil, &StoreError{Op: "decode item", Err: err}
			}
			if exclusiveHigh != "" && record.SK >= exclusiveHigh {
				continue
			}
			records = append(records, record)
		}

		if out.LastEvaluatedKey == nil {
			return records, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (s *DynamoStore) Close() error {
	return nil
}

func marshalRecord(r models.ExpenseRecord) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk":                     &types.AttributeValueMemberS{Value: r.PK},
		"sk":                     &types.AttributeValueMemberS{Value: r.SK},
		"amount":                 &types.AttributeValueMemberN{Value: r.Amount.String()},
		"description_raw":        &types.AttributeValueMemberS{Value: r.DescriptionRaw},
		"description_normalized": &types.AttributeValueMemberS{Value: r.DescriptionNormalized},
		"category":               &types.AttributeValueMemberS{Value: string(r.Category)},
		"confidence":             &types.AttributeValueMemberN{Value: r.Confidence.String()},
		"currency":               &types.AttributeValueMemberS{Value: r.Currency},
		"created_at":             &types.AttributeValueMemberS{Value: r.CreatedAt},
	}
}

func unmarshalRecord(attrs map[string]types.AttributeValue) (models.ExpenseRecord, error) {
	record := models.ExpenseRecord{}

	var err error
	if record.PK, err = stringAttr(attrs, "pk"); err != nil {
		return record, err
	}
	if record.SK, err = stringAttr(attrs, "sk"); err != nil {
		return record, err
	}
	if record.Amount, err = numberAttr(attrs, "amount"); err != nil {
		return record, err
	}
	if record.Confidence, err = numberAttr(attrs, "confidence"); err != nil {
		return record, err
	}

	record.DescriptionRaw, _ = stringAttr(attrs, "description_raw")
	record.DescriptionNormalized, _ = stringAttr(attrs, "description_normalized")
	category, _ := stringAttr(attrs, "category")
	record.Category = models.Category(category)
	record.Currency, _ = stringAttr(attrs, "currency")
	record.CreatedAt, _ = stringAttr(attrs, "created_at")

	return record, nil
}

func stringAttr(attrs map[string]types.AttributeValue, name string) (string, error) {
	av, ok := attrs[name].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("attribute %s is not a string", name)
	}
	return av.Value, nil
}

func numberAttr(attrs map[string]types.AttributeValue, name string) (decimal.Decimal, error) {
	av, ok := attrs[name].(*types.AttributeValueMemberN)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("attribute %s is not a number", name)
	}
	d, err := decimal.NewFromString(av.Value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("attribute %s: %w", name, err)
	}
	return d, nil
}
