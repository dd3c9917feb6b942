package dynamo

import (
	"context"
	"fmt"

	"github.com/YogeshxSaini/bluestock/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// VerificationLedger keeps OTP codes and email tokens in DynamoDB.
// PK: account_id, SK: purpose ("mobile" | "email"). expires_at doubles as the table TTL,
// so DynamoDB eventually purges entries nobody verified.
type VerificationLedger struct {
	client    *dynamodb.Client
	tableName string
}

func NewVerificationLedger(client *dynamodb.Client, tableName string) *VerificationLedger {
	return &VerificationLedger{client: client, tableName: tableName}
}

func (r *VerificationLedger) Put(ctx context.Context, v *domain.Verification) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal verification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Get reads with strong consistency so a code written a moment ago by another
// instance is visible.
func (r *VerificationLedger) Get(ctx context.Context, accountID, purpose string) (*domain.Verification, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            compositeKey("account_id", accountID, "purpose", purpose),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	var v domain.Verification
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VerificationLedger) Delete(ctx context.Context, accountID, purpose string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("account_id", accountID, "purpose", purpose),
	})
	return err
}

func (r *VerificationLedger) Ping(ctx context.Context) error {
	_, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(r.tableName)})
	return err
}
