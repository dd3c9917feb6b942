package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/YogeshxSaini/bluestock/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const mediaOwnerIndex = "owner_id-created_at-index"

// MediaRepo catalogs uploaded company images.
type MediaRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewMediaRepo(client *dynamodb.Client, tableName string) *MediaRepo {
	return &MediaRepo{client: client, tableName: tableName}
}

func (r *MediaRepo) Put(ctx context.Context, m *domain.Media) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal media: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ListByOwner returns the owner's uploads, newest first.
func (r *MediaRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Media, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(mediaOwnerIndex),
		KeyConditionExpression: aws.String("owner_id = :oid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": &types.AttributeValueMemberS{Value: ownerID},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	media := []domain.Media{}
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &media); err != nil {
		return nil, err
	}
	return media, nil
}

// Supersede flags an earlier upload as replaced.
func (r *MediaRepo) Supersede(ctx context.Context, mediaID string, at time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		"current":       false,
		"superseded_at": at.UTC(),
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("media_id", mediaID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
