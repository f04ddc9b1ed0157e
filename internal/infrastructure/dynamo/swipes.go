package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dating-api/internal/domain"
)

// SwipeRepo provides typed DynamoDB operations for the swipes table.
// PK: user_id, SK: target_user_id.
type SwipeRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSwipeRepo(client *dynamodb.Client, tableName string) *SwipeRepo {
	return &SwipeRepo{client: client, tableName: tableName}
}

// Put upserts a swipe; a later swipe on the same target replaces the decision.
func (r *SwipeRepo) Put(ctx context.Context, s *domain.Swipe) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal swipe: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *SwipeRepo) Get(ctx context.Context, userID, targetUserID string) (*domain.Swipe, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "target_user_id", targetUserID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("swipe not found: %w", domain.ErrNotFound)
	}
	var s domain.Swipe
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByUser returns every swipe the user has made.
func (r *SwipeRepo) ListByUser(ctx context.Context, userID string) ([]domain.Swipe, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var swipes []domain.Swipe
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &swipes); err != nil {
		return nil, err
	}
	return swipes, nil
}

// ListLikesReceived returns likes targeting the user, via the
// target_user_id GSI.
func (r *SwipeRepo) ListLikesReceived(ctx context.Context, userID string) ([]domain.Swipe, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("target_user_id-index"),
		KeyConditionExpression: aws.String("target_user_id = :uid"),
		FilterExpression:       aws.String("liked = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
			":t":   &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		return nil, err
	}
	var swipes []domain.Swipe
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &swipes); err != nil {
		return nil, err
	}
	return swipes, nil
}

// DeleteByUser removes every swipe made by or targeting the user and
// returns the number of rows removed.
func (r *SwipeRepo) DeleteByUser(ctx context.Context, userID string) (int, error) {
	deleted := 0

	made, err := r.ListByUser(ctx, userID)
	if err != nil {
		return deleted, err
	}
	for _, s := range made {
		if err := r.delete(ctx, s.UserID, s.TargetUserID); err != nil {
			return deleted, err
		}
		deleted++
	}

	received, err := r.ListLikesReceived(ctx, userID)
	if err != nil {
		return deleted, err
	}
	for _, s := range received {
		if err := r.delete(ctx, s.UserID, s.TargetUserID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func (r *SwipeRepo) delete(ctx context.Context, userID, targetUserID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "target_user_id", targetUserID),
	})
	return err
}
