package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dating-api/internal/domain"
)

// MatchRepo provides typed DynamoDB operations for the matches table.
type MatchRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewMatchRepo(client *dynamodb.Client, tableName string) *MatchRepo {
	return &MatchRepo{client: client, tableName: tableName}
}

// Create inserts a match only if it doesn't exist yet. Two concurrent
// mutual-like detections for the same pair collapse into one row; the
// loser gets ErrConflict.
func (r *MatchRepo) Create(ctx context.Context, m *domain.Match) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal match: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(match_id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("match already exists: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *MatchRepo) Get(ctx context.Context, matchID string) (*domain.Match, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("match_id", matchID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("match not found: %w", domain.ErrNotFound)
	}
	var m domain.Match
	if err := attributevalue.UnmarshalMap(out.Item, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByUser returns all active matches the user is part of, querying both
// member GSIs.
func (r *MatchRepo) ListByUser(ctx context.Context, userID string) ([]domain.Match, error) {
	var matches []domain.Match
	for _, index := range []struct{ name, attr string }{
		{"user1_id-index", "user1_id"},
		{"user2_id-index", "user2_id"},
	} {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(index.name),
			KeyConditionExpression: aws.String(fmt.Sprintf("%s = :uid", index.attr)),
			FilterExpression:       aws.String("active = :t"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":uid": &types.AttributeValueMemberS{Value: userID},
				":t":   &types.AttributeValueMemberBOOL{Value: true},
			},
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Match
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		matches = append(matches, page...)
	}
	return matches, nil
}

// Deactivate soft-deletes a match (unmatch).
func (r *MatchRepo) Deactivate(ctx context.Context, matchID string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{fieldActive: false})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("match_id", matchID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
