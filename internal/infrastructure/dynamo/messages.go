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

// MessageRepo provides typed DynamoDB operations for the messages table.
// PK: match_id, SK: message_id. Message ids are ULIDs, so the sort key
// orders messages by send time.
type MessageRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewMessageRepo(client *dynamodb.Client, tableName string) *MessageRepo {
	return &MessageRepo{client: client, tableName: tableName}
}

func (r *MessageRepo) Put(ctx context.Context, m *domain.Message) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ListByMatch returns the newest messages first, up to limit.
func (r *MessageRepo) ListByMatch(ctx context.Context, matchID string, limit int32) ([]domain.Message, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("match_id = :mid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":mid": &types.AttributeValueMemberS{Value: matchID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(limit),
	})
	if err != nil {
		return nil, err
	}
	var messages []domain.Message
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead flags every unread message in the match not sent by readerID.
func (r *MessageRepo) MarkRead(ctx context.Context, matchID, readerID string) error {
	unread, err := r.listUnread(ctx, matchID, readerID)
	if err != nil {
		return err
	}
	ue, err := buildUpdateExpr(map[string]interface{}{fieldRead: true})
	if err != nil {
		return err
	}
	for _, m := range unread {
		_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 aws.String(r.tableName),
			Key:                       compositeKey("match_id", matchID, "message_id", m.MessageID),
			UpdateExpression:          aws.String(ue.Expr),
			ExpressionAttributeNames:  ue.Names,
			ExpressionAttributeValues: ue.Values,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// UnreadCount returns how many messages in the match the reader has not seen.
func (r *MessageRepo) UnreadCount(ctx context.Context, matchID, readerID string) (int, error) {
	unread, err := r.listUnread(ctx, matchID, readerID)
	if err != nil {
		return 0, err
	}
	return len(unread), nil
}

func (r *MessageRepo) listUnread(ctx context.Context, matchID, readerID string) ([]domain.Message, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("match_id = :mid"),
		FilterExpression:       aws.String("#r = :f AND sender_id <> :uid"),
		ExpressionAttributeNames: map[string]string{
			"#r": fieldRead,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":mid": &types.AttributeValueMemberS{Value: matchID},
			":f":   &types.AttributeValueMemberBOOL{Value: false},
			":uid": &types.AttributeValueMemberS{Value: readerID},
		},
	})
	if err != nil {
		return nil, err
	}
	var messages []domain.Message
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
