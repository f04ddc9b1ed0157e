package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dating-api/internal/domain"
)

// VerificationRepo manages SMS verification codes. PK: phone_number.
//
// PutItem replaces the whole row atomically, which is what keeps the
// one-live-code-per-phone invariant under concurrent requests: whichever
// write lands last wins wholesale, never leaving two live rows.
type VerificationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewVerificationRepo(client *dynamodb.Client, tableName string) *VerificationRepo {
	return &VerificationRepo{client: client, tableName: tableName}
}

// Put replaces any existing verification row for the phone number.
func (r *VerificationRepo) Put(ctx context.Context, v *domain.PhoneVerification) error {
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

func (r *VerificationRepo) Get(ctx context.Context, phone string) (*domain.PhoneVerification, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("phone_number", phone),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	var v domain.PhoneVerification
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// IncrementAttempts atomically bumps the failed-attempt counter and returns
// the new value. The condition guards against resurrecting a row that was
// deleted (consumed or swept) between the caller's Get and this update.
func (r *VerificationRepo) IncrementAttempts(ctx context.Context, phone string) (int, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("phone_number", phone),
		UpdateExpression:    aws.String("ADD attempts :one"),
		ConditionExpression: aws.String("attribute_exists(phone_number)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return 0, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
		}
		return 0, err
	}
	attr, ok := out.Attributes["attempts"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("unexpected attempts attribute in update response")
	}
	n, err := strconv.Atoi(attr.Value)
	if err != nil {
		return 0, fmt.Errorf("parse attempts: %w", err)
	}
	return n, nil
}

// SetMessageID records the SMS provider's correlation id after dispatch.
func (r *VerificationRepo) SetMessageID(ctx context.Context, phone, messageID string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{fieldMessageID: messageID})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("phone_number", phone),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ConditionExpression:       aws.String("attribute_exists(phone_number)"),
	})
	return err
}

func (r *VerificationRepo) Delete(ctx context.Context, phone string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("phone_number", phone),
	})
	return err
}

// SweepExpired deletes every row whose expiry has passed and returns the
// number of rows removed. DynamoDB's own TTL on expires_at eventually does
// the same, but its deletion lag is unbounded; the sweep keeps the table
// tight and the count observable.
func (r *VerificationRepo) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	deleted := 0
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(r.tableName),
			FilterExpression: aws.String("expires_at < :now"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)},
			},
			ProjectionExpression: aws.String("phone_number"),
			ExclusiveStartKey:    startKey,
		})
		if err != nil {
			return deleted, err
		}
		for _, item := range out.Items {
			phoneAttr, ok := item["phone_number"].(*types.AttributeValueMemberS)
			if !ok {
				continue
			}
			if err := r.Delete(ctx, phoneAttr.Value); err != nil {
				return deleted, err
			}
			deleted++
		}
		if out.LastEvaluatedKey == nil {
			return deleted, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
