package domain

import "time"

const (
	NotificationMatch = "match"
	NotificationLike  = "like"
)

type Notification struct {
	NotificationID string    `json:"id" dynamodbav:"notification_id"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	Kind           string    `json:"kind" dynamodbav:"kind"`
	ActorUserID    string    `json:"actor_user_id" dynamodbav:"actor_user_id"`
	Message        string    `json:"message" dynamodbav:"message"`
	Read           bool      `json:"read" dynamodbav:"read"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
}
