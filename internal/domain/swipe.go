package domain

import "time"

// Swipe records a like or pass. PK: user_id, SK: target_user_id.
// Repeated swipes on the same target overwrite the previous decision.
type Swipe struct {
	UserID       string    `json:"user_id" dynamodbav:"user_id"`
	TargetUserID string    `json:"target_user_id" dynamodbav:"target_user_id"`
	Liked        bool      `json:"liked" dynamodbav:"liked"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
}
