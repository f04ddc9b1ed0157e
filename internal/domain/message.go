package domain

import "time"

// Message is a chat message inside a match. PK: match_id, SK: message_id.
// Message ids are ULIDs, so the sort key orders messages by creation time.
type Message struct {
	MatchID    string    `json:"match_id" dynamodbav:"match_id"`
	MessageID  string    `json:"id" dynamodbav:"message_id"`
	SenderID   string    `json:"sender_id" dynamodbav:"sender_id"`
	Content    string    `json:"content" dynamodbav:"content"`
	Read       bool      `json:"is_read" dynamodbav:"read"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
	SenderName string    `json:"sender_name,omitempty" dynamodbav:"-"`
}
