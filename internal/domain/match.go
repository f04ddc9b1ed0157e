package domain

import (
	"strings"
	"time"
)

// Match links two mutually-liked users. The id is the sorted user-id pair,
// so a pair of users can never produce two match rows regardless of which
// side's like lands last.
type Match struct {
	MatchID   string    `json:"id" dynamodbav:"match_id"`
	User1ID   string    `json:"user1_id" dynamodbav:"user1_id"`
	User2ID   string    `json:"user2_id" dynamodbav:"user2_id"`
	Active    bool      `json:"is_active" dynamodbav:"active"`
	MatchedAt time.Time `json:"matched_at" dynamodbav:"matched_at"`
	User      *User     `json:"user,omitempty" dynamodbav:"-"`
}

// MatchKey returns the deterministic match id for a pair of users.
func MatchKey(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + "#" + b
}

// OtherUser returns the member of the match that is not userID.
func (m *Match) OtherUser(userID string) string {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// HasMember reports whether userID is one of the two matched users.
func (m *Match) HasMember(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}
