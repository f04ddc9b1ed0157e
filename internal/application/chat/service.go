package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dating-api/internal/domain"
	"github.com/dating-api/internal/pkg/id"
)

type Service interface {
	Send(ctx context.Context, matchID, senderID, content string) (*domain.Message, error)
	History(ctx context.Context, matchID, userID string, limit int) ([]domain.Message, error)
	MarkRead(ctx context.Context, matchID, userID string) error
	UnreadCount(ctx context.Context, matchID, userID string) (int, error)
	TotalUnread(ctx context.Context, userID string) (int, error)
}

type messageStore interface {
	Put(ctx context.Context, m *domain.Message) error
	ListByMatch(ctx context.Context, matchID string, limit int32) ([]domain.Message, error)
	MarkRead(ctx context.Context, matchID, readerID string) error
	UnreadCount(ctx context.Context, matchID, readerID string) (int, error)
}

type matchStore interface {
	Get(ctx context.Context, matchID string) (*domain.Match, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Match, error)
}

// broadcaster pushes a message to connected chat clients of a match room.
type broadcaster interface {
	Broadcast(matchID string, m *domain.Message)
}

type service struct {
	messageRepo messageStore
	matchRepo   matchStore
	hub         broadcaster
	maxContent  int
}

type ServiceDeps struct {
	MessageRepo messageStore
	MatchRepo   matchStore
	Hub         broadcaster
}

const maxContentLength = 2000

func NewService(deps ServiceDeps) Service {
	return &service{
		messageRepo: deps.MessageRepo,
		matchRepo:   deps.MatchRepo,
		hub:         deps.Hub,
		maxContent:  maxContentLength,
	}
}

// Send persists a message and broadcasts it to the match's live connections.
// Only active match members can send.
func (s *service) Send(ctx context.Context, matchID, senderID, content string) (*domain.Message, error) {
	if content == "" {
		return nil, fmt.Errorf("message content required: %w", domain.ErrBadRequest)
	}
	if len(content) > s.maxContent {
		return nil, fmt.Errorf("message too long: %w", domain.ErrBadRequest)
	}
	if err := s.authorize(ctx, matchID, senderID); err != nil {
		return nil, err
	}

	m := &domain.Message{
		MatchID:   matchID,
		MessageID: id.New(),
		SenderID:  senderID,
		Content:   content,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messageRepo.Put(ctx, m); err != nil {
		return nil, err
	}
	if s.hub != nil {
		s.hub.Broadcast(matchID, m)
	} else {
		slog.Debug("no chat hub configured, message persisted only", "match_id", matchID)
	}
	return m, nil
}

func (s *service) History(ctx context.Context, matchID, userID string, limit int) ([]domain.Message, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	if err := s.authorize(ctx, matchID, userID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListByMatch(ctx, matchID, int32(limit))
}

func (s *service) MarkRead(ctx context.Context, matchID, userID string) error {
	if err := s.authorize(ctx, matchID, userID); err != nil {
		return err
	}
	return s.messageRepo.MarkRead(ctx, matchID, userID)
}

func (s *service) UnreadCount(ctx context.Context, matchID, userID string) (int, error) {
	if err := s.authorize(ctx, matchID, userID); err != nil {
		return 0, err
	}
	return s.messageRepo.UnreadCount(ctx, matchID, userID)
}

// TotalUnread sums unread peer messages across the user's active matches.
func (s *service) TotalUnread(ctx context.Context, userID string) (int, error) {
	matches, err := s.matchRepo.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, m := range matches {
		count, err := s.messageRepo.UnreadCount(ctx, m.MatchID, userID)
		if err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}

func (s *service) authorize(ctx context.Context, matchID, userID string) error {
	m, err := s.matchRepo.Get(ctx, matchID)
	if err != nil {
		return err
	}
	if !m.HasMember(userID) {
		return fmt.Errorf("not a member of this match: %w", domain.ErrForbidden)
	}
	if !m.Active {
		return fmt.Errorf("match is no longer active: %w", domain.ErrForbidden)
	}
	return nil
}
