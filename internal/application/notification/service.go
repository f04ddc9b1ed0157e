package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/dating-api/internal/domain"
	"github.com/dating-api/internal/pkg/id"
)

type Service interface {
	NotifyMatch(ctx context.Context, userID, actorUserID string) error
	NotifyLike(ctx context.Context, userID, actorUserID string) error
	List(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID string) error
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID string, limit int32) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type service struct {
	repo     notificationStore
	userRepo userStore
}

type ServiceDeps struct {
	NotificationRepo notificationStore
	UserRepo         userStore
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.NotificationRepo, userRepo: deps.UserRepo}
}

func (s *service) NotifyMatch(ctx context.Context, userID, actorUserID string) error {
	actor, err := s.userRepo.Get(ctx, actorUserID)
	if err != nil {
		return err
	}
	return s.put(ctx, userID, actorUserID, domain.NotificationMatch,
		fmt.Sprintf("You matched with %s!", actor.FirstName))
}

func (s *service) NotifyLike(ctx context.Context, userID, actorUserID string) error {
	return s.put(ctx, userID, actorUserID, domain.NotificationLike, "Someone liked your profile")
}

func (s *service) put(ctx context.Context, userID, actorUserID, kind, message string) error {
	now := time.Now().UTC()
	return s.repo.Put(ctx, &domain.Notification{
		NotificationID: id.New(),
		UserID:         userID,
		Kind:           kind,
		ActorUserID:    actorUserID,
		Message:        message,
		Read:           false,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func (s *service) List(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return s.repo.ListByUser(ctx, userID, int32(limit))
}

func (s *service) MarkAsRead(ctx context.Context, notificationID string) error {
	return s.repo.MarkAsRead(ctx, notificationID)
}
