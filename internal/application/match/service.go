package match

import (
	"context"
	"fmt"

	"github.com/dating-api/internal/domain"
)

type Service interface {
	List(ctx context.Context, userID string) ([]domain.Match, error)
	Get(ctx context.Context, userID, matchID string) (*domain.Match, error)
	Unmatch(ctx context.Context, userID, matchID string) error
}

type matchStore interface {
	Get(ctx context.Context, matchID string) (*domain.Match, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Match, error)
	Deactivate(ctx context.Context, matchID string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type service struct {
	matchRepo matchStore
	userRepo  userStore
}

type ServiceDeps struct {
	MatchRepo matchStore
	UserRepo  userStore
}

func NewService(deps ServiceDeps) Service {
	return &service{matchRepo: deps.MatchRepo, userRepo: deps.UserRepo}
}

// List returns the user's active matches with the other member's profile
// attached.
func (s *service) List(ctx context.Context, userID string) ([]domain.Match, error) {
	matches, err := s.matchRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		other, err := s.userRepo.Get(ctx, matches[i].OtherUser(userID))
		if err != nil {
			continue
		}
		other.PasswordHash = ""
		matches[i].User = other
	}
	return matches, nil
}

// Get returns a match the user is a member of. Non-members get ErrForbidden.
func (s *service) Get(ctx context.Context, userID, matchID string) (*domain.Match, error) {
	m, err := s.matchRepo.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !m.HasMember(userID) {
		return nil, fmt.Errorf("not a member of this match: %w", domain.ErrForbidden)
	}
	if !m.Active {
		return nil, fmt.Errorf("match not found: %w", domain.ErrNotFound)
	}
	other, err := s.userRepo.Get(ctx, m.OtherUser(userID))
	if err == nil {
		other.PasswordHash = ""
		m.User = other
	}
	return m, nil
}

func (s *service) Unmatch(ctx context.Context, userID, matchID string) error {
	m, err := s.matchRepo.Get(ctx, matchID)
	if err != nil {
		return err
	}
	if !m.HasMember(userID) {
		return fmt.Errorf("not a member of this match: %w", domain.ErrForbidden)
	}
	return s.matchRepo.Deactivate(ctx, matchID)
}
