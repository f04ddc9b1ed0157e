package swipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dating-api/internal/domain"
	"github.com/dating-api/internal/pkg/geo"
)

// SwipeResult reports the outcome of a swipe; Match is set only when the
// swipe completed a mutual like.
type SwipeResult struct {
	Matched bool          `json:"matched"`
	Match   *domain.Match `json:"match,omitempty"`
}

type Service interface {
	Discover(ctx context.Context, userID string, limit int) ([]domain.User, error)
	Swipe(ctx context.Context, userID, targetUserID string, liked bool) (*SwipeResult, error)
	LikesReceived(ctx context.Context, userID string) ([]domain.User, error)
	LikesSent(ctx context.Context, userID string) ([]domain.User, error)
	ResetSwipes(ctx context.Context, userID string) (int, error)
}

type swipeStore interface {
	Put(ctx context.Context, s *domain.Swipe) error
	Get(ctx context.Context, userID, targetUserID string) (*domain.Swipe, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Swipe, error)
	ListLikesReceived(ctx context.Context, userID string) ([]domain.Swipe, error)
	DeleteByUser(ctx context.Context, userID string) (int, error)
}

type matchStore interface {
	Create(ctx context.Context, m *domain.Match) error
	Get(ctx context.Context, matchID string) (*domain.Match, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
}

type notifier interface {
	NotifyMatch(ctx context.Context, userID, actorUserID string) error
	NotifyLike(ctx context.Context, userID, actorUserID string) error
}

type service struct {
	swipeRepo swipeStore
	matchRepo matchStore
	userRepo  userStore
	notifier  notifier
}

type ServiceDeps struct {
	SwipeRepo swipeStore
	MatchRepo matchStore
	UserRepo  userStore
	Notifier  notifier
}

func NewService(deps ServiceDeps) Service {
	return &service{
		swipeRepo: deps.SwipeRepo,
		matchRepo: deps.MatchRepo,
		userRepo:  deps.UserRepo,
		notifier:  deps.Notifier,
	}
}

// Discover returns candidate profiles matching the user's preferences:
// right gender, inside the age window, within max distance when both sides
// have coordinates, and not previously swiped.
func (s *service) Discover(ctx context.Context, userID string, limit int) ([]domain.User, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	me, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	swiped := map[string]bool{userID: true}
	swipes, err := s.swipeRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, sw := range swipes {
		swiped[sw.TargetUserID] = true
	}

	candidates := make([]domain.User, 0, limit)
	cursor := ""
	for len(candidates) < limit {
		page, next, err := s.userRepo.ScanPage(ctx, 100, cursor)
		if err != nil {
			return nil, err
		}
		for _, c := range page {
			if len(candidates) >= limit {
				break
			}
			if swiped[c.UserID] || !s.acceptable(me, &c) {
				continue
			}
			c.PasswordHash = ""
			candidates = append(candidates, c)
		}
		if next == "" {
			break
		}
		cursor = next
	}
	return candidates, nil
}

func (s *service) acceptable(me, candidate *domain.User) bool {
	if !candidate.Enable {
		return false
	}
	if me.LookingFor != "" && me.LookingFor != "everyone" && candidate.Gender != me.LookingFor {
		return false
	}
	if candidate.Age != 0 && (candidate.Age < me.MinAge || candidate.Age > me.MaxAge) {
		return false
	}
	if me.CurrentLatitude != nil && me.CurrentLongitude != nil &&
		candidate.CurrentLatitude != nil && candidate.CurrentLongitude != nil &&
		me.MaxDistanceKM > 0 {
		dist := geo.DistanceKM(*me.CurrentLatitude, *me.CurrentLongitude,
			*candidate.CurrentLatitude, *candidate.CurrentLongitude)
		if dist > float64(me.MaxDistanceKM) {
			return false
		}
	}
	return true
}

// Swipe records the decision. A like against someone who already liked the
// swiper creates a match and notifies both members; a like without
// reciprocity notifies the target.
func (s *service) Swipe(ctx context.Context, userID, targetUserID string, liked bool) (*SwipeResult, error) {
	if userID == targetUserID {
		return nil, fmt.Errorf("cannot swipe on yourself: %w", domain.ErrBadRequest)
	}
	target, err := s.userRepo.Get(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if !target.Enable {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}

	now := time.Now().UTC()
	if err := s.swipeRepo.Put(ctx, &domain.Swipe{
		UserID:       userID,
		TargetUserID: targetUserID,
		Liked:        liked,
		CreatedAt:    now,
	}); err != nil {
		return nil, err
	}
	if !liked {
		return &SwipeResult{Matched: false}, nil
	}

	reverse, err := s.swipeRepo.Get(ctx, targetUserID, userID)
	if err != nil || !reverse.Liked {
		if err := s.notifier.NotifyLike(ctx, targetUserID, userID); err != nil {
			slog.Warn("failed to send like notification", "user_id", targetUserID, "err", err)
		}
		return &SwipeResult{Matched: false}, nil
	}

	m := &domain.Match{
		MatchID:   domain.MatchKey(userID, targetUserID),
		User1ID:   min(userID, targetUserID),
		User2ID:   max(userID, targetUserID),
		Active:    true,
		MatchedAt: now,
	}
	if err := s.matchRepo.Create(ctx, m); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Concurrent mutual-like already created the match.
			existing, getErr := s.matchRepo.Get(ctx, m.MatchID)
			if getErr != nil {
				return nil, getErr
			}
			return &SwipeResult{Matched: true, Match: existing}, nil
		}
		return nil, err
	}

	for _, member := range []string{userID, targetUserID} {
		if err := s.notifier.NotifyMatch(ctx, member, m.OtherUser(member)); err != nil {
			slog.Warn("failed to send match notification", "user_id", member, "err", err)
		}
	}
	return &SwipeResult{Matched: true, Match: m}, nil
}

// LikesReceived returns the profiles that liked the user and have not been
// swiped back yet.
func (s *service) LikesReceived(ctx context.Context, userID string) ([]domain.User, error) {
	likes, err := s.swipeRepo.ListLikesReceived(ctx, userID)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(likes))
	for _, like := range likes {
		if _, err := s.swipeRepo.Get(ctx, userID, like.UserID); err == nil {
			continue
		}
		u, err := s.userRepo.Get(ctx, like.UserID)
		if err != nil {
			continue
		}
		u.PasswordHash = ""
		users = append(users, *u)
	}
	return users, nil
}

// LikesSent returns the profiles the user has liked, most recent decisions
// included regardless of reciprocity.
func (s *service) LikesSent(ctx context.Context, userID string) ([]domain.User, error) {
	swipes, err := s.swipeRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(swipes))
	for _, sw := range swipes {
		if !sw.Liked {
			continue
		}
		u, err := s.userRepo.Get(ctx, sw.TargetUserID)
		if err != nil {
			continue
		}
		u.PasswordHash = ""
		users = append(users, *u)
	}
	return users, nil
}

// ResetSwipes removes every swipe made by or targeting the user and reports
// how many rows were deleted. Existing matches are left untouched.
func (s *service) ResetSwipes(ctx context.Context, userID string) (int, error) {
	return s.swipeRepo.DeleteByUser(ctx, userID)
}
