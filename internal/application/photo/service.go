package photo

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dating-api/internal/domain"
	s3infra "github.com/dating-api/internal/infrastructure/s3"
	"github.com/dating-api/internal/pkg/id"
)

// MaxPhotos is the profile photo cap per user.
const MaxPhotos = 6

const presignTTL = 24 * time.Hour

const fieldPhotos = "photos"

type Service interface {
	Upload(ctx context.Context, userID, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, userID, photoURL string) error
	SignedURLs(ctx context.Context, userID string) ([]string, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	KeyFromURL(url string) string
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type service struct {
	store    objectStore
	userRepo userStore
}

type ServiceDeps struct {
	Store    objectStore
	UserRepo userStore
}

func NewService(deps ServiceDeps) Service {
	return &service{store: deps.Store, userRepo: deps.UserRepo}
}

// Upload stores a profile photo and appends it to the user's photo list.
// Only image files are accepted and the list is capped at MaxPhotos.
func (s *service) Upload(ctx context.Context, userID, filename string, r io.Reader) (string, error) {
	contentType, ok := s3infra.DetectImageContentType(filename)
	if !ok {
		return "", fmt.Errorf("unsupported image format: %w", domain.ErrBadRequest)
	}

	u, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(u.Photos) >= MaxPhotos {
		return "", fmt.Errorf("photo limit of %d reached: %w", MaxPhotos, domain.ErrBadRequest)
	}

	key := fmt.Sprintf("profile-photos/%s/%s-%s", userID, id.New(), filename)
	url, err := s.store.Upload(ctx, key, r, contentType)
	if err != nil {
		return "", err
	}

	photos := append(u.Photos, url)
	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{fieldPhotos: photos}); err != nil {
		return "", err
	}
	return url, nil
}

// Delete removes a photo from both S3 and the user's photo list.
func (s *service) Delete(ctx context.Context, userID, photoURL string) error {
	u, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	photos := make([]string, 0, len(u.Photos))
	found := false
	for _, p := range u.Photos {
		if p == photoURL {
			found = true
			continue
		}
		photos = append(photos, p)
	}
	if !found {
		return fmt.Errorf("photo not found: %w", domain.ErrNotFound)
	}
	if err := s.store.Delete(ctx, s.store.KeyFromURL(photoURL)); err != nil {
		return err
	}
	return s.userRepo.Update(ctx, userID, map[string]interface{}{fieldPhotos: photos})
}

// SignedURLs returns time-limited HTTPS URLs for the user's photos.
func (s *service) SignedURLs(ctx context.Context, userID string) ([]string, error) {
	u, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(u.Photos))
	for _, p := range u.Photos {
		signed, err := s.store.PresignedURL(ctx, s.store.KeyFromURL(p), presignTTL)
		if err != nil {
			return nil, err
		}
		urls = append(urls, signed)
	}
	return urls, nil
}
