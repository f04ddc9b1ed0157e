package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dating-api/internal/domain"
	"github.com/dating-api/internal/pkg/otp"
	"github.com/dating-api/internal/pkg/phone"
)

// InvalidCodeError reports a wrong-code submission along with how many
// attempts the caller has left before the code is dead.
type InvalidCodeError struct {
	AttemptsRemaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid verification code, %d attempts remaining", e.AttemptsRemaining)
}

func (e *InvalidCodeError) Unwrap() error { return domain.ErrCodeInvalid }

type Service interface {
	RequestCode(ctx context.Context, rawNumber, countryCode string) (string, error)
	CheckCode(ctx context.Context, rawNumber, countryCode, code string) (string, error)
	Countries() []phone.Country
	RunSweeper(ctx context.Context, interval time.Duration)
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.PhoneVerification) error
	Get(ctx context.Context, phone string) (*domain.PhoneVerification, error)
	IncrementAttempts(ctx context.Context, phone string) (int, error)
	SetMessageID(ctx context.Context, phone, messageID string) error
	Delete(ctx context.Context, phone string) error
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}

type accountStore interface {
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
}

type smsSender interface {
	Send(ctx context.Context, to, message string) (string, error)
}

type service struct {
	store       verificationStore
	accounts    accountStore
	sms         smsSender
	window      time.Duration
	maxAttempts int
}

type ServiceDeps struct {
	Store       verificationStore
	Accounts    accountStore
	SMS         smsSender
	Window      time.Duration
	MaxAttempts int
}

func NewService(deps ServiceDeps) Service {
	return &service{
		store:       deps.Store,
		accounts:    deps.Accounts,
		sms:         deps.SMS,
		window:      deps.Window,
		maxAttempts: deps.MaxAttempts,
	}
}

// RequestCode issues a fresh verification code for the phone number and
// dispatches it by SMS. Any prior pending code for the same number is
// discarded by the store upsert. Returns the canonical phone, never the code.
func (s *service) RequestCode(ctx context.Context, rawNumber, countryCode string) (string, error) {
	canonical, err := phone.Normalize(rawNumber, countryCode)
	if err != nil {
		return "", err
	}

	if _, err := s.accounts.GetByPhone(ctx, canonical); err == nil {
		return "", fmt.Errorf("phone number already registered: %w", domain.ErrAlreadyRegistered)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	if s.sms == nil {
		return "", fmt.Errorf("sms sender not configured: %w", domain.ErrDispatch)
	}

	code, err := otp.Generate()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	row := &domain.PhoneVerification{
		PhoneNumber: canonical,
		CountryCode: countryCode,
		Code:        code,
		Attempts:    0,
		MaxAttempts: s.maxAttempts,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.window).Unix(),
	}
	if err := s.store.Put(ctx, row); err != nil {
		return "", err
	}

	messageID, err := s.sms.Send(ctx, canonical, fmt.Sprintf("Your verification code is %s", code))
	if err != nil {
		// Roll back so the phone doesn't hold an undeliverable code.
		if delErr := s.store.Delete(ctx, canonical); delErr != nil {
			slog.Error("failed to roll back verification after sms failure", "phone", canonical, "err", delErr)
		}
		return "", fmt.Errorf("sms dispatch failed: %w", domain.ErrDispatch)
	}

	if err := s.store.SetMessageID(ctx, canonical, messageID); err != nil {
		slog.Warn("failed to record sms message id", "phone", canonical, "err", err)
	}

	return canonical, nil
}

// CheckCode validates a submitted code. Error precedence is fixed:
// expired beats exhausted beats wrong-code, so an expired code never
// reveals whether it would have matched. A successful check consumes
// the row; the same code cannot verify twice.
func (s *service) CheckCode(ctx context.Context, rawNumber, countryCode, code string) (string, error) {
	canonical, err := phone.Normalize(rawNumber, countryCode)
	if err != nil {
		return "", err
	}

	row, err := s.store.Get(ctx, canonical)
	if err != nil {
		return "", err
	}

	if row.Expired(time.Now().UTC()) {
		return "", fmt.Errorf("verification code expired: %w", domain.ErrCodeExpired)
	}
	if row.Exhausted() {
		return "", fmt.Errorf("attempt budget spent: %w", domain.ErrAttemptsExhausted)
	}

	if code != row.Code {
		attempts, err := s.store.IncrementAttempts(ctx, canonical)
		if err != nil {
			return "", err
		}
		remaining := row.MaxAttempts - attempts
		if remaining < 0 {
			remaining = 0
		}
		return "", &InvalidCodeError{AttemptsRemaining: remaining}
	}

	if err := s.store.Delete(ctx, canonical); err != nil {
		return "", err
	}
	return canonical, nil
}

func (s *service) Countries() []phone.Country {
	return phone.Countries()
}

// RunSweeper deletes expired verification rows on a fixed interval until
// the context is cancelled. Intended to run in its own goroutine.
func (s *service) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := s.store.SweepExpired(ctx, time.Now().UTC())
			if err != nil {
				slog.Error("verification sweep failed", "err", err)
				continue
			}
			if count > 0 {
				slog.Info("swept expired verification codes", "count", count)
			}
		}
	}
}
