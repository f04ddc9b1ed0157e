package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/dating-api/internal/domain"
	stripeinfra "github.com/dating-api/internal/infrastructure/stripe"
	"github.com/dating-api/internal/pkg/id"
)

const currency = "eur"

// Plans available for purchase. Monthly price drops with longer commitment.
var plans = []domain.Plan{
	{ID: "1month", Duration: "1 month", DurationMonths: 1, PriceCents: 2999, MonthlyCents: 2999, SavingsCents: 0},
	{ID: "6months", Duration: "6 months", DurationMonths: 6, PriceCents: 11994, MonthlyCents: 1999, SavingsCents: 6000, Popular: true},
	{ID: "12months", Duration: "12 months", DurationMonths: 12, PriceCents: 17988, MonthlyCents: 1499, SavingsCents: 18000},
}

// CheckoutResult carries the client secret the app needs to finish the
// Stripe payment flow.
type CheckoutResult struct {
	SubscriptionID string `json:"subscription_id"`
	ClientSecret   string `json:"client_secret"`
	AmountCents    int64  `json:"amount_cents"`
}

type Service interface {
	Plans() []domain.Plan
	Checkout(ctx context.Context, userID, planID string) (*CheckoutResult, error)
	Confirm(ctx context.Context, userID, subscriptionID string) (*domain.Subscription, error)
	Cancel(ctx context.Context, userID, subscriptionID string) error
	Status(ctx context.Context, userID string) (*domain.Subscription, error)
	PaymentHistory(ctx context.Context, userID string) ([]domain.Payment, error)
}

type subscriptionStore interface {
	Put(ctx context.Context, s *domain.Subscription) error
	Get(ctx context.Context, subscriptionID string) (*domain.Subscription, error)
	GetActiveByUser(ctx context.Context, userID string) (*domain.Subscription, error)
	UpdateStatus(ctx context.Context, subscriptionID, status string) error
}

type paymentStore interface {
	Put(ctx context.Context, p *domain.Payment) error
	ListByUser(ctx context.Context, userID string) ([]domain.Payment, error)
}

type userStore interface {
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type service struct {
	subscriptionRepo subscriptionStore
	paymentRepo      paymentStore
	userRepo         userStore
	payments         stripeinfra.PaymentProvider
}

type ServiceDeps struct {
	SubscriptionRepo subscriptionStore
	PaymentRepo      paymentStore
	UserRepo         userStore
	Payments         stripeinfra.PaymentProvider
}

func NewService(deps ServiceDeps) Service {
	return &service{
		subscriptionRepo: deps.SubscriptionRepo,
		paymentRepo:      deps.PaymentRepo,
		userRepo:         deps.UserRepo,
		payments:         deps.Payments,
	}
}

func (s *service) Plans() []domain.Plan {
	out := make([]domain.Plan, len(plans))
	copy(out, plans)
	return out
}

func planByID(planID string) (*domain.Plan, bool) {
	for i := range plans {
		if plans[i].ID == planID {
			return &plans[i], true
		}
	}
	return nil, false
}

// Checkout creates a pending subscription and a Stripe payment intent for
// it. The subscription only becomes active after Confirm sees the intent
// succeed.
func (s *service) Checkout(ctx context.Context, userID, planID string) (*CheckoutResult, error) {
	plan, ok := planByID(planID)
	if !ok {
		return nil, fmt.Errorf("unknown plan %q: %w", planID, domain.ErrBadRequest)
	}
	if _, err := s.subscriptionRepo.GetActiveByUser(ctx, userID); err == nil {
		return nil, fmt.Errorf("active subscription already exists: %w", domain.ErrConflict)
	}

	subscriptionID := id.New()
	intent, err := s.payments.CreateIntent(ctx, plan.PriceCents, currency,
		fmt.Sprintf("Premium %s", plan.Duration),
		map[string]string{"user_id": userID, "subscription_id": subscriptionID, "plan_id": plan.ID},
	)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sub := &domain.Subscription{
		SubscriptionID:  subscriptionID,
		UserID:          userID,
		PlanID:          plan.ID,
		DurationMonths:  plan.DurationMonths,
		PriceCents:      plan.PriceCents,
		Status:          domain.SubscriptionPending,
		PaymentIntentID: intent.ID,
		ExpiresAt:       now.AddDate(0, plan.DurationMonths, 0),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.subscriptionRepo.Put(ctx, sub); err != nil {
		return nil, err
	}
	return &CheckoutResult{
		SubscriptionID: subscriptionID,
		ClientSecret:   intent.ClientSecret,
		AmountCents:    plan.PriceCents,
	}, nil
}

// Confirm checks the payment intent with Stripe and, on success, activates
// the subscription, records the payment, and flags the account premium.
func (s *service) Confirm(ctx context.Context, userID, subscriptionID string) (*domain.Subscription, error) {
	sub, err := s.subscriptionRepo.Get(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID {
		return nil, fmt.Errorf("subscription belongs to another user: %w", domain.ErrForbidden)
	}
	if sub.Status == domain.SubscriptionActive {
		return sub, nil
	}

	intent, err := s.payments.RetrieveIntent(ctx, sub.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if !intent.Succeeded {
		return nil, fmt.Errorf("payment not completed: %w", domain.ErrBadRequest)
	}

	if err := s.subscriptionRepo.UpdateStatus(ctx, subscriptionID, domain.SubscriptionActive); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	payment := &domain.Payment{
		PaymentID:      id.New(),
		UserID:         userID,
		SubscriptionID: subscriptionID,
		AmountCents:    intent.AmountCents,
		StripeID:       intent.ID,
		Status:         "succeeded",
		Method:         "card",
		CreatedAt:      now,
	}
	if err := s.paymentRepo.Put(ctx, payment); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{
		"is_premium":    true,
		"premium_until": sub.ExpiresAt.Format(time.RFC3339),
	}); err != nil {
		return nil, err
	}
	sub.Status = domain.SubscriptionActive
	return sub, nil
}

func (s *service) Cancel(ctx context.Context, userID, subscriptionID string) error {
	sub, err := s.subscriptionRepo.Get(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if sub.UserID != userID {
		return fmt.Errorf("subscription belongs to another user: %w", domain.ErrForbidden)
	}
	if sub.Status != domain.SubscriptionActive {
		return fmt.Errorf("subscription is not active: %w", domain.ErrBadRequest)
	}
	// Premium access runs until the paid period ends; only renewal stops.
	return s.subscriptionRepo.UpdateStatus(ctx, subscriptionID, domain.SubscriptionCancelled)
}

func (s *service) Status(ctx context.Context, userID string) (*domain.Subscription, error) {
	return s.subscriptionRepo.GetActiveByUser(ctx, userID)
}

func (s *service) PaymentHistory(ctx context.Context, userID string) ([]domain.Payment, error) {
	return s.paymentRepo.ListByUser(ctx, userID)
}
