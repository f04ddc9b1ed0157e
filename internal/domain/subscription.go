package domain

import "time"

const (
	SubscriptionPending   = "pending"
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
)

type Subscription struct {
	SubscriptionID  string    `json:"id" dynamodbav:"subscription_id"`
	UserID          string    `json:"user_id" dynamodbav:"user_id"`
	PlanID          string    `json:"plan_type" dynamodbav:"plan_id"`
	DurationMonths  int       `json:"duration_months" dynamodbav:"duration_months"`
	PriceCents      int64     `json:"price_cents" dynamodbav:"price_cents"`
	Status          string    `json:"status" dynamodbav:"status"`
	PaymentIntentID string    `json:"stripe_payment_intent_id" dynamodbav:"payment_intent_id"`
	ExpiresAt       time.Time `json:"expires_at" dynamodbav:"expires_at"`
	CreatedAt       time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt       time.Time `json:"updated" dynamodbav:"updated_at"`
}

type Payment struct {
	PaymentID      string    `json:"id" dynamodbav:"payment_id"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	SubscriptionID string    `json:"subscription_id" dynamodbav:"subscription_id"`
	AmountCents    int64     `json:"amount_cents" dynamodbav:"amount_cents"`
	StripeID       string    `json:"stripe_payment_id" dynamodbav:"stripe_id"`
	Status         string    `json:"status" dynamodbav:"status"`
	Method         string    `json:"payment_method" dynamodbav:"method"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
}

// Plan is a fixed premium offering. Prices are EUR cents.
type Plan struct {
	ID             string `json:"id"`
	Duration       string `json:"duration"`
	DurationMonths int    `json:"duration_months"`
	PriceCents     int64  `json:"price_cents"`
	MonthlyCents   int64  `json:"monthly_price_cents"`
	SavingsCents   int64  `json:"savings_cents,omitempty"`
	Popular        bool   `json:"popular"`
}
