package stripeinfra

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// PaymentProvider creates and inspects payment intents.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, amountCents int64, currency, description string, metadata map[string]string) (*Intent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*Intent, error)
}

// Intent is the subset of a payment intent the application cares about.
type Intent struct {
	ID           string
	ClientSecret string
	AmountCents  int64
	Succeeded    bool
}

type stripeClient struct {
	api *client.API
}

func NewClient(secretKey string) PaymentProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &stripeClient{api: api}
}

func (c *stripeClient) CreateIntent(ctx context.Context, amountCents int64, currency, description string, metadata map[string]string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Params:      stripe.Params{Context: ctx, Metadata: metadata},
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return fromStripe(pi), nil
}

func (c *stripeClient) RetrieveIntent(ctx context.Context, intentID string) (*Intent, error) {
	pi, err := c.api.PaymentIntents.Get(intentID, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve payment intent: %w", err)
	}
	return fromStripe(pi), nil
}

func fromStripe(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		AmountCents:  pi.Amount,
		Succeeded:    pi.Status == stripe.PaymentIntentStatusSucceeded,
	}
}
