package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v80"
	stripeclient "github.com/stripe/stripe-go/v80/client"
)

var (
	ErrInvalidAmount  = errors.New("amount must be a positive integer of minor units")
	ErrAmountMismatch = errors.New("amount does not match the cart items")
)

const demoSecretPrefix = "demo_secret_"

// IntentItem is the cart snapshot shape the intent endpoint accepts.
type IntentItem struct {
	ID       int64  `json:"id"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type PaymentIntent struct {
	ClientSecret     string `json:"clientSecret"`
	AmountMinorUnits int64  `json:"-"`
}

// ConfirmResult reports one confirmation attempt. A non-empty Message means
// the provider rejected the payment with a user-facing explanation.
type ConfirmResult struct {
	Status  string
	Message string
}

// PaymentService mints provider-hosted payment intents for cart snapshots.
// Without a secret key it runs in demo mode: intents get a recognizable fake
// secret and confirmation simulates a processing delay, then succeeds.
type PaymentService struct {
	sc *stripeclient.API // nil in demo mode

	// DemoDelay is the simulated processing time in demo mode.
	DemoDelay time.Duration
}

func NewPaymentService(secretKey string) *PaymentService {
	s := &PaymentService{DemoDelay: 1500 * time.Millisecond}
	if secretKey != "" {
		s.sc = &stripeclient.API{}
		s.sc.Init(secretKey, nil)
	}
	return s
}

func (s *PaymentService) DemoMode() bool { return s.sc == nil }

// CreateIntent validates the requested amount against the item snapshot and
// mints a new provider intent scoped to it. Each call mints a fresh intent;
// there is no idempotency across calls.
//
// The amount check tolerates minor-unit rounding (client-side float
// formatting) but rejects gross mismatches.
func (s *PaymentService) CreateIntent(ctx context.Context, items []IntentItem, amountMinor int64) (*PaymentIntent, error) {
	if amountMinor <= 0 {
		return nil, ErrInvalidAmount
	}

	expected := decimal.Zero
	for _, it := range items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid unit price %q for item %d", it.Price, it.ID)
		}
		expected = expected.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	expectedMinor := expected.Shift(2).Round(0).IntPart()

	tolerance := int64(len(items)) + 1 // one cent of rounding per line
	diff := amountMinor - expectedMinor
	if diff < 0 {
		diff = -diff
	}
	if diff > tolerance {
		return nil, fmt.Errorf("%w: got %d, items total %d", ErrAmountMismatch, amountMinor, expectedMinor)
	}

	if s.DemoMode() {
		return &PaymentIntent{
			ClientSecret:     demoSecretPrefix + uuid.NewString(),
			AmountMinorUnits: amountMinor,
		}, nil
	}

	pi, err := s.sc.PaymentIntents.New(&stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &PaymentIntent{ClientSecret: pi.ClientSecret, AmountMinorUnits: amountMinor}, nil
}

// ConfirmStatus reports the current status of the intent behind clientSecret.
// Demo secrets block for DemoDelay, then report success. Provider-side
// rejections come back as a result with a message rather than an error, so
// the caller can surface them inline and allow resubmission.
func (s *PaymentService) ConfirmStatus(ctx context.Context, clientSecret string) (ConfirmResult, error) {
	if s.DemoMode() || strings.HasPrefix(clientSecret, demoSecretPrefix) {
		select {
		case <-time.After(s.DemoDelay):
		case <-ctx.Done():
			return ConfirmResult{}, ctx.Err()
		}
		return ConfirmResult{Status: string(stripe.PaymentIntentStatusSucceeded)}, nil
	}

	id, _, ok := strings.Cut(clientSecret, "_secret")
	if !ok || id == "" {
		return ConfirmResult{}, fmt.Errorf("malformed client secret")
	}

	pi, err := s.sc.PaymentIntents.Get(id, &stripe.PaymentIntentParams{
		Params:       stripe.Params{Context: ctx},
		ClientSecret: stripe.String(clientSecret),
	})
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) {
			return ConfirmResult{Status: "error", Message: se.Msg}, nil
		}
		return ConfirmResult{}, fmt.Errorf("retrieve payment intent: %w", err)
	}
	return ConfirmResult{Status: string(pi.Status)}, nil
}
