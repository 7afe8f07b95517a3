package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v80"

	"stagepass/internal/domain"
	"stagepass/internal/repos"
)

type CheckoutStage int

const (
	StageDetails CheckoutStage = iota
	StagePayment
)

var (
	ErrEmptyCart       = errors.New("checkout cannot proceed on an empty cart")
	ErrNotInPayment    = errors.New("checkout is not in the payment step")
	ErrConfirmInFlight = errors.New("a payment confirmation is already in flight")
	ErrPaymentFailed   = errors.New("payment failed")
)

// PaymentDeclinedError carries the provider's user-facing rejection message
// so it can be shown inline while the checkout stays in the payment step.
type PaymentDeclinedError struct{ Message string }

func (e *PaymentDeclinedError) Error() string { return e.Message }

type checkoutState struct {
	stage      CheckoutStage
	details    *domain.CustomerDetails
	intent     *PaymentIntent
	confirming bool
}

// CheckoutService drives the two-step flow per session: details, then
// payment. Customer details live only in memory for the checkout's duration;
// a success clears the cart and discards the state.
type CheckoutService struct {
	mu     sync.Mutex
	states map[string]*checkoutState

	Payments *PaymentService
	Carts    *CartManager
	Orders   *repos.OrderRepo
}

func NewCheckoutService(payments *PaymentService, carts *CartManager, orders *repos.OrderRepo) *CheckoutService {
	return &CheckoutService{
		states:   map[string]*checkoutState{},
		Payments: payments,
		Carts:    carts,
		Orders:   orders,
	}
}

func (s *CheckoutService) Stage(sid string) CheckoutStage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[sid]; ok {
		return st.stage
	}
	return StageDetails
}

// SubmitDetails captures validated customer details and enters the payment
// step, minting an intent from the current cart snapshot. An intent created
// earlier in this checkout is reused as-is; the cart may have drifted since,
// which is the accepted staleness of this flow.
func (s *CheckoutService) SubmitDetails(ctx context.Context, sid string, d domain.CustomerDetails) (*PaymentIntent, error) {
	cart := s.Carts.ForSession(sid)
	if cart.TotalItemCount() == 0 {
		return nil, ErrEmptyCart
	}

	s.mu.Lock()
	st, ok := s.states[sid]
	if !ok {
		st = &checkoutState{}
		s.states[sid] = st
	}
	st.details = &d
	existing := st.intent
	s.mu.Unlock()

	if existing != nil {
		s.mu.Lock()
		st.stage = StagePayment
		s.mu.Unlock()
		return existing, nil
	}

	items := make([]IntentItem, 0, len(cart.Lines()))
	for _, l := range cart.Lines() {
		items = append(items, IntentItem{ID: l.ProductID, Quantity: l.Quantity, Price: l.UnitPrice})
	}
	amountMinor := cart.Subtotal().Shift(2).Round(0).IntPart()

	intent, err := s.Payments.CreateIntent(ctx, items, amountMinor)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	st.intent = intent
	st.stage = StagePayment
	s.mu.Unlock()
	return intent, nil
}

// Back returns to the details step without discarding the created intent.
func (s *CheckoutService) Back(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[sid]; ok {
		st.stage = StageDetails
	}
}

// ConfirmPayment runs one confirmation attempt for the session's intent.
// Exactly one attempt may be in flight at a time; concurrent calls fail with
// ErrConfirmInFlight instead of queueing. Outcomes:
//
//   - provider rejection with a message  -> *PaymentDeclinedError, stay in payment
//   - intent status "succeeded"          -> order recorded, cart cleared, state gone
//   - any other status                   -> ErrPaymentFailed, stay in payment
func (s *CheckoutService) ConfirmPayment(ctx context.Context, sid string) (string, error) {
	s.mu.Lock()
	st, ok := s.states[sid]
	if !ok || st.stage != StagePayment || st.intent == nil || st.details == nil {
		s.mu.Unlock()
		return "", ErrNotInPayment
	}
	if st.confirming {
		s.mu.Unlock()
		return "", ErrConfirmInFlight
	}
	st.confirming = true
	intent := st.intent
	details := *st.details
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		st.confirming = false
		s.mu.Unlock()
	}()

	res, err := s.Payments.ConfirmStatus(ctx, intent.ClientSecret)
	if err != nil {
		return "", err
	}
	if res.Message != "" {
		return "", &PaymentDeclinedError{Message: res.Message}
	}
	if res.Status != string(stripe.PaymentIntentStatusSucceeded) {
		return "", ErrPaymentFailed
	}

	orderID := uuid.NewString()
	if err := s.Orders.Create(orderID, sid, details.FullName, details.Email, intent.AmountMinorUnits); err != nil {
		return "", err
	}

	s.Carts.ForSession(sid).Clear()
	s.mu.Lock()
	delete(s.states, sid)
	s.mu.Unlock()
	return orderID, nil
}
