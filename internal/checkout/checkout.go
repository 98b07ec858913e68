// Package checkout drives the order transaction: snapshot the cart, submit
// it once, and reconcile the cart with the outcome. Success clears the cart
// and kicks a stock refresh; failure leaves everything in place so the
// cashier can correct and resubmit.
package checkout

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/swiftretail/pos-terminal/internal/cart"
	"github.com/swiftretail/pos-terminal/internal/catalog"
	apperrors "github.com/swiftretail/pos-terminal/internal/errors"
	"github.com/swiftretail/pos-terminal/internal/metrics"
	"github.com/swiftretail/pos-terminal/internal/models"
	"github.com/swiftretail/pos-terminal/internal/notify"
	"github.com/swiftretail/pos-terminal/internal/pricing"
	"github.com/swiftretail/pos-terminal/internal/session"
	"github.com/swiftretail/pos-terminal/pkg/backend"
)

type Service struct {
	client   backend.Client
	cart     *cart.Store
	catalog  *catalog.Service
	session  *session.Session
	notifier notify.Notifier
	validate *validator.Validate
	timeout  time.Duration

	mu         sync.Mutex
	submitting bool
	lastOrder  *models.Order
}

func NewService(client backend.Client, cartStore *cart.Store, catalogSvc *catalog.Service, sess *session.Session, notifier notify.Notifier, timeout time.Duration) *Service {
	return &Service{
		client:   client,
		cart:     cartStore,
		catalog:  catalogSvc,
		session:  sess,
		notifier: notifier,
		validate: validator.New(),
		timeout:  timeout,
	}
}

// Submitting reports whether a submission is in flight; the UI uses it to
// disable the pay action.
func (s *Service) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.submitting
}

// LastOrder returns the most recent successful order for receipt display.
func (s *Service) LastOrder() *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastOrder
}

// Submit runs one checkout attempt. Single-flight: a second call while one
// is in flight is rejected before any network traffic. Exactly one POST is
// made per call; there are no automatic retries.
//
// The submission deliberately detaches from the caller's cancellation:
// dismissing the checkout screen must not orphan a request the backend may
// already be processing, so an in-flight attempt always runs to its own
// timeout and its outcome is applied to the cart regardless.
func (s *Service) Submit(ctx context.Context, method models.PaymentMethod) (*models.Order, error) {

	s.mu.Lock()

	if s.submitting {
		s.mu.Unlock()

		return nil, apperrors.PreconditionError("A checkout is already in progress")
	}

	snapshot := s.cart.Snapshot()

	if snapshot.Empty() {
		s.mu.Unlock()

		return nil, apperrors.BadRequestError("Cannot checkout with an empty cart")
	}

	userID := s.session.UserID()
	if userID == "" {
		s.mu.Unlock()

		return nil, apperrors.UnauthorizedError("No cashier is signed in")
	}

	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	req := buildOrderRequest(snapshot, method, userID)

	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.ValidationError("Order payload is invalid").WithError(err)
	}

	submitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	start := time.Now()
	idempotencyKey := uuid.NewString()

	order, err := s.client.CreateOrder(submitCtx, req, idempotencyKey)
	if err != nil {
		metrics.ObserveCheckout(metrics.ResultFailure, time.Since(start))
		slog.Warn("order submission failed",
			slog.String("idempotency_key", idempotencyKey),
			slog.String("error", err.Error()))

		s.notifier.Error(failureMessage(err))

		return nil, err
	}

	metrics.ObserveCheckout(metrics.ResultSuccess, time.Since(start))
	slog.Info("order created",
		slog.String("order_id", order.ID),
		slog.String("payment_method", string(method)),
		slog.Float64("total", order.Total))

	s.cart.Clear()

	s.mu.Lock()
	s.lastOrder = order
	s.mu.Unlock()

	s.notifier.Success("Order created successfully")

	// Fire-and-forget stock refresh; a failed refresh only means the grid
	// shows slightly stale counts until the next one.
	go func() {
		refreshCtx, refreshCancel := context.WithTimeout(context.Background(), s.timeout)
		defer refreshCancel()

		_ = s.catalog.Refresh(refreshCtx)
	}()

	return order, nil
}

func buildOrderRequest(snapshot models.CartSnapshot, method models.PaymentMethod, userID string) *models.OrderRequest {

	totals := pricing.ComputeTotals(snapshot.Items, snapshot.Discount, snapshot.IncludeTax)

	items := make([]models.OrderItem, 0, len(snapshot.Items))

	for _, line := range snapshot.Items {
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
		})
	}

	return &models.OrderRequest{
		Items:         items,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Discount:      snapshot.Discount,
		Total:         totals.Total,
		PaymentMethod: method,
		UserID:        userID,
	}
}

func failureMessage(err error) string {
	if appErr, ok := apperrors.IsAppError(err); ok {
		return appErr.Message
	}

	return "Failed to create order"
}
