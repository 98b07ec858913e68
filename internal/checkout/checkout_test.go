package checkout_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftretail/pos-terminal/internal/cart"
	"github.com/swiftretail/pos-terminal/internal/catalog"
	"github.com/swiftretail/pos-terminal/internal/checkout"
	apperrors "github.com/swiftretail/pos-terminal/internal/errors"
	"github.com/swiftretail/pos-terminal/internal/models"
	"github.com/swiftretail/pos-terminal/internal/session"
	"github.com/swiftretail/pos-terminal/internal/testutils"
)

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (r *recordingNotifier) Success(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, message)
}

func (r *recordingNotifier) Error(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, message)
}

func (r *recordingNotifier) lastError() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.errors) == 0 {
		return ""
	}

	return r.errors[len(r.errors)-1]
}

// fakeBackend serves POST /api/orders and GET /api/products with adjustable
// behavior and hit counters.
type fakeBackend struct {
	mu          sync.Mutex
	orderHits   int
	productHits int

	orderStatus  int
	orderMessage string
	orderDelay   time.Duration
	lastRequest  models.OrderRequest
	lastKey      string
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.orderHits++
		delay := f.orderDelay
		status := f.orderStatus
		message := f.orderMessage
		f.lastKey = r.Header.Get("Idempotency-Key")
		json.NewDecoder(r.Body).Decode(&f.lastRequest)
		req := f.lastRequest
		f.mu.Unlock()

		if delay > 0 {
			time.Sleep(delay)
		}

		if status != 0 {
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]string{"message": message})

			return
		}

		json.NewEncoder(w).Encode(models.Order{
			ID:            "ord-42",
			Items:         req.Items,
			Subtotal:      req.Subtotal,
			Tax:           req.Tax,
			Discount:      req.Discount,
			Total:         req.Total,
			PaymentMethod: req.PaymentMethod,
			CashierID:     models.CashierRef{ID: req.UserID, Name: "John Doe"},
			CreatedAt:     time.Now(),
		})
	})

	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.productHits++
		f.mu.Unlock()

		json.NewEncoder(w).Encode([]models.Product{{ID: "p-burger", Name: "Deluxe Burger", Price: 550, Stock: 7}})
	})

	return mux
}

func (f *fakeBackend) counts() (orders, products int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.orderHits, f.productHits
}

type fixture struct {
	cart     *cart.Store
	catalog  *catalog.Service
	service  *checkout.Service
	notifier *recordingNotifier
	backend  *fakeBackend
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	fake := &fakeBackend{}
	client := testutils.NewBackendClient(t, fake.handler())

	sess := session.New()
	sess.SignIn(models.User{ID: "u1", Name: "John Doe", Role: "cashier"})

	cartStore := cart.NewStore(true)
	catalogSvc := catalog.NewService(client)
	notifier := &recordingNotifier{}

	return &fixture{
		cart:     cartStore,
		catalog:  catalogSvc,
		service:  checkout.NewService(client, cartStore, catalogSvc, sess, notifier, time.Second),
		notifier: notifier,
		backend:  fake,
	}
}

func addBurger(f *fixture, times int) {
	p := &models.Product{ID: "p-burger", Name: "Deluxe Burger", Price: 550, DiscountType: models.DiscountPercentage, DiscountValue: 10}

	for range times {
		f.cart.AddItem(p)
	}
}

func TestSubmitPreconditions(t *testing.T) {

	t.Run("Empty Cart Rejected Before Any Network Call", func(t *testing.T) {
		f := newFixture(t)

		order, err := f.service.Submit(context.Background(), models.PaymentMethodCash)

		assert.Nil(t, order)
		require.Error(t, err)

		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeBadRequest, appErr.Code)

		orders, _ := f.backend.counts()
		assert.Zero(t, orders)
	})

	t.Run("No Signed-In Cashier Rejected", func(t *testing.T) {
		f := newFixture(t)
		addBurger(f, 1)

		sess := session.New() // nobody signed in
		svc := checkout.NewService(testutils.NewBackendClient(t, f.backend.handler()), f.cart, f.catalog, sess, f.notifier, time.Second)

		_, err := svc.Submit(context.Background(), models.PaymentMethodCash)

		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeUnauthorized, appErr.Code)
	})

	t.Run("Re-Entrant Submission Rejected While In Flight", func(t *testing.T) {
		f := newFixture(t)
		f.backend.orderDelay = 150 * time.Millisecond
		addBurger(f, 1)

		var wg sync.WaitGroup
		wg.Add(1)

		go func() {
			defer wg.Done()
			_, err := f.service.Submit(context.Background(), models.PaymentMethodCash)
			assert.NoError(t, err)
		}()

		assert.Eventually(t, f.service.Submitting, time.Second, 5*time.Millisecond)

		_, err := f.service.Submit(context.Background(), models.PaymentMethodCash)
		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodePrecondition, appErr.Code)

		wg.Wait()

		orders, _ := f.backend.counts()
		assert.Equal(t, 1, orders, "only one POST per user-initiated checkout")
	})
}

func TestSubmitSuccess(t *testing.T) {
	f := newFixture(t)
	addBurger(f, 2)
	f.cart.SetDiscount(0)

	order, err := f.service.Submit(context.Background(), models.PaymentMethodCash)
	require.NoError(t, err)
	require.NotNil(t, order)

	t.Run("Payload Snapshot Matches Cart And Pricing", func(t *testing.T) {
		req := f.backend.lastRequest

		require.Len(t, req.Items, 1)
		assert.Equal(t, "p-burger", req.Items[0].ProductID)
		assert.Equal(t, 2, req.Items[0].Quantity)
		assert.InDelta(t, 495, req.Items[0].Price, 1e-9)
		assert.InDelta(t, 990, req.Subtotal, 1e-9)
		assert.InDelta(t, 99, req.Tax, 1e-9)
		assert.InDelta(t, 1089, req.Total, 1e-9)
		assert.Equal(t, models.PaymentMethodCash, req.PaymentMethod)
		assert.Equal(t, "u1", req.UserID)
		assert.NotEmpty(t, f.backend.lastKey)
	})

	t.Run("Cart Cleared", func(t *testing.T) {
		snap := f.cart.Snapshot()

		assert.Empty(t, snap.Items)
		assert.Zero(t, snap.Discount)
		assert.True(t, snap.IncludeTax, "tax preference survives checkout")
	})

	t.Run("Catalog Refresh Issued Exactly Once", func(t *testing.T) {
		assert.Eventually(t, func() bool {
			_, products := f.backend.counts()

			return products == 1
		}, time.Second, 5*time.Millisecond)

		// Give a stray second refresh a chance to land.
		time.Sleep(50 * time.Millisecond)

		_, products := f.backend.counts()
		assert.Equal(t, 1, products)
	})

	t.Run("Receipt And Notification", func(t *testing.T) {
		require.NotNil(t, f.service.LastOrder())
		assert.Equal(t, "ord-42", f.service.LastOrder().ID)
		assert.Contains(t, f.notifier.successes, "Order created successfully")
		assert.False(t, f.service.Submitting())
	})
}

func TestSubmitFailure(t *testing.T) {
	f := newFixture(t)
	f.backend.orderStatus = http.StatusBadRequest
	f.backend.orderMessage = "Insufficient stock for Deluxe Burger"

	addBurger(f, 2)
	f.cart.SetDiscount(100)
	f.cart.ToggleTax() // tax off

	before := f.cart.Snapshot()

	order, err := f.service.Submit(context.Background(), models.PaymentMethodCard)

	assert.Nil(t, order)
	require.Error(t, err)

	t.Run("Cart Preserved For Retry", func(t *testing.T) {
		after := f.cart.Snapshot()

		assert.Equal(t, before.Items, after.Items)
		assert.Equal(t, before.Discount, after.Discount)
		assert.Equal(t, before.IncludeTax, after.IncludeTax)
	})

	t.Run("Backend Message Surfaced Verbatim", func(t *testing.T) {
		assert.Equal(t, "Insufficient stock for Deluxe Burger", f.notifier.lastError())
	})

	t.Run("No Catalog Refresh On Failure", func(t *testing.T) {
		time.Sleep(50 * time.Millisecond)

		_, products := f.backend.counts()
		assert.Zero(t, products)
	})

	t.Run("Retry Possible Immediately", func(t *testing.T) {
		assert.False(t, f.service.Submitting())

		f.backend.mu.Lock()
		f.backend.orderStatus = 0
		f.backend.mu.Unlock()

		retried, err := f.service.Submit(context.Background(), models.PaymentMethodCard)
		require.NoError(t, err)
		assert.Equal(t, "ord-42", retried.ID)
		assert.Empty(t, f.cart.Snapshot().Items)
	})
}

func TestSubmitTimeout(t *testing.T) {
	f := newFixture(t)
	f.backend.orderDelay = 300 * time.Millisecond
	addBurger(f, 1)

	svc := checkout.NewService(testutils.NewBackendClient(t, f.backend.handler()), f.cart, f.catalog, sessionWithUser(), f.notifier, 30*time.Millisecond)

	_, err := svc.Submit(context.Background(), models.PaymentMethodCash)
	require.Error(t, err)

	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeTimeout, appErr.Code)
	assert.NotEmpty(t, f.cart.Snapshot().Items, "cart preserved on timeout")
}

func TestSubmitDetachedFromCallerCancellation(t *testing.T) {
	f := newFixture(t)
	f.backend.orderDelay = 100 * time.Millisecond
	addBurger(f, 1)

	// The caller's context is cancelled right away, simulating the checkout
	// screen being dismissed; the in-flight request must still complete and
	// its success still clears the cart.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	order, err := f.service.Submit(ctx, models.PaymentMethodCash)
	require.NoError(t, err)
	assert.Equal(t, "ord-42", order.ID)
	assert.Empty(t, f.cart.Snapshot().Items)
}

func sessionWithUser() *session.Session {
	sess := session.New()
	sess.SignIn(models.User{ID: "u1", Name: "John Doe", Role: "cashier"})

	return sess
}
