// Package backend is the typed HTTP client for the remote POS service. All
// authentication, inventory mutation, and reporting aggregation happens on
// that side; this client only moves payloads across the wire and translates
// failures into AppErrors the terminal can surface.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/swiftretail/pos-terminal/internal/config"
	apperrors "github.com/swiftretail/pos-terminal/internal/errors"
	"github.com/swiftretail/pos-terminal/internal/models"
)

// Client defines the remote operations the terminal consumes. The order and
// product calls feed the cashier flow; the rest back the admin screens.
type Client interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	SetToken(token string)

	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error

	CreateOrder(ctx context.Context, req *models.OrderRequest, idempotencyKey string) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)

	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

type httpClient struct {
	http *http.Client
	cfg  config.Backend

	mu    sync.RWMutex
	token string
}

func New(cfg config.Backend) Client {
	return &httpClient{
		http: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cfg: cfg,
	}
}

// apiError is the backend's non-2xx body; its message is surfaced verbatim.
type apiError struct {
	Message string `json:"message"`
}

func (c *httpClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
}

func (c *httpClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.token
}

func (c *httpClient) do(ctx context.Context, method, path string, body, out any, headers map[string]string) error {

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.InternalError("Failed to encode request body").WithError(err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.Endpoint(path), reader)
	if err != nil {
		return apperrors.InternalError("Failed to build request").WithError(err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var urlErr *url.Error

		switch {
		case errors.Is(err, context.DeadlineExceeded),
			errors.As(err, &urlErr) && urlErr.Timeout():
			return apperrors.TimeoutError("The server took too long to respond").WithError(err)
		default:
			return apperrors.UnavailableError("Could not reach the server").WithError(err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var remote apiError

		if decodeErr := json.NewDecoder(resp.Body).Decode(&remote); decodeErr != nil || remote.Message == "" {
			remote.Message = fmt.Sprintf("Request failed with status %d", resp.StatusCode)
		}

		return apperrors.RemoteError(remote.Message, resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.InternalError("Failed to decode response body").WithError(err)
	}

	return nil
}

func (c *httpClient) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse

	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp, nil); err != nil {
		return nil, err
	}

	c.SetToken(resp.Token)

	return &resp, nil
}

func (c *httpClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product

	if err := c.do(ctx, http.MethodGet, "/products", nil, &products, nil); err != nil {
		return nil, err
	}

	return products, nil
}

func (c *httpClient) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	var product models.Product

	if err := c.do(ctx, http.MethodPost, "/products", req, &product, nil); err != nil {
		return nil, err
	}

	return &product, nil
}

func (c *httpClient) UpdateProduct(ctx context.Context, id string, req *models.UpdateProductRequest) (*models.Product, error) {
	var product models.Product

	if err := c.do(ctx, http.MethodPut, "/products/"+id, req, &product, nil); err != nil {
		return nil, err
	}

	return &product, nil
}

func (c *httpClient) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+id, nil, nil, nil)
}

func (c *httpClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category

	if err := c.do(ctx, http.MethodGet, "/categories", nil, &categories, nil); err != nil {
		return nil, err
	}

	return categories, nil
}

func (c *httpClient) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	var category models.Category

	if err := c.do(ctx, http.MethodPost, "/categories", req, &category, nil); err != nil {
		return nil, err
	}

	return &category, nil
}

func (c *httpClient) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/categories/"+id, nil, nil, nil)
}

func (c *httpClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User

	if err := c.do(ctx, http.MethodGet, "/users", nil, &users, nil); err != nil {
		return nil, err
	}

	return users, nil
}

func (c *httpClient) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	var user models.User

	if err := c.do(ctx, http.MethodPost, "/users", req, &user, nil); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *httpClient) UpdateUser(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error) {
	var user models.User

	if err := c.do(ctx, http.MethodPut, "/users/"+id, req, &user, nil); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *httpClient) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+id, nil, nil, nil)
}

// CreateOrder submits the checkout snapshot. The idempotency key covers one
// user-initiated attempt so an ambiguous transport failure cannot double-book
// the order on retry.
func (c *httpClient) CreateOrder(ctx context.Context, req *models.OrderRequest, idempotencyKey string) (*models.Order, error) {
	var order models.Order

	headers := map[string]string{"Idempotency-Key": idempotencyKey}

	if err := c.do(ctx, http.MethodPost, "/orders", req, &order, headers); err != nil {
		return nil, err
	}

	return &order, nil
}

func (c *httpClient) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order

	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders, nil); err != nil {
		return nil, err
	}

	return orders, nil
}

func (c *httpClient) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats

	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, &stats, nil); err != nil {
		return nil, err
	}

	return &stats, nil
}
