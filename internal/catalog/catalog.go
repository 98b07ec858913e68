// Package catalog caches the backend's product list for the cashier grid.
// The cache is read-heavy and refreshed opportunistically: at startup, on
// demand, and after every successful checkout so decremented stock shows up.
package catalog

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/swiftretail/pos-terminal/internal/metrics"
	"github.com/swiftretail/pos-terminal/internal/models"
	"github.com/swiftretail/pos-terminal/pkg/backend"
)

type Service struct {
	client backend.Client

	mu          sync.RWMutex
	products    []models.Product
	lastRefresh time.Time
}

func NewService(client backend.Client) *Service {
	return &Service{client: client}
}

// Refresh replaces the cached list with a fresh fetch. Failures leave the
// previous cache in place; a stale grid beats an empty one.
func (s *Service) Refresh(ctx context.Context) error {

	products, err := s.client.ListProducts(ctx)
	if err != nil {
		metrics.CatalogRefresh(metrics.ResultFailure)
		slog.Warn("catalog refresh failed", slog.String("error", err.Error()))

		return err
	}

	s.mu.Lock()
	s.products = products
	s.lastRefresh = time.Now()
	s.mu.Unlock()

	metrics.CatalogRefresh(metrics.ResultSuccess)
	slog.Info("catalog refreshed", slog.Int("product_count", len(products)))

	return nil
}

// Products returns a copy of the cached list.
func (s *Service) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, len(s.products))
	copy(products, s.products)

	return products
}

func (s *Service) Get(productID string) (*models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.products {
		if s.products[i].ID == productID {
			product := s.products[i]

			return &product, true
		}
	}

	return nil, false
}

// Filter mirrors the cashier grid: an exact category match ("All" matches
// everything) combined with a case-insensitive name search.
func (s *Service) Filter(category, search string) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search = strings.ToLower(search)

	var matched []models.Product

	for _, product := range s.products {
		if category != "" && category != "All" && product.Category != category {
			continue
		}

		if search != "" && !strings.Contains(strings.ToLower(product.Name), search) {
			continue
		}

		matched = append(matched, product)
	}

	return matched
}

func (s *Service) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastRefresh
}
