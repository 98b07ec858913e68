// Package cart owns the terminal's in-memory order-in-progress: an ordered
// list of line items unique by product, the order-level discount, and the
// tax-inclusion flag. Mutations are pure state transitions that return an
// event descriptor; rendering the matching notification is the dispatcher's
// job, so the store stays testable without a UI harness.
package cart

import (
	"sync"

	"github.com/swiftretail/pos-terminal/internal/models"
	"github.com/swiftretail/pos-terminal/internal/pricing"
)

type EventKind string

const (
	EventNone        EventKind = ""
	EventItemAdded   EventKind = "item_added"
	EventItemRemoved EventKind = "item_removed"
	EventCleared     EventKind = "cleared"
)

// Event describes the notification a mutation should produce. A zero Event
// means the mutation was a silent no-op.
type Event struct {
	Kind      EventKind
	ProductID string
	Name      string
}

// Store is owned by a single cashier session. The mutex exists because
// checkout completion lands on a different goroutine than key handling;
// there is never more than one writer per session beyond that.
type Store struct {
	mu         sync.Mutex
	items      []models.LineItem
	discount   float64
	includeTax bool
}

func NewStore(includeTax bool) *Store {
	return &Store{includeTax: includeTax}
}

// AddItem merges the product into the cart. A repeat add only grows the
// existing line's quantity; the unit price frozen at first add is kept even
// when the product's discount rule has changed since.
func (s *Store) AddItem(product *models.Product) Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == product.ID {
			s.items[i].Quantity++

			return Event{Kind: EventItemAdded, ProductID: product.ID, Name: product.Name}
		}
	}

	s.items = append(s.items, models.LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: pricing.EffectivePrice(product),
		Quantity:  1,
	})

	return Event{Kind: EventItemAdded, ProductID: product.ID, Name: product.Name}
}

// RemoveItem deletes the matching line. Unknown product IDs are silent
// no-ops; stale UI events can legitimately target lines that are gone.
func (s *Store) RemoveItem(productID string) Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			name := s.items[i].Name
			s.items = append(s.items[:i], s.items[i+1:]...)

			return Event{Kind: EventItemRemoved, ProductID: productID, Name: name}
		}
	}

	return Event{}
}

func (s *Store) IncrementQuantity(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity++

			return
		}
	}
}

// DecrementQuantity lowers the line's quantity, removing the line entirely
// when it stands at one. A quantity of zero is never stored.
func (s *Store) DecrementQuantity(productID string) Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID != productID {
			continue
		}

		if s.items[i].Quantity > 1 {
			s.items[i].Quantity--

			return Event{}
		}

		name := s.items[i].Name
		s.items = append(s.items[:i], s.items[i+1:]...)

		return Event{Kind: EventItemRemoved, ProductID: productID, Name: name}
	}

	return Event{}
}

func (s *Store) ToggleTax() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.includeTax = !s.includeTax

	return s.includeTax
}

// SetDiscount replaces the order-level discount. The value is not checked
// against the subtotal; a discount may drive the total negative.
func (s *Store) SetDiscount(value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.discount = value
}

// Clear empties the cart and resets the discount. The tax preference is a
// session setting, not an order artifact, so it survives the clear.
func (s *Store) Clear() Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.discount = 0

	return Event{Kind: EventCleared}
}

// Snapshot returns a value copy safe to hand to the checkout flow.
func (s *Store) Snapshot() models.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]models.LineItem, len(s.items))
	copy(items, s.items)

	return models.CartSnapshot{
		Items:      items,
		Discount:   s.discount,
		IncludeTax: s.includeTax,
	}
}

// Totals recomputes the derived subtotal/tax/total from current state. Cheap
// enough to call on every render.
func (s *Store) Totals() pricing.Totals {
	snap := s.Snapshot()

	return pricing.ComputeTotals(snap.Items, snap.Discount, snap.IncludeTax)
}
