package cart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftretail/pos-terminal/internal/cart"
	"github.com/swiftretail/pos-terminal/internal/models"
)

func espresso() *models.Product {
	return &models.Product{ID: "p-espresso", Name: "Espresso", Price: 350, DiscountType: models.DiscountNone}
}

func burger() *models.Product {
	return &models.Product{
		ID:            "p-burger",
		Name:          "Deluxe Burger",
		Price:         550,
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
	}
}

func TestAddItem(t *testing.T) {

	t.Run("New Product Appends Line With Effective Price", func(t *testing.T) {
		s := cart.NewStore(true)

		ev := s.AddItem(burger())

		assert.Equal(t, cart.EventItemAdded, ev.Kind)
		assert.Equal(t, "Deluxe Burger", ev.Name)

		snap := s.Snapshot()
		require.Len(t, snap.Items, 1)
		assert.Equal(t, "p-burger", snap.Items[0].ProductID)
		assert.Equal(t, 1, snap.Items[0].Quantity)
		assert.InDelta(t, 495, snap.Items[0].UnitPrice, 1e-9)
	})

	t.Run("Repeat Add Increments Existing Line", func(t *testing.T) {
		s := cart.NewStore(true)
		s.AddItem(burger())
		s.AddItem(burger())
		s.AddItem(burger())

		snap := s.Snapshot()
		require.Len(t, snap.Items, 1)
		assert.Equal(t, 3, snap.Items[0].Quantity)
	})

	t.Run("Repeat Add Keeps Frozen Unit Price", func(t *testing.T) {
		s := cart.NewStore(true)
		p := burger()
		s.AddItem(p)

		// Discount rule changes mid-session; the line keeps its frozen price.
		p.DiscountValue = 50
		s.AddItem(p)

		snap := s.Snapshot()
		require.Len(t, snap.Items, 1)
		assert.Equal(t, 2, snap.Items[0].Quantity)
		assert.InDelta(t, 495, snap.Items[0].UnitPrice, 1e-9)
	})

	t.Run("Distinct Products Get Distinct Lines In Order", func(t *testing.T) {
		s := cart.NewStore(true)
		s.AddItem(espresso())
		s.AddItem(burger())
		s.AddItem(espresso())

		snap := s.Snapshot()
		require.Len(t, snap.Items, 2)
		assert.Equal(t, "p-espresso", snap.Items[0].ProductID)
		assert.Equal(t, 2, snap.Items[0].Quantity)
		assert.Equal(t, "p-burger", snap.Items[1].ProductID)
		assert.Equal(t, 1, snap.Items[1].Quantity)
	})
}

func TestRemoveItem(t *testing.T) {
	s := cart.NewStore(true)
	s.AddItem(espresso())
	s.AddItem(burger())

	t.Run("Removes Matching Line", func(t *testing.T) {
		ev := s.RemoveItem("p-espresso")

		assert.Equal(t, cart.EventItemRemoved, ev.Kind)
		assert.Equal(t, "Espresso", ev.Name)

		snap := s.Snapshot()
		require.Len(t, snap.Items, 1)
		assert.Equal(t, "p-burger", snap.Items[0].ProductID)
	})

	t.Run("Unknown Product Is A Silent No-Op", func(t *testing.T) {
		ev := s.RemoveItem("p-missing")

		assert.Equal(t, cart.EventNone, ev.Kind)
		assert.Len(t, s.Snapshot().Items, 1)
	})
}

func TestQuantityMutation(t *testing.T) {

	t.Run("Increment Grows Quantity", func(t *testing.T) {
		s := cart.NewStore(true)
		s.AddItem(espresso())

		s.IncrementQuantity("p-espresso")
		s.IncrementQuantity("p-espresso")

		assert.Equal(t, 3, s.Snapshot().Items[0].Quantity)
	})

	t.Run("Increment Unknown Product Is No-Op", func(t *testing.T) {
		s := cart.NewStore(true)
		s.AddItem(espresso())

		s.IncrementQuantity("p-missing")

		assert.Equal(t, 1, s.Snapshot().Items[0].Quantity)
	})

	t.Run("Decrement Above One Lowers Quantity", func(t *testing.T) {
		s := cart.NewStore(true)
		s.AddItem(espresso())
		s.IncrementQuantity("p-espresso")

		ev := s.DecrementQuantity("p-espresso")

		assert.Equal(t, cart.EventNone, ev.Kind)
		assert.Equal(t, 1, s.Snapshot().Items[0].Quantity)
	})

	t.Run("Decrement At One Removes The Line", func(t *testing.T) {
		s := cart.NewStore(true)
		s.AddItem(espresso())
		s.AddItem(burger())

		ev := s.DecrementQuantity("p-espresso")

		assert.Equal(t, cart.EventItemRemoved, ev.Kind)

		snap := s.Snapshot()
		require.Len(t, snap.Items, 1)
		assert.Equal(t, "p-burger", snap.Items[0].ProductID)
	})

	t.Run("Re-Add After Decrement Recomputes Price From Current Product", func(t *testing.T) {
		s := cart.NewStore(true)
		p := burger()
		s.AddItem(p)
		s.DecrementQuantity(p.ID)

		p.DiscountType = models.DiscountNone
		s.AddItem(p)

		snap := s.Snapshot()
		require.Len(t, snap.Items, 1)
		assert.Equal(t, 1, snap.Items[0].Quantity)
		assert.InDelta(t, 550, snap.Items[0].UnitPrice, 1e-9)
	})
}

func TestDiscountAndTax(t *testing.T) {

	t.Run("ToggleTax Flips The Flag", func(t *testing.T) {
		s := cart.NewStore(true)

		assert.False(t, s.ToggleTax())
		assert.True(t, s.ToggleTax())
	})

	t.Run("SetDiscount Replaces The Value", func(t *testing.T) {
		s := cart.NewStore(true)
		s.SetDiscount(120)

		assert.InDelta(t, 120, s.Snapshot().Discount, 1e-9)

		s.SetDiscount(0)
		assert.Zero(t, s.Snapshot().Discount)
	})

	t.Run("Totals Follow The Tax Flag", func(t *testing.T) {
		s := cart.NewStore(true)
		s.AddItem(burger())
		s.IncrementQuantity("p-burger")

		totals := s.Totals()
		assert.InDelta(t, 990, totals.Subtotal, 1e-9)
		assert.InDelta(t, 99, totals.Tax, 1e-9)
		assert.InDelta(t, 1089, totals.Total, 1e-9)

		s.ToggleTax()

		totals = s.Totals()
		assert.Zero(t, totals.Tax)
		assert.InDelta(t, 990, totals.Total, 1e-9)
	})
}

func TestClear(t *testing.T) {
	s := cart.NewStore(true)
	s.AddItem(espresso())
	s.SetDiscount(50)
	s.ToggleTax() // tax now off

	ev := s.Clear()

	assert.Equal(t, cart.EventCleared, ev.Kind)

	snap := s.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Zero(t, snap.Discount)
	assert.False(t, snap.IncludeTax, "tax preference survives a clear")
}

func TestSnapshotIsolation(t *testing.T) {
	s := cart.NewStore(true)
	s.AddItem(espresso())

	snap := s.Snapshot()
	snap.Items[0].Quantity = 99

	assert.Equal(t, 1, s.Snapshot().Items[0].Quantity, "snapshot mutation must not leak back")
}
