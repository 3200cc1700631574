package cart

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSnapshot freezes the product data a cart line was built from. The
// cart never joins back to the catalog, so price changes after the fact do
// not move an already-assembled cart.
type ProductSnapshot struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ExtraSnapshot freezes a selected paid extra.
type ExtraSnapshot struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Line is one cart entry: a product, its chosen extras and an optional note.
type Line struct {
	Product  ProductSnapshot `json:"product"`
	Extras   []ExtraSnapshot `json:"extras,omitempty"`
	Note     string          `json:"note,omitempty"`
	Quantity int             `json:"quantity"`
}

// State is the persisted cart payload, keyed by an opaque client-held cart
// key. StoreSlug pins the cart to a single storefront.
type State struct {
	StoreSlug string `json:"store_slug,omitempty"`
	Lines     []Line `json:"lines"`
}

// Cart wraps a State with the aggregation rules. It is a plain value type so
// tests can build one without any persistence wiring.
type Cart struct {
	state *State
}

// New wraps the given state; a nil state starts an empty cart.
func New(state *State) *Cart {
	if state == nil {
		state = &State{}
	}
	if state.Lines == nil {
		state.Lines = []Line{}
	}
	return &Cart{state: state}
}

// State exposes the underlying state for persistence.
func (c *Cart) State() *State {
	return c.state
}

// AddItem merges into an equivalent existing line or appends a new one with
// quantity 1. Two lines are equivalent when they reference the same product,
// carry the same set of extras (order does not matter) and the same note.
func (c *Cart) AddItem(product ProductSnapshot, extras []ExtraSnapshot, note string) {
	for i := range c.state.Lines {
		line := &c.state.Lines[i]
		if line.Product.ID != product.ID {
			continue
		}
		if line.Note != note {
			continue
		}
		if !sameExtraSet(line.Extras, extras) {
			continue
		}
		line.Quantity++
		return
	}

	c.state.Lines = append(c.state.Lines, Line{
		Product:  product,
		Extras:   cloneExtras(extras),
		Note:     note,
		Quantity: 1,
	})
}

// SetQuantity sets the quantity on the first line matching the product id.
// A quantity of zero or less removes that line only.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) {
	for i := range c.state.Lines {
		if c.state.Lines[i].Product.ID != productID {
			continue
		}
		if quantity <= 0 {
			c.state.Lines = append(c.state.Lines[:i], c.state.Lines[i+1:]...)
			return
		}
		c.state.Lines[i].Quantity = quantity
		return
	}
}

// RemoveItem drops every line referencing the product id, regardless of
// extras or note.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	kept := c.state.Lines[:0]
	for _, line := range c.state.Lines {
		if line.Product.ID != productID {
			kept = append(kept, line)
		}
	}
	c.state.Lines = kept
}

// Clear empties the cart but keeps the tenant binding.
func (c *Cart) Clear() {
	c.state.Lines = []Line{}
}

// SetTenant binds the cart to a storefront slug. Switching to a different
// slug empties the cart; re-asserting the current slug is a no-op.
func (c *Cart) SetTenant(slug string) {
	if c.state.StoreSlug == slug {
		return
	}
	c.state.StoreSlug = slug
	c.state.Lines = []Line{}
}

// TotalItemCount sums line quantities.
func (c *Cart) TotalItemCount() int {
	total := 0
	for _, line := range c.state.Lines {
		total += line.Quantity
	}
	return total
}

// LineTotal computes (unit price + extras) × quantity for one line.
func LineTotal(line Line) decimal.Decimal {
	unit := line.Product.Price
	for _, extra := range line.Extras {
		unit = unit.Add(extra.Price)
	}
	return unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// ComputeTotal sums all line totals and adds the delivery fee exactly once.
// An empty cart totals to the fee alone.
func (c *Cart) ComputeTotal(deliveryFee decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.state.Lines {
		total = total.Add(LineTotal(line))
	}
	return total.Add(deliveryFee)
}

func sameExtraSet(a, b []ExtraSnapshot) bool {
	if len(a) != len(b) {
		return false
	}
	idsA := extraIDs(a)
	idsB := extraIDs(b)
	for i := range idsA {
		if idsA[i] != idsB[i] {
			return false
		}
	}
	return true
}

func extraIDs(extras []ExtraSnapshot) []string {
	ids := make([]string, 0, len(extras))
	for _, extra := range extras {
		ids = append(ids, extra.ID.String())
	}
	sort.Strings(ids)
	return ids
}

func cloneExtras(extras []ExtraSnapshot) []ExtraSnapshot {
	if len(extras) == 0 {
		return nil
	}
	cpy := make([]ExtraSnapshot, len(extras))
	copy(cpy, extras)
	return cpy
}
