package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one product line in a user's cart. (UserID, ProductID) is unique.
type CartItem struct {
	ID        uint
	UserID    uint
	ProductID uint
	Quantity  int
	Product   *Product
	CreatedAt time.Time
}

// Subtotal is the effective unit price times quantity.
func (i *CartItem) Subtotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}

	return i.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the read model of a user's cart.
type Cart struct {
	UserID uint
	Items  []*CartItem
}

// Total sums the line subtotals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}

	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount sums the quantities of every line.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}

	return count
}
