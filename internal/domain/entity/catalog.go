package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products at the top level of the catalog.
type Category struct {
	ID            uint
	Name          string
	Description   string
	Icon          string
	SubCategories []*SubCategory
	CreatedAt     time.Time
}

// SubCategory is a second-level grouping that always belongs to one Category.
type SubCategory struct {
	ID         uint
	CategoryID uint
	Name       string
}

// Product is a sellable catalog item. Prices are in CLP.
type Product struct {
	ID             uint
	Name           string
	Description    string
	Price          decimal.Decimal
	Stock          int
	Image          string
	IsFeatured     bool
	IsPromotion    bool
	PromotionPrice decimal.Decimal
	CategoryID     uint
	SubCategoryID  *uint
	Category       *Category
	SubCategory    *SubCategory
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EffectivePrice is the promotion price while a promotion with a positive price is active.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.IsPromotion && p.PromotionPrice.IsPositive() {
		return p.PromotionPrice
	}

	return p.Price
}

// HasStock reports whether quantity units are available.
func (p *Product) HasStock(quantity int) bool {
	return p.Stock >= quantity
}

// PriceHistory is an append-only record of a product price change.
type PriceHistory struct {
	ID        uint
	ProductID uint
	OldPrice  decimal.Decimal
	NewPrice  decimal.Decimal
	ChangedAt time.Time
}

// ProductFilter narrows product listings. Zero values mean "any".
type ProductFilter struct {
	CategoryID    uint
	SubCategoryID uint
	Featured      bool
	Promotion     bool
	Search        string
	Limit         int
}
