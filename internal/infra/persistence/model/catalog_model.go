package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryModel mirrors the 'categories' table.
type CategoryModel struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	Icon        string `gorm:"type:varchar(50)"`
	CreatedAt   time.Time

	SubCategories []SubCategoryModel `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (CategoryModel) TableName() string {
	return "categories"
}

// SubCategoryModel mirrors the 'subcategories' table.
type SubCategoryModel struct {
	ID         uint   `gorm:"primaryKey"`
	CategoryID uint   `gorm:"not null;index"`
	Name       string `gorm:"type:varchar(100);not null"`
}

// TableName explicitly sets the table name for GORM.
func (SubCategoryModel) TableName() string {
	return "subcategories"
}

// ProductModel mirrors the 'products' table. Money columns are numeric(10,2).
type ProductModel struct {
	ID             uint            `gorm:"primaryKey"`
	Name           string          `gorm:"type:varchar(200);not null;index"`
	Description    string          `gorm:"type:text"`
	Price          decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Stock          int             `gorm:"not null"`
	Image          string          `gorm:"type:varchar(255)"`
	IsFeatured     bool            `gorm:"not null;index"`
	IsPromotion    bool            `gorm:"not null;index"`
	PromotionPrice decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	CategoryID     uint            `gorm:"not null;index"`
	SubCategoryID  *uint           `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Category     *CategoryModel      `gorm:"foreignKey:CategoryID"`
	SubCategory  *SubCategoryModel   `gorm:"foreignKey:SubCategoryID;constraint:OnDelete:SET NULL"`
	PriceHistory []PriceHistoryModel `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

// PriceHistoryModel mirrors the 'price_history' table.
type PriceHistoryModel struct {
	ID        uint            `gorm:"primaryKey"`
	ProductID uint            `gorm:"not null;index"`
	OldPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	NewPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	ChangedAt time.Time       `gorm:"not null;index"`
}

// TableName explicitly sets the table name for GORM.
func (PriceHistoryModel) TableName() string {
	return "price_history"
}
