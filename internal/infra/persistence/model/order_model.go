package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderModel mirrors the 'orders' table.
type OrderModel struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"not null;index"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Status      string          `gorm:"type:varchar(20);not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	User  *UserModel       `gorm:"foreignKey:UserID"`
	Items []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table.
type OrderItemModel struct {
	ID          uint            `gorm:"primaryKey"`
	OrderID     uint            `gorm:"not null;index"`
	ProductID   uint            `gorm:"not null;index"`
	Quantity    int             `gorm:"not null"`
	PriceAtTime decimal.Decimal `gorm:"type:numeric(10,2);not null"`

	Product *ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}

// WebpayTransactionModel mirrors the 'webpay_transactions' table.
// Token stays NULL until the gateway assigns one.
type WebpayTransactionModel struct {
	ID                uint    `gorm:"primaryKey"`
	OrderID           uint    `gorm:"not null;index"`
	Token             *string `gorm:"type:varchar(100);uniqueIndex"`
	BuyOrder          string  `gorm:"type:varchar(26);not null;index"`
	SessionID         string  `gorm:"type:varchar(61);not null"`
	Amount            int64   `gorm:"not null"`
	Status            string  `gorm:"type:varchar(20);not null;index"`
	ResponseCode      *int
	AuthorizationCode string `gorm:"type:varchar(20)"`
	CardLastDigits    string `gorm:"type:varchar(4)"`
	PaymentTypeCode   string `gorm:"type:varchar(4)"`
	TransactionDate   *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Order *OrderModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (WebpayTransactionModel) TableName() string {
	return "webpay_transactions"
}
