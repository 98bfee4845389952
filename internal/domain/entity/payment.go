package entity

import (
	"fmt"
	"time"
)

// TransactionStatus tracks a Webpay transaction through its lifecycle.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
	TransactionStatusRefunded  TransactionStatus = "refunded"
)

// IsFinal reports whether a return callback can still change the status.
func (s TransactionStatus) IsFinal() bool {
	return s != TransactionStatusPending
}

// WebpayTransaction is the local record of one Webpay Plus payment attempt.
type WebpayTransaction struct {
	ID                uint
	OrderID           uint
	Token             string
	BuyOrder          string
	SessionID         string
	Amount            int64 // CLP, no decimals
	Status            TransactionStatus
	ResponseCode      *int
	AuthorizationCode string
	CardLastDigits    string
	PaymentTypeCode   string
	TransactionDate   *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// BuyOrderFor is the merchant buy order of an order. Webpay caps it at 26 characters.
func BuyOrderFor(orderID uint) string {
	return fmt.Sprintf("OC-%d", orderID)
}

// SessionIDFor is the Webpay session id of a user.
func SessionIDFor(userID uint) string {
	return fmt.Sprintf("%d", userID)
}

// PaymentResult is the outcome shown on the payment receipt page.
type PaymentResult string

const (
	PaymentResultSuccess   PaymentResult = "success"
	PaymentResultError     PaymentResult = "error"
	PaymentResultCancelled PaymentResult = "cancelled"
	PaymentResultPending   PaymentResult = "pending"
)
