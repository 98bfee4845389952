package service

import (
	"context"
	"time"
)

// PaymentCreateRequest starts a gateway transaction.
type PaymentCreateRequest struct {
	BuyOrder  string
	SessionID string
	Amount    int64
	ReturnURL string
}

// PaymentCreateResponse holds the redirect data for the client.
type PaymentCreateResponse struct {
	Token string
	URL   string
}

// PaymentCommitResponse is the gateway outcome of a committed or queried transaction.
type PaymentCommitResponse struct {
	VCI                string
	Amount             int64
	Status             string
	BuyOrder           string
	SessionID          string
	CardNumber         string
	AccountingDate     string
	TransactionDate    *time.Time
	AuthorizationCode  string
	PaymentTypeCode    string
	ResponseCode       int
	InstallmentsNumber int
	Balance            int64
}

// Authorized reports whether the gateway approved the payment.
func (r *PaymentCommitResponse) Authorized() bool {
	return r.ResponseCode == 0 && r.Status == "AUTHORIZED"
}

// PaymentRefundResponse is the gateway outcome of a refund.
type PaymentRefundResponse struct {
	Type              string // REVERSED or NULLIFIED
	AuthorizationCode string
	AuthorizationDate *time.Time
	NullifiedAmount   int64
	Balance           int64
	ResponseCode      int
}

// PaymentGateway abstracts the card payment provider.
type PaymentGateway interface {
	Create(ctx context.Context, req *PaymentCreateRequest) (*PaymentCreateResponse, error)
	Commit(ctx context.Context, token string) (*PaymentCommitResponse, error)
	Status(ctx context.Context, token string) (*PaymentCommitResponse, error)
	Refund(ctx context.Context, token string, amount int64) (*PaymentRefundResponse, error)
}
