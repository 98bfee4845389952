package usecase

import (
	"context"

	"ferremas/internal/domain/entity"
	"ferremas/internal/domain/service"
)

// StartPaymentOutput tells the storefront where to send the buyer.
type StartPaymentOutput struct {
	URL      string
	Token    string
	OrderID  uint
	BuyOrder string
	Amount   int64
}

// PaymentReturnInput holds the fields Webpay posts back to the return URL.
type PaymentReturnInput struct {
	TokenWS        string // token_ws: set on a completed or rejected payment
	TBKToken       string // TBK_TOKEN: set when the buyer aborted
	TBKOrdenCompra string // TBK_ORDEN_COMPRA
	TBKIDSesion    string // TBK_ID_SESION
}

// PaymentReturnOutput is the outcome shown on the receipt page.
type PaymentReturnOutput struct {
	Result  entity.PaymentResult
	OrderID uint
}

// PaymentState is the stored state of one Webpay transaction.
type PaymentState struct {
	Transaction *entity.WebpayTransaction
	Order       *entity.Order
}

// PaymentReceiptInput carries the receipt redirect query and the caller, if any.
// UserID is zero for anonymous callers.
type PaymentReceiptInput struct {
	UserID  uint
	OrderID uint
	Status  string
}

// PaymentReceiptOutput summarizes a payment outcome. Order is only set for its owner.
type PaymentReceiptOutput struct {
	Status entity.PaymentResult
	Order  *entity.Order
}

// RefundOutput reports a gateway refund.
type RefundOutput struct {
	Order             *entity.Order
	Type              string
	AuthorizationCode string
	NullifiedAmount   int64
	Balance           int64
	ResponseCode      int
}

// CheckoutUsecase drives orders through Webpay Plus.
type CheckoutUsecase interface {
	StartPayment(ctx context.Context, userID uint) (*StartPaymentOutput, error)
	HandleReturn(ctx context.Context, input *PaymentReturnInput) (*PaymentReturnOutput, error)
	GetPayment(ctx context.Context, token string) (*PaymentState, error)
	PaymentReceipt(ctx context.Context, input *PaymentReceiptInput) (*PaymentReceiptOutput, error)

	GetOrder(ctx context.Context, userID, orderID uint) (*entity.Order, error)
	ListOrders(ctx context.Context, userID uint) ([]*entity.Order, error)
	PickupQR(ctx context.Context, userID, orderID uint) ([]byte, error)

	RefundOrder(ctx context.Context, orderID uint) (*RefundOutput, error)
	// TransactionStatus queries Webpay for the live status of a transaction.
	TransactionStatus(ctx context.Context, token string) (*service.PaymentCommitResponse, error)
}
