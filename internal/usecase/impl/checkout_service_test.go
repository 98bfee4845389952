package impl

import (
	"context"
	"testing"
	"time"

	"ferremas/internal/domain/entity"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/domain/service"
	"ferremas/internal/errors"
	"ferremas/internal/infra/qrcode"
	mocks "ferremas/internal/mocks/service"
	"ferremas/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	repos     *testRepos
	gateway   *mocks.MockPaymentGateway
	publisher *mocks.MockEventPublisher
	srv       usecase.CheckoutUsecase

	user    *entity.User
	hammer  *entity.Product
	drill   *entity.Product
	product func(id uint) *entity.Product
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	repos := newTestRepos(t)
	gateway := mocks.NewMockPaymentGateway(t)
	publisher := mocks.NewMockEventPublisher(t)

	srv := NewCheckoutService(CheckoutServiceParams{
		TxManager:   repos.tx,
		CartRepo:    repos.carts,
		OrderRepo:   repos.orders,
		PaymentRepo: repos.payments,
		Gateway:     gateway,
		Publisher:   publisher,
		QRService:   qrcode.NewQRCodeService(128, "M"),
		Config:      testConfig(),
		Logger:      discardLogger(),
	})

	f := &checkoutFixture{repos: repos, gateway: gateway, publisher: publisher, srv: srv}
	f.user = repos.user(t, "juan", "juan@ferremas.cl")
	tools := repos.category(t, "Herramientas")
	f.hammer = repos.product(t, tools.ID, "Martillo", 8990, 10)
	f.drill = repos.product(t, tools.ID, "Taladro", 45990, 3)
	f.drill.IsPromotion = true
	f.drill.PromotionPrice = decimal.RequireFromString("39990.50")
	require.NoError(t, repos.products.Update(context.Background(), f.drill))
	f.product = func(id uint) *entity.Product {
		p, err := repos.products.FindByID(context.Background(), id)
		require.NoError(t, err)

		return p
	}

	return f
}

// startPayment fills the cart and opens a Webpay transaction with token.
func (f *checkoutFixture) startPayment(t *testing.T, token string) *usecase.StartPaymentOutput {
	t.Helper()

	f.repos.cartLine(t, f.user.ID, f.hammer.ID, 2)
	f.repos.cartLine(t, f.user.ID, f.drill.ID, 1)

	f.gateway.EXPECT().Create(mock.Anything, mock.Anything).
		Return(&service.PaymentCreateResponse{Token: token, URL: "https://webpay3gint.transbank.cl/webpayserver/initTransaction"}, nil).Once()

	out, err := f.srv.StartPayment(context.Background(), f.user.ID)
	require.NoError(t, err)

	return out
}

func (f *checkoutFixture) state(t *testing.T, token string) *usecase.PaymentState {
	t.Helper()

	state, err := f.srv.GetPayment(context.Background(), token)
	require.NoError(t, err)

	return state
}

func (f *checkoutFixture) cart(t *testing.T) *entity.Cart {
	t.Helper()

	items, err := f.repos.carts.ListByUser(context.Background(), f.user.ID)
	require.NoError(t, err)

	return &entity.Cart{UserID: f.user.ID, Items: items}
}

func authorizedCommit(amount int64) *service.PaymentCommitResponse {
	when := time.Date(2024, 5, 8, 15, 4, 5, 0, time.UTC)

	return &service.PaymentCommitResponse{
		VCI:               "TSY",
		Amount:            amount,
		Status:            "AUTHORIZED",
		CardNumber:        "6623",
		AuthorizationCode: "1213",
		PaymentTypeCode:   "VD",
		ResponseCode:      0,
		TransactionDate:   &when,
	}
}

func TestCheckoutService_StartPayment(t *testing.T) {
	f := newCheckoutFixture(t)
	f.repos.cartLine(t, f.user.ID, f.hammer.ID, 2)
	f.repos.cartLine(t, f.user.ID, f.drill.ID, 1)

	var req *service.PaymentCreateRequest
	f.gateway.EXPECT().Create(mock.Anything, mock.Anything).
		Run(func(_ context.Context, r *service.PaymentCreateRequest) { req = r }).
		Return(&service.PaymentCreateResponse{Token: "tok-1", URL: "https://webpay/form"}, nil)

	out, err := f.srv.StartPayment(context.Background(), f.user.ID)
	require.NoError(t, err)

	// 2 x 8990 + 39990.50, truncated to whole pesos.
	assert.Equal(t, int64(57970), out.Amount)
	assert.Equal(t, "https://webpay/form", out.URL)
	assert.Equal(t, "tok-1", out.Token)
	assert.Equal(t, entity.BuyOrderFor(out.OrderID), out.BuyOrder)

	require.NotNil(t, req)
	assert.Equal(t, out.BuyOrder, req.BuyOrder)
	assert.Equal(t, entity.SessionIDFor(f.user.ID), req.SessionID)
	assert.Equal(t, "http://localhost:5000/retorno-webpay", req.ReturnURL)

	state := f.state(t, "tok-1")
	assert.Equal(t, entity.TransactionStatusPending, state.Transaction.Status)
	assert.Equal(t, entity.OrderStatusPending, state.Order.Status)
	assert.True(t, decimal.RequireFromString("57970.50").Equal(state.Order.TotalAmount))
	require.Len(t, state.Order.Items, 2)
	assert.True(t, decimal.RequireFromString("39990.50").Equal(state.Order.Items[1].PriceAtTime))

	assert.True(t, f.cart(t).IsEmpty(), "cart is cleared once a token is issued")
}

func TestCheckoutService_StartPaymentRejects(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.srv.StartPayment(context.Background(), f.user.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrCartEmpty))

	line := f.repos.cartLine(t, f.user.ID, f.drill.ID, 1)
	require.NoError(t, f.repos.carts.UpdateQuantity(context.Background(), line.ID, 4))

	_, err = f.srv.StartPayment(context.Background(), f.user.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientStock))
}

func TestCheckoutService_StartPaymentGatewayFailure(t *testing.T) {
	f := newCheckoutFixture(t)
	f.repos.cartLine(t, f.user.ID, f.hammer.ID, 1)

	f.gateway.EXPECT().Create(mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := f.srv.StartPayment(context.Background(), f.user.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrPaymentGatewayFailed))

	orders, err := f.srv.ListOrders(context.Background(), f.user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, entity.OrderStatusFailed, orders[0].Status)

	payment, err := f.repos.payments.FindLatestByOrder(context.Background(), orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusFailed, payment.Status)

	assert.Len(t, f.cart(t).Items, 1, "cart is kept")
}

func TestCheckoutService_StartPaymentTokenNotStored(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	f.startPayment(t, "tok-taken")

	// Webpay handing out a token that is already stored makes the update fail.
	f.repos.cartLine(t, f.user.ID, f.hammer.ID, 1)
	f.gateway.EXPECT().Create(mock.Anything, mock.Anything).
		Return(&service.PaymentCreateResponse{Token: "tok-taken", URL: "https://webpay/form"}, nil).Once()

	_, err := f.srv.StartPayment(ctx, f.user.ID)
	require.Error(t, err)

	orders, err := f.srv.ListOrders(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	var failed *entity.Order
	for _, o := range orders {
		if o.Status == entity.OrderStatusFailed {
			failed = o
		}
	}
	require.NotNil(t, failed, "order is settled instead of left pending")

	payment, err := f.repos.payments.FindLatestByOrder(ctx, failed.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionStatusFailed, payment.Status)
	assert.Empty(t, payment.Token)

	assert.Len(t, f.cart(t).Items, 1, "cart is kept")
	assert.Equal(t, entity.TransactionStatusPending, f.state(t, "tok-taken").Transaction.Status)
}

func TestCheckoutService_ReturnAuthorized(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	started := f.startPayment(t, "tok-ok")

	f.gateway.EXPECT().Commit(mock.Anything, "tok-ok").Return(authorizedCommit(started.Amount), nil).Once()

	var event *service.OrderPaidEvent
	f.publisher.EXPECT().PublishOrderPaid(mock.Anything, mock.Anything).
		Run(func(_ context.Context, e *service.OrderPaidEvent) { event = e }).
		Return(nil).Once()

	out, err := f.srv.HandleReturn(ctx, &usecase.PaymentReturnInput{TokenWS: "tok-ok"})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentResultSuccess, out.Result)
	assert.Equal(t, started.OrderID, out.OrderID)

	state := f.state(t, "tok-ok")
	assert.Equal(t, entity.TransactionStatusCompleted, state.Transaction.Status)
	assert.Equal(t, entity.OrderStatusCompleted, state.Order.Status)
	assert.Equal(t, "1213", state.Transaction.AuthorizationCode)
	assert.Equal(t, "6623", state.Transaction.CardLastDigits)
	require.NotNil(t, state.Transaction.ResponseCode)
	assert.Equal(t, 0, *state.Transaction.ResponseCode)

	assert.Equal(t, 8, f.product(f.hammer.ID).Stock)
	assert.Equal(t, 2, f.product(f.drill.ID).Stock)

	require.NotNil(t, event)
	assert.Equal(t, started.OrderID, event.OrderID)
	assert.Equal(t, f.user.ID, event.UserID)
	assert.Equal(t, started.BuyOrder, event.BuyOrder)

	again, err := f.srv.HandleReturn(ctx, &usecase.PaymentReturnInput{TokenWS: "tok-ok"})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentResultSuccess, again.Result, "settled transaction is not committed twice")
	assert.Equal(t, 8, f.product(f.hammer.ID).Stock)
}

func TestCheckoutService_ReturnRejected(t *testing.T) {
	f := newCheckoutFixture(t)
	started := f.startPayment(t, "tok-rejected")

	rejected := authorizedCommit(started.Amount)
	rejected.Status = "FAILED"
	rejected.ResponseCode = -1
	f.gateway.EXPECT().Commit(mock.Anything, "tok-rejected").Return(rejected, nil)

	out, err := f.srv.HandleReturn(context.Background(), &usecase.PaymentReturnInput{TokenWS: "tok-rejected"})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentResultError, out.Result)

	state := f.state(t, "tok-rejected")
	assert.Equal(t, entity.TransactionStatusFailed, state.Transaction.Status)
	assert.Equal(t, entity.OrderStatusFailed, state.Order.Status)
	require.NotNil(t, state.Transaction.ResponseCode)
	assert.Equal(t, -1, *state.Transaction.ResponseCode)
	assert.Equal(t, 10, f.product(f.hammer.ID).Stock)
}

func TestCheckoutService_ReturnCommitErrorLeavesStateUntouched(t *testing.T) {
	f := newCheckoutFixture(t)
	f.startPayment(t, "tok-err")

	f.gateway.EXPECT().Commit(mock.Anything, "tok-err").Return(nil, errors.New("timeout"))

	out, err := f.srv.HandleReturn(context.Background(), &usecase.PaymentReturnInput{TokenWS: "tok-err"})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentResultError, out.Result)

	state := f.state(t, "tok-err")
	assert.Equal(t, entity.TransactionStatusPending, state.Transaction.Status)
	assert.Equal(t, entity.OrderStatusPending, state.Order.Status)
}

func TestCheckoutService_ReturnUnknownToken(t *testing.T) {
	f := newCheckoutFixture(t)

	out, err := f.srv.HandleReturn(context.Background(), &usecase.PaymentReturnInput{TokenWS: "nope"})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentResultError, out.Result)
	assert.Zero(t, out.OrderID)
}

func TestCheckoutService_ReturnAbortedRestoresCart(t *testing.T) {
	f := newCheckoutFixture(t)
	started := f.startPayment(t, "tok-abort")

	// The buyer added something else while on the Webpay form.
	f.repos.cartLine(t, f.user.ID, f.hammer.ID, 1)

	out, err := f.srv.HandleReturn(context.Background(), &usecase.PaymentReturnInput{
		TBKToken:       "tok-abort",
		TBKOrdenCompra: started.BuyOrder,
		TBKIDSesion:    entity.SessionIDFor(f.user.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentResultCancelled, out.Result)
	assert.Equal(t, started.OrderID, out.OrderID)

	state := f.state(t, "tok-abort")
	assert.Equal(t, entity.TransactionStatusCancelled, state.Transaction.Status)
	assert.Equal(t, entity.OrderStatusCancelled, state.Order.Status)

	cart := f.cart(t)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.Items[0].Quantity, "restored quantity merges into the existing line")
	assert.Equal(t, 1, cart.Items[1].Quantity)
}

func TestCheckoutService_ReturnAbortedByBuyOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	started := f.startPayment(t, "tok-abort-2")

	out, err := f.srv.HandleReturn(context.Background(), &usecase.PaymentReturnInput{
		TBKToken:       "token-not-stored",
		TBKOrdenCompra: started.BuyOrder,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentResultCancelled, out.Result)
	assert.Equal(t, entity.TransactionStatusCancelled, f.state(t, "tok-abort-2").Transaction.Status)
}

func TestCheckoutService_ReturnTimeout(t *testing.T) {
	f := newCheckoutFixture(t)
	started := f.startPayment(t, "tok-timeout")

	out, err := f.srv.HandleReturn(context.Background(), &usecase.PaymentReturnInput{TBKOrdenCompra: started.BuyOrder})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentResultError, out.Result)
	assert.Equal(t, started.OrderID, out.OrderID)

	state := f.state(t, "tok-timeout")
	assert.Equal(t, entity.TransactionStatusFailed, state.Transaction.Status)
	assert.Equal(t, entity.OrderStatusFailed, state.Order.Status)

	out, err = f.srv.HandleReturn(context.Background(), &usecase.PaymentReturnInput{})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentResultError, out.Result)
}

func (f *checkoutFixture) paidOrder(t *testing.T, token string) *usecase.StartPaymentOutput {
	t.Helper()

	started := f.startPayment(t, token)
	f.gateway.EXPECT().Commit(mock.Anything, token).Return(authorizedCommit(started.Amount), nil).Once()
	f.publisher.EXPECT().PublishOrderPaid(mock.Anything, mock.Anything).Return(nil).Once()

	out, err := f.srv.HandleReturn(context.Background(), &usecase.PaymentReturnInput{TokenWS: token})
	require.NoError(t, err)
	require.Equal(t, entity.PaymentResultSuccess, out.Result)

	return started
}

func TestCheckoutService_Refund(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	started := f.paidOrder(t, "tok-refund")

	f.gateway.EXPECT().Refund(mock.Anything, "tok-refund", started.Amount).
		Return(&service.PaymentRefundResponse{Type: "REVERSED"}, nil).Once()

	out, err := f.srv.RefundOrder(ctx, started.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "REVERSED", out.Type)
	assert.Equal(t, entity.OrderStatusCancelled, out.Order.Status)

	state := f.state(t, "tok-refund")
	assert.Equal(t, entity.TransactionStatusRefunded, state.Transaction.Status)
	assert.Equal(t, entity.OrderStatusCancelled, state.Order.Status)

	_, err = f.srv.RefundOrder(ctx, started.OrderID)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderNotRefundable))
}

func TestCheckoutService_RefundRejected(t *testing.T) {
	f := newCheckoutFixture(t)
	started := f.paidOrder(t, "tok-nullify")

	f.gateway.EXPECT().Refund(mock.Anything, "tok-nullify", started.Amount).
		Return(&service.PaymentRefundResponse{Type: "NULLIFIED", ResponseCode: -1}, nil)

	_, err := f.srv.RefundOrder(context.Background(), started.OrderID)
	assert.True(t, errors.Is(err, domainerrors.ErrPaymentGatewayFailed))
	assert.Equal(t, entity.TransactionStatusCompleted, f.state(t, "tok-nullify").Transaction.Status)
}

func TestCheckoutService_RefundPendingOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	started := f.startPayment(t, "tok-pending")

	_, err := f.srv.RefundOrder(context.Background(), started.OrderID)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderNotRefundable))

	_, err = f.srv.RefundOrder(context.Background(), 999)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderNotFound))
}

func TestCheckoutService_Orders(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	started := f.startPayment(t, "tok-orders")
	other := f.repos.user(t, "ana", "ana@ferremas.cl")

	order, err := f.srv.GetOrder(ctx, f.user.ID, started.OrderID)
	require.NoError(t, err)
	assert.Equal(t, started.OrderID, order.ID)

	_, err = f.srv.GetOrder(ctx, other.ID, started.OrderID)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderNotFound), "orders are private to their owner")

	orders, err := f.srv.ListOrders(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCheckoutService_PickupQR(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	pending := f.startPayment(t, "tok-qr-pending")

	_, err := f.srv.PickupQR(ctx, f.user.ID, pending.OrderID)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderNotCompleted))

	paid := f.paidOrder(t, "tok-qr-paid")
	png, err := f.srv.PickupQR(ctx, f.user.ID, paid.OrderID)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}

func TestCheckoutService_PaymentReceipt(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	started := f.startPayment(t, "tok-receipt")
	receipt := func(userID uint, status string) (*usecase.PaymentReceiptOutput, error) {
		return f.srv.PaymentReceipt(ctx, &usecase.PaymentReceiptInput{UserID: userID, OrderID: started.OrderID, Status: status})
	}

	t.Run("owner gets the stored status", func(t *testing.T) {
		out, err := receipt(f.user.ID, "success")
		require.NoError(t, err)
		assert.Equal(t, entity.PaymentResultPending, out.Status)
		require.NotNil(t, out.Order)
		assert.Equal(t, started.OrderID, out.Order.ID)
	})

	t.Run("anonymous caller gets no order", func(t *testing.T) {
		out, err := receipt(0, "success")
		require.NoError(t, err)
		assert.Equal(t, entity.PaymentResultSuccess, out.Status)
		assert.Nil(t, out.Order)
	})

	t.Run("another user's order is not found", func(t *testing.T) {
		other := f.repos.user(t, "ana", "ana@ferremas.cl")
		_, err := receipt(other.ID, "success")
		assert.True(t, errors.Is(err, domainerrors.ErrOrderNotFound))
	})

	t.Run("no order", func(t *testing.T) {
		out, err := f.srv.PaymentReceipt(ctx, &usecase.PaymentReceiptInput{UserID: f.user.ID, Status: "error"})
		require.NoError(t, err)
		assert.Equal(t, entity.PaymentResultError, out.Status)
		assert.Nil(t, out.Order)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := receipt(f.user.ID, "bogus")
		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	})
}

func TestCheckoutService_PaymentReceiptOfPaidOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	paid := f.paidOrder(t, "tok-receipt-paid")

	out, err := f.srv.PaymentReceipt(context.Background(), &usecase.PaymentReceiptInput{
		UserID:  f.user.ID,
		OrderID: paid.OrderID,
		Status:  "error",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentResultSuccess, out.Status, "query status is ignored for the owner")
	assert.Equal(t, entity.OrderStatusCompleted, out.Order.Status)
}

func TestCheckoutService_TransactionStatus(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	f.startPayment(t, "tok-status")

	f.gateway.EXPECT().Status(mock.Anything, "tok-status").Return(&service.PaymentCommitResponse{Status: "INITIALIZED"}, nil).Once()

	status, err := f.srv.TransactionStatus(ctx, "tok-status")
	require.NoError(t, err)
	assert.Equal(t, "INITIALIZED", status.Status)

	_, err = f.srv.TransactionStatus(ctx, "unknown")
	assert.True(t, errors.Is(err, domainerrors.ErrTransactionNotFound))

	f.gateway.EXPECT().Status(mock.Anything, "tok-status").Return(nil, errors.New("boom")).Once()
	_, err = f.srv.TransactionStatus(ctx, "tok-status")
	assert.True(t, errors.Is(err, domainerrors.ErrPaymentGatewayFailed))
}
