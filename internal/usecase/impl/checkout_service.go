package impl

import (
	"context"
	"log/slog"

	"ferremas/config"
	deliverycontext "ferremas/internal/delivery/context"
	"ferremas/internal/domain/constants"
	"ferremas/internal/domain/entity"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/domain/repository"
	"ferremas/internal/domain/service"
	"ferremas/internal/errors"
	"ferremas/internal/usecase"

	"go.uber.org/fx"
)

// refundTypeNullified is a partial or late refund; only these carry a response code.
const refundTypeNullified = "NULLIFIED"

type checkoutService struct {
	txManager   repository.TransactionManager
	cartRepo    repository.CartRepository
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	gateway     service.PaymentGateway
	publisher   service.EventPublisher
	qrService   service.QRCodeService
	returnURL   string
	logger      *slog.Logger
}

// CheckoutServiceParams holds dependencies for CheckoutService, injected by Fx.
type CheckoutServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	CartRepo    repository.CartRepository
	OrderRepo   repository.OrderRepository
	PaymentRepo repository.PaymentRepository
	Gateway     service.PaymentGateway
	Publisher   service.EventPublisher
	QRService   service.QRCodeService
	Config      *config.Config
	Logger      *slog.Logger
}

// NewCheckoutService creates the checkout use case.
func NewCheckoutService(params CheckoutServiceParams) usecase.CheckoutUsecase {
	return &checkoutService{
		txManager:   params.TxManager,
		cartRepo:    params.CartRepo,
		orderRepo:   params.OrderRepo,
		paymentRepo: params.PaymentRepo,
		gateway:     params.Gateway,
		publisher:   params.Publisher,
		qrService:   params.QRService,
		returnURL:   params.Config.HTTP.PublicBaseURL + constants.WebpayReturnPath,
		logger:      params.Logger,
	}
}

func (srv *checkoutService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// StartPayment turns the cart into a pending order and opens a Webpay transaction for it.
// The cart is emptied only once Webpay hands out a token.
func (srv *checkoutService) StartPayment(ctx context.Context, userID uint) (*usecase.StartPaymentOutput, error) {
	items, err := srv.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart")
	}
	cart := &entity.Cart{UserID: userID, Items: items}
	if cart.IsEmpty() {
		return nil, domainerrors.ErrCartEmpty
	}

	order := &entity.Order{
		UserID: userID,
		Status: entity.OrderStatusPending,
	}
	for _, item := range cart.Items {
		if item.Product == nil {
			return nil, domainerrors.ErrProductNotFound
		}
		if !item.Product.HasStock(item.Quantity) {
			return nil, insufficientStock(item.Product, item.Quantity)
		}
		order.Items = append(order.Items, &entity.OrderItem{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			PriceAtTime: item.Product.EffectivePrice(),
		})
	}
	order.TotalAmount = cart.Total()

	// Webpay amounts are whole pesos.
	amount := order.TotalAmount.IntPart()
	if amount <= 0 {
		return nil, domainerrors.ErrInvalidAmount
	}

	payment := &entity.WebpayTransaction{
		SessionID: entity.SessionIDFor(userID),
		Amount:    amount,
		Status:    entity.TransactionStatusPending,
	}
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.OrderRepo().Create(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		payment.OrderID = order.ID
		payment.BuyOrder = entity.BuyOrderFor(order.ID)

		return errors.Wrap(repoFactory.PaymentRepo().Create(ctx, payment), "failed to create webpay transaction")
	})
	if err != nil {
		return nil, err
	}

	logger := srv.log(ctx).With(
		slog.Uint64("order_id", uint64(order.ID)),
		slog.String("buy_order", payment.BuyOrder),
	)
	logger.Info("Order created, opening Webpay transaction", slog.Int64("amount", amount))

	created, err := srv.gateway.Create(ctx, &service.PaymentCreateRequest{
		BuyOrder:  payment.BuyOrder,
		SessionID: payment.SessionID,
		Amount:    amount,
		ReturnURL: srv.returnURL,
	})
	if err != nil {
		logger.Error("Webpay transaction creation failed", slog.Any("error", err))

		payment.Status = entity.TransactionStatusFailed
		if markErr := srv.settle(ctx, payment, entity.OrderStatusFailed, nil); markErr != nil {
			logger.Error("Failed to mark order as failed", slog.Any("error", markErr))
		}

		return nil, domainerrors.ErrPaymentGatewayFailed
	}

	payment.Token = created.Token
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.PaymentRepo().Update(ctx, payment); err != nil {
			return errors.Wrap(err, "failed to store webpay token")
		}

		return errors.Wrap(repoFactory.CartRepo().Clear(ctx, userID), "failed to clear cart")
	})
	if err != nil {
		// Webpay still holds an open transaction under this token.
		logger.Error("Failed to store Webpay token", slog.String("token", created.Token), slog.Any("error", err))

		payment.Token = ""
		payment.Status = entity.TransactionStatusFailed
		if markErr := srv.settle(ctx, payment, entity.OrderStatusFailed, nil); markErr != nil {
			logger.Error("Failed to mark order as failed", slog.Any("error", markErr))
		}

		return nil, err
	}

	logger.Info("Webpay transaction created")

	return &usecase.StartPaymentOutput{
		URL:      created.URL,
		Token:    created.Token,
		OrderID:  order.ID,
		BuyOrder: payment.BuyOrder,
		Amount:   amount,
	}, nil
}

// HandleReturn reconciles the browser return from Webpay. Webpay sends token_ws after
// an authorization attempt, TBK_TOKEN when the buyer aborted, and only TBK_ORDEN_COMPRA
// when the form timed out.
func (srv *checkoutService) HandleReturn(ctx context.Context, input *usecase.PaymentReturnInput) (*usecase.PaymentReturnOutput, error) {
	switch {
	case input.TBKToken != "":
		return srv.handleAbort(ctx, input)
	case input.TokenWS == "":
		return srv.handleTimeout(ctx, input)
	default:
		return srv.handleCommit(ctx, input.TokenWS)
	}
}

func (srv *checkoutService) handleAbort(ctx context.Context, input *usecase.PaymentReturnInput) (*usecase.PaymentReturnOutput, error) {
	payment, err := srv.paymentRepo.FindByToken(ctx, input.TBKToken)
	if errors.Is(err, repository.ErrTransactionNotFound) && input.TBKOrdenCompra != "" {
		payment, err = srv.paymentRepo.FindByBuyOrder(ctx, input.TBKOrdenCompra)
	}
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			srv.log(ctx).Warn("Aborted payment for unknown transaction", slog.String("buy_order", input.TBKOrdenCompra))

			return &usecase.PaymentReturnOutput{Result: entity.PaymentResultCancelled}, nil
		}

		return nil, errors.Wrap(err, "failed to find aborted transaction")
	}

	out := &usecase.PaymentReturnOutput{Result: entity.PaymentResultCancelled, OrderID: payment.OrderID}
	if payment.Status.IsFinal() {
		out.Result = resultFor(payment.Status)

		return out, nil
	}

	payment.Status = entity.TransactionStatusCancelled
	if err := srv.settle(ctx, payment, entity.OrderStatusCancelled, srv.restoreCart); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Payment cancelled by buyer, cart restored",
		slog.Uint64("order_id", uint64(payment.OrderID)),
		slog.String("buy_order", payment.BuyOrder),
	)

	return out, nil
}

func (srv *checkoutService) handleTimeout(ctx context.Context, input *usecase.PaymentReturnInput) (*usecase.PaymentReturnOutput, error) {
	out := &usecase.PaymentReturnOutput{Result: entity.PaymentResultError}
	if input.TBKOrdenCompra == "" {
		srv.log(ctx).Warn("Webpay return without token")

		return out, nil
	}

	payment, err := srv.paymentRepo.FindByBuyOrder(ctx, input.TBKOrdenCompra)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return out, nil
		}

		return nil, errors.Wrap(err, "failed to find timed out transaction")
	}
	out.OrderID = payment.OrderID

	if payment.Status.IsFinal() {
		return out, nil
	}

	payment.Status = entity.TransactionStatusFailed
	if err := srv.settle(ctx, payment, entity.OrderStatusFailed, nil); err != nil {
		return nil, err
	}

	srv.log(ctx).Warn("Payment timed out", slog.String("buy_order", payment.BuyOrder))

	return out, nil
}

func (srv *checkoutService) handleCommit(ctx context.Context, token string) (*usecase.PaymentReturnOutput, error) {
	payment, err := srv.paymentRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			srv.log(ctx).Warn("Webpay return for unknown token")

			return &usecase.PaymentReturnOutput{Result: entity.PaymentResultError}, nil
		}

		return nil, errors.Wrap(err, "failed to find webpay transaction")
	}

	out := &usecase.PaymentReturnOutput{OrderID: payment.OrderID}
	logger := srv.log(ctx).With(
		slog.Uint64("order_id", uint64(payment.OrderID)),
		slog.String("buy_order", payment.BuyOrder),
	)

	if payment.Status.IsFinal() {
		logger.Info("Webpay return for settled transaction", slog.String("status", string(payment.Status)))
		out.Result = resultFor(payment.Status)

		return out, nil
	}

	committed, err := srv.gateway.Commit(ctx, token)
	if err != nil {
		logger.Error("Webpay commit failed", slog.Any("error", err))
		out.Result = entity.PaymentResultError

		return out, nil
	}

	applyCommit(payment, committed)

	if !committed.Authorized() {
		payment.Status = entity.TransactionStatusFailed
		if err := srv.settle(ctx, payment, entity.OrderStatusFailed, nil); err != nil {
			return nil, err
		}
		logger.Warn("Payment rejected",
			slog.Int("response_code", committed.ResponseCode),
			slog.String("status", committed.Status),
		)
		out.Result = entity.PaymentResultError

		return out, nil
	}

	payment.Status = entity.TransactionStatusCompleted
	var order *entity.Order
	err = srv.settle(ctx, payment, entity.OrderStatusCompleted, func(ctx context.Context, repoFactory repository.RepositoryFactory, paid *entity.Order) error {
		order = paid

		return srv.decrementStock(ctx, repoFactory.ProductRepo(), paid)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Payment authorized", slog.String("authorization_code", payment.AuthorizationCode))

	event := &service.OrderPaidEvent{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		OrderID:   order.ID,
		UserID:    order.UserID,
		BuyOrder:  payment.BuyOrder,
		Amount:    payment.Amount,
	}
	if err := srv.publisher.PublishOrderPaid(ctx, event); err != nil {
		logger.Error("Failed to publish order paid event", slog.Any("error", err))
	}

	out.Result = entity.PaymentResultSuccess

	return out, nil
}

// settleHook runs inside the settlement transaction with the reloaded order.
type settleHook func(ctx context.Context, repoFactory repository.RepositoryFactory, order *entity.Order) error

// settle stores payment and moves its order to status in one transaction.
func (srv *checkoutService) settle(ctx context.Context, payment *entity.WebpayTransaction, status entity.OrderStatus, hook settleHook) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.PaymentRepo().Update(ctx, payment); err != nil {
			return errors.Wrap(err, "failed to update webpay transaction")
		}

		orderRepo := repoFactory.OrderRepo()
		if err := orderRepo.UpdateStatus(ctx, payment.OrderID, status); err != nil {
			return errors.Wrap(err, "failed to update order status")
		}
		if hook == nil {
			return nil
		}

		order, err := orderRepo.FindByID(ctx, payment.OrderID)
		if err != nil {
			return errors.Wrap(err, "failed to reload order")
		}

		return hook(ctx, repoFactory, order)
	})
}

// restoreCart puts the lines of an abandoned order back into its owner's cart.
func (srv *checkoutService) restoreCart(ctx context.Context, repoFactory repository.RepositoryFactory, order *entity.Order) error {
	cartRepo := repoFactory.CartRepo()
	for _, item := range order.Items {
		existing, err := cartRepo.FindByUserAndProduct(ctx, order.UserID, item.ProductID)
		switch {
		case err == nil:
			if err := cartRepo.UpdateQuantity(ctx, existing.ID, existing.Quantity+item.Quantity); err != nil {
				return errors.Wrap(err, "failed to restore cart line")
			}
		case errors.Is(err, repository.ErrCartItemNotFound):
			if err := cartRepo.Create(ctx, &entity.CartItem{
				UserID:    order.UserID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			}); err != nil {
				return errors.Wrap(err, "failed to restore cart line")
			}
		default:
			return errors.Wrap(err, "failed to find cart line")
		}
	}

	return nil
}

// decrementStock takes the paid quantities out of stock. The payment is already
// captured, so a shortfall is logged instead of failing the settlement.
func (srv *checkoutService) decrementStock(ctx context.Context, productRepo repository.ProductRepository, order *entity.Order) error {
	for _, item := range order.Items {
		err := productRepo.DecrementStock(ctx, item.ProductID, item.Quantity)
		if errors.Is(err, repository.ErrStockConflict) {
			srv.log(ctx).Warn("Insufficient stock for paid order",
				slog.Uint64("order_id", uint64(order.ID)),
				slog.Uint64("product_id", uint64(item.ProductID)),
				slog.Int("quantity", item.Quantity),
			)

			continue
		}
		if err != nil {
			return errors.Wrap(err, "failed to decrement stock")
		}
	}

	return nil
}

func applyCommit(payment *entity.WebpayTransaction, committed *service.PaymentCommitResponse) {
	responseCode := committed.ResponseCode
	payment.ResponseCode = &responseCode
	payment.AuthorizationCode = committed.AuthorizationCode
	payment.CardLastDigits = lastDigits(committed.CardNumber)
	payment.PaymentTypeCode = committed.PaymentTypeCode
	payment.TransactionDate = committed.TransactionDate
	if committed.Amount > 0 {
		payment.Amount = committed.Amount
	}
}

func lastDigits(cardNumber string) string {
	if len(cardNumber) <= 4 {
		return cardNumber
	}

	return cardNumber[len(cardNumber)-4:]
}

func resultFor(status entity.TransactionStatus) entity.PaymentResult {
	switch status {
	case entity.TransactionStatusCompleted:
		return entity.PaymentResultSuccess
	case entity.TransactionStatusCancelled, entity.TransactionStatusRefunded:
		return entity.PaymentResultCancelled
	default:
		return entity.PaymentResultError
	}
}

func (srv *checkoutService) GetPayment(ctx context.Context, token string) (*usecase.PaymentState, error) {
	payment, err := srv.paymentRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, mapPaymentErr(err)
	}

	order, err := srv.orderRepo.FindByID(ctx, payment.OrderID)
	if err != nil {
		return nil, mapOrderErr(err)
	}

	return &usecase.PaymentState{Transaction: payment, Order: order}, nil
}

// PaymentReceipt echoes the redirect status to anonymous callers. The owner of the
// order gets the order back, with the status read from what was stored.
func (srv *checkoutService) PaymentReceipt(ctx context.Context, input *usecase.PaymentReceiptInput) (*usecase.PaymentReceiptOutput, error) {
	result := entity.PaymentResult(input.Status)
	switch result {
	case entity.PaymentResultSuccess, entity.PaymentResultError, entity.PaymentResultCancelled:
	default:
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown payment status")
	}

	if input.OrderID == 0 || input.UserID == 0 {
		return &usecase.PaymentReceiptOutput{Status: result}, nil
	}

	order, err := srv.GetOrder(ctx, input.UserID, input.OrderID)
	if err != nil {
		return nil, err
	}

	return &usecase.PaymentReceiptOutput{Status: receiptResult(order.Status), Order: order}, nil
}

func receiptResult(status entity.OrderStatus) entity.PaymentResult {
	switch status {
	case entity.OrderStatusCompleted:
		return entity.PaymentResultSuccess
	case entity.OrderStatusCancelled:
		return entity.PaymentResultCancelled
	case entity.OrderStatusFailed:
		return entity.PaymentResultError
	default:
		return entity.PaymentResultPending
	}
}

func (srv *checkoutService) GetOrder(ctx context.Context, userID, orderID uint) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapOrderErr(err)
	}
	if order.UserID != userID {
		return nil, domainerrors.ErrOrderNotFound
	}

	return order, nil
}

func (srv *checkoutService) ListOrders(ctx context.Context, userID uint) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

// PickupQR renders the code shown at the store counter for a paid order.
func (srv *checkoutService) PickupQR(ctx context.Context, userID, orderID uint) ([]byte, error) {
	order, err := srv.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.OrderStatusCompleted {
		return nil, domainerrors.ErrOrderNotCompleted
	}

	png, err := srv.qrService.GeneratePickupQR(order.ID, entity.BuyOrderFor(order.ID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate pickup qr")
	}

	return png, nil
}

// RefundOrder refunds the full amount of a paid order through Webpay.
func (srv *checkoutService) RefundOrder(ctx context.Context, orderID uint) (*usecase.RefundOutput, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapOrderErr(err)
	}

	payment, err := srv.paymentRepo.FindLatestByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, domainerrors.ErrOrderNotRefundable
		}

		return nil, errors.Wrap(err, "failed to find order transaction")
	}
	if order.Status != entity.OrderStatusCompleted || payment.Status != entity.TransactionStatusCompleted {
		return nil, domainerrors.ErrOrderNotRefundable.WithDetails("order status: " + string(order.Status))
	}

	logger := srv.log(ctx).With(slog.Uint64("order_id", uint64(orderID)), slog.String("buy_order", payment.BuyOrder))

	refund, err := srv.gateway.Refund(ctx, payment.Token, payment.Amount)
	if err != nil {
		logger.Error("Webpay refund failed", slog.Any("error", err))

		return nil, domainerrors.ErrPaymentGatewayFailed
	}
	if refund.Type == refundTypeNullified && refund.ResponseCode != 0 {
		logger.Warn("Webpay refund rejected", slog.Int("response_code", refund.ResponseCode))

		return nil, domainerrors.ErrPaymentGatewayFailed.WithDetails("refund rejected")
	}

	payment.Status = entity.TransactionStatusRefunded
	if err := srv.settle(ctx, payment, entity.OrderStatusCancelled, nil); err != nil {
		return nil, err
	}
	order.Status = entity.OrderStatusCancelled

	logger.Info("Order refunded", slog.String("type", refund.Type), slog.Int64("balance", refund.Balance))

	return &usecase.RefundOutput{
		Order:             order,
		Type:              refund.Type,
		AuthorizationCode: refund.AuthorizationCode,
		NullifiedAmount:   refund.NullifiedAmount,
		Balance:           refund.Balance,
		ResponseCode:      refund.ResponseCode,
	}, nil
}

func (srv *checkoutService) TransactionStatus(ctx context.Context, token string) (*service.PaymentCommitResponse, error) {
	if _, err := srv.paymentRepo.FindByToken(ctx, token); err != nil {
		return nil, mapPaymentErr(err)
	}

	status, err := srv.gateway.Status(ctx, token)
	if err != nil {
		srv.log(ctx).Error("Webpay status query failed", slog.Any("error", err))

		return nil, domainerrors.ErrPaymentGatewayFailed
	}

	return status, nil
}

func mapOrderErr(err error) error {
	if errors.Is(err, repository.ErrOrderNotFound) {
		return domainerrors.ErrOrderNotFound
	}

	return errors.Wrap(err, "order operation failed")
}

func mapPaymentErr(err error) error {
	if errors.Is(err, repository.ErrTransactionNotFound) {
		return domainerrors.ErrTransactionNotFound
	}

	return errors.Wrap(err, "payment operation failed")
}
