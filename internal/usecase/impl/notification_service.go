package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ferremas/config"
	deliverycontext "ferremas/internal/delivery/context"
	"ferremas/internal/domain/entity"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/domain/repository"
	"ferremas/internal/domain/service"
	"ferremas/internal/errors"
	"ferremas/internal/usecase"
	"ferremas/internal/util"

	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"
)

const contactSubjectPrefix = "Contacto Ferremas: "

// notificationService implements the NotificationUsecase interface.
type notificationService struct {
	orderRepo        repository.OrderRepository
	paymentRepo      repository.PaymentRepository
	mailer           service.Mailer
	renderer         service.MailRenderer
	contactRecipient string
	validate         *validator.Validate
	logger           *slog.Logger
}

// NotificationServiceParams holds dependencies for NotificationService, injected by Fx.
type NotificationServiceParams struct {
	fx.In

	OrderRepo   repository.OrderRepository
	PaymentRepo repository.PaymentRepository
	Mailer      service.Mailer
	Renderer    service.MailRenderer
	Config      *config.Config
	Logger      *slog.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(params NotificationServiceParams) usecase.NotificationUsecase {
	return &notificationService{
		orderRepo:        params.OrderRepo,
		paymentRepo:      params.PaymentRepo,
		mailer:           params.Mailer,
		renderer:         params.Renderer,
		contactRecipient: params.Config.Mail.ContactRecipient,
		validate:         validator.New(),
		logger:           params.Logger,
	}
}

func (srv *notificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SendContact forwards a contact form to the store mailbox with the sender as reply-to.
func (srv *notificationService) SendContact(ctx context.Context, input *usecase.ContactInput) error {
	view := &service.ContactView{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Subject: strings.TrimSpace(input.Subject),
		Message: strings.TrimSpace(input.Message),
	}
	if view.Name == "" || view.Email == "" || view.Subject == "" || view.Message == "" {
		return domainerrors.ErrValidationFailed.WithDetails("name, email, subject and message are required")
	}
	if err := srv.validate.Var(view.Email, "email"); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("invalid email")
	}

	html, err := srv.renderer.RenderContact(view)
	if err != nil {
		return errors.Wrap(err, "failed to render contact email")
	}

	err = srv.mailer.Send(ctx, &service.MailMessage{
		To:      []string{srv.contactRecipient},
		ReplyTo: view.Email,
		Subject: contactSubjectPrefix + view.Subject,
		Text:    fmt.Sprintf("Nombre: %s\nEmail: %s\n\n%s", view.Name, view.Email, view.Message),
		HTML:    html,
	})
	if err != nil {
		srv.log(ctx).Error("Failed to send contact message", slog.String("from", view.Email), slog.Any("error", err))

		return err
	}

	srv.log(ctx).Info("Contact message sent", slog.String("from", view.Email))

	return nil
}

// SendReceipt mails the receipt of a completed order to the buyer.
func (srv *notificationService) SendReceipt(ctx context.Context, orderID uint) error {
	logger := srv.log(ctx).With(slog.Uint64("order_id", uint64(orderID)))

	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return mapOrderErr(err)
	}
	if order.Status != entity.OrderStatusCompleted {
		return domainerrors.ErrOrderNotCompleted
	}
	if order.User == nil || order.User.Email == "" {
		return domainerrors.ErrUserNotFound.WithDetails("order has no recipient")
	}

	payment, err := srv.paymentRepo.FindLatestByOrder(ctx, orderID)
	if err != nil && !errors.Is(err, repository.ErrTransactionNotFound) {
		return errors.Wrap(err, "failed to find order transaction")
	}

	view := receiptView(order, payment)
	html, err := srv.renderer.RenderReceipt(view)
	if err != nil {
		return errors.Wrap(err, "failed to render receipt")
	}

	err = srv.mailer.Send(ctx, &service.MailMessage{
		To:      []string{order.User.Email},
		Subject: fmt.Sprintf("Comprobante de pago Ferremas - Orden #%d", order.ID),
		Text:    fmt.Sprintf("Tu pago de $%s para la orden #%d fue aprobado.", view.Total, order.ID),
		HTML:    html,
	})
	if err != nil {
		logger.Error("Failed to send receipt", slog.Any("error", err))

		return err
	}

	logger.Info("Receipt sent", slog.String("to", order.User.Email))

	return nil
}

// HandleOrderPaid sends the receipt of a paid order.
func (srv *notificationService) HandleOrderPaid(ctx context.Context, event *service.OrderPaidEvent) error {
	if event.RequestID != "" && deliverycontext.GetRequestIDFromContext(ctx) == "" {
		ctx = deliverycontext.WithRequestID(ctx, event.RequestID)
	}

	return srv.SendReceipt(ctx, event.OrderID)
}

func receiptView(order *entity.Order, payment *entity.WebpayTransaction) *service.ReceiptView {
	view := &service.ReceiptView{
		CustomerName: order.User.Username,
		OrderID:      order.ID,
		BuyOrder:     entity.BuyOrderFor(order.ID),
		PaidAt:       order.UpdatedAt,
		Total:        util.FormatCLP(order.TotalAmount),
	}
	if payment != nil {
		view.BuyOrder = payment.BuyOrder
		view.AuthorizationCode = payment.AuthorizationCode
		view.CardLastDigits = payment.CardLastDigits
		if payment.TransactionDate != nil {
			view.PaidAt = payment.TransactionDate.In(time.Local)
		}
	}

	for _, item := range order.Items {
		name := fmt.Sprintf("Producto #%d", item.ProductID)
		if item.Product != nil {
			name = item.Product.Name
		}
		view.Lines = append(view.Lines, service.ReceiptLine{
			Name:     name,
			Quantity: item.Quantity,
			Price:    util.FormatCLP(item.PriceAtTime),
			Subtotal: util.FormatCLP(item.Subtotal()),
		})
	}

	return view
}
