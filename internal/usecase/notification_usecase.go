package usecase

import (
	"context"

	"ferremas/internal/domain/service"
)

// ContactInput is a storefront contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// NotificationUsecase sends customer-facing email.
type NotificationUsecase interface {
	service.OrderPaidHandler

	SendContact(ctx context.Context, input *ContactInput) error
	// SendReceipt mails the payment receipt of a completed order to its owner.
	SendReceipt(ctx context.Context, orderID uint) error
}
