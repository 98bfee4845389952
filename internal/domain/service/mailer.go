package service

import (
	"context"
	"time"
)

// MailMessage is an outgoing email. HTML takes precedence over Text when both are set.
type MailMessage struct {
	To      []string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends email.
type Mailer interface {
	Send(ctx context.Context, msg *MailMessage) error
}

// ReceiptLine is one product row of a payment receipt.
type ReceiptLine struct {
	Name     string
	Quantity int
	Price    string
	Subtotal string
}

// ReceiptView is the data shown in a payment receipt email.
type ReceiptView struct {
	CustomerName      string
	OrderID           uint
	BuyOrder          string
	AuthorizationCode string
	CardLastDigits    string
	PaidAt            time.Time
	Lines             []ReceiptLine
	Total             string
}

// ContactView is a storefront contact form submission.
type ContactView struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// MailRenderer renders the HTML bodies of outgoing emails.
type MailRenderer interface {
	RenderReceipt(view *ReceiptView) (string, error)
	RenderContact(view *ContactView) (string, error)
}
