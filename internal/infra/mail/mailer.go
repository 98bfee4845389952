// Package mail sends receipt and contact emails over SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"ferremas/config"
	deliverycontext "ferremas/internal/delivery/context"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/domain/service"
	"ferremas/internal/errors"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer implements service.Mailer with net/smtp and PLAIN auth.
type SMTPMailer struct {
	addr   string
	auth   smtp.Auth
	from   string
	send   sendFunc
	logger *slog.Logger
}

// NewMailer returns an SMTP mailer, or a mailer that only logs when no host is configured.
func NewMailer(cfg *config.Config, logger *slog.Logger) service.Mailer {
	mc := cfg.Mail
	if mc == nil || mc.Host == "" {
		logger.Warn("SMTP host not configured, emails will only be logged")

		return &logMailer{logger: logger}
	}

	var auth smtp.Auth
	if mc.Username != "" {
		auth = smtp.PlainAuth("", mc.Username, mc.Password, mc.Host)
	}

	return &SMTPMailer{
		addr:   net.JoinHostPort(mc.Host, strconv.Itoa(mc.Port)),
		auth:   auth,
		from:   mc.DefaultSender,
		send:   smtp.SendMail,
		logger: logger,
	}
}

// Send delivers msg to every recipient in msg.To.
func (m *SMTPMailer) Send(ctx context.Context, msg *service.MailMessage) error {
	logger := deliverycontext.GetLoggerOrDefault(ctx, m.logger)

	if len(msg.To) == 0 {
		return domainerrors.ErrMailSendFailed.WithDetails("no recipients")
	}
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	body := buildMessage(m.from, msg, time.Now())
	if err := m.send(m.addr, m.auth, m.from, msg.To, body); err != nil {
		logger.ErrorContext(ctx, "Failed to send email",
			slog.String("subject", msg.Subject),
			slog.Any("error", err))

		return domainerrors.ErrMailSendFailed.WithDetails(err.Error())
	}

	logger.InfoContext(ctx, "Email sent",
		slog.String("subject", msg.Subject),
		slog.Int("recipients", len(msg.To)))

	return nil
}

// buildMessage renders RFC 5322 headers and a single-part UTF-8 body.
func buildMessage(from string, msg *service.MailMessage, now time.Time) []byte {
	var b bytes.Buffer

	writeHeader := func(key, value string) {
		fmt.Fprintf(&b, "%s: %s\r\n", key, value)
	}

	writeHeader("From", from)
	writeHeader("To", strings.Join(msg.To, ", "))
	if msg.ReplyTo != "" {
		writeHeader("Reply-To", msg.ReplyTo)
	}
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	writeHeader("Date", now.Format(time.RFC1123Z))
	writeHeader("MIME-Version", "1.0")

	content, contentType := msg.Text, "text/plain"
	if msg.HTML != "" {
		content, contentType = msg.HTML, "text/html"
	}
	writeHeader("Content-Type", contentType+"; charset=\"UTF-8\"")
	b.WriteString("\r\n")
	b.WriteString(content)

	return b.Bytes()
}

type logMailer struct {
	logger *slog.Logger
}

func (m *logMailer) Send(ctx context.Context, msg *service.MailMessage) error {
	deliverycontext.GetLoggerOrDefault(ctx, m.logger).InfoContext(ctx, "Email not sent, SMTP disabled",
		slog.Any("to", msg.To),
		slog.String("subject", msg.Subject))

	return nil
}
