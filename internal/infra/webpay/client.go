// Package webpay is a Transbank Webpay Plus REST client.
package webpay

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ferremas/config"
	"ferremas/internal/domain/constants"
	"ferremas/internal/domain/service"
	"ferremas/internal/errors"

	"github.com/go-resty/resty/v2"
)

const (
	IntegrationHost = "https://webpay3gint.transbank.cl"
	ProductionHost  = "https://webpay3g.transbank.cl"

	transactionsPath = "/rswebpaytransaction/api/webpay/v1.2/transactions"

	headerAPIKeyID     = "Tbk-Api-Key-Id"
	headerAPIKeySecret = "Tbk-Api-Key-Secret"
)

// APIError is a non-2xx answer from Webpay.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return "webpay: " + http.StatusText(e.StatusCode) + ": " + e.Message
}

type createRequest struct {
	BuyOrder  string `json:"buy_order"`
	SessionID string `json:"session_id"`
	Amount    int64  `json:"amount"`
	ReturnURL string `json:"return_url"`
}

type createResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

type transactionResponse struct {
	VCI        string `json:"vci"`
	Amount     int64  `json:"amount"`
	Status     string `json:"status"`
	BuyOrder   string `json:"buy_order"`
	SessionID  string `json:"session_id"`
	CardDetail struct {
		CardNumber string `json:"card_number"`
	} `json:"card_detail"`
	AccountingDate     string     `json:"accounting_date"`
	TransactionDate    *time.Time `json:"transaction_date"`
	AuthorizationCode  string     `json:"authorization_code"`
	PaymentTypeCode    string     `json:"payment_type_code"`
	ResponseCode       int        `json:"response_code"`
	InstallmentsNumber int        `json:"installments_number"`
	Balance            int64      `json:"balance"`
}

type refundRequest struct {
	Amount int64 `json:"amount"`
}

type refundResponse struct {
	Type              string     `json:"type"`
	AuthorizationCode string     `json:"authorization_code"`
	AuthorizationDate *time.Time `json:"authorization_date"`
	NullifiedAmount   float64    `json:"nullified_amount"`
	Balance           float64    `json:"balance"`
	ResponseCode      int        `json:"response_code"`
}

type errorResponse struct {
	ErrorMessage string `json:"error_message"`
}

// Client implements service.PaymentGateway against the Webpay Plus REST API.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewClient builds a client for the configured environment.
func NewClient(cfg *config.Config, logger *slog.Logger) service.PaymentGateway {
	return newClient(cfg.Webpay, logger)
}

func newClient(cfg *config.WebpayConfig, logger *slog.Logger) *Client {
	host := IntegrationHost
	if strings.EqualFold(cfg.Environment, constants.WebpayEnvironmentLive) {
		host = ProductionHost
	}
	if cfg.BaseURL != "" {
		host = strings.TrimRight(cfg.BaseURL, "/")
	}

	httpClient := resty.New().
		SetBaseURL(host+transactionsPath).
		SetTimeout(cfg.Timeout).
		SetHeaders(map[string]string{
			headerAPIKeyID:     cfg.CommerceCode,
			headerAPIKeySecret: cfg.APIKey,
			"Accept":           "application/json",
			"Content-Type":     "application/json",
		})

	return &Client{http: httpClient, logger: logger}
}

// Create opens a transaction and returns the token and form URL for the redirect.
func (c *Client) Create(ctx context.Context, req *service.PaymentCreateRequest) (*service.PaymentCreateResponse, error) {
	var out createResponse
	if err := c.do(ctx, http.MethodPost, "", createRequest{
		BuyOrder:  req.BuyOrder,
		SessionID: req.SessionID,
		Amount:    req.Amount,
		ReturnURL: req.ReturnURL,
	}, &out); err != nil {
		return nil, errors.Wrap(err, "create webpay transaction")
	}
	if out.Token == "" || out.URL == "" {
		return nil, errors.New("webpay create response is missing token or url")
	}

	return &service.PaymentCreateResponse{Token: out.Token, URL: out.URL}, nil
}

// Commit confirms the transaction after the cardholder returns from Webpay.
func (c *Client) Commit(ctx context.Context, token string) (*service.PaymentCommitResponse, error) {
	var out transactionResponse
	if err := c.do(ctx, http.MethodPut, "/"+url.PathEscape(token), nil, &out); err != nil {
		return nil, errors.Wrap(err, "commit webpay transaction")
	}

	return out.toDomain(), nil
}

// Status queries a transaction without changing it.
func (c *Client) Status(ctx context.Context, token string) (*service.PaymentCommitResponse, error) {
	var out transactionResponse
	if err := c.do(ctx, http.MethodGet, "/"+url.PathEscape(token), nil, &out); err != nil {
		return nil, errors.Wrap(err, "webpay transaction status")
	}

	return out.toDomain(), nil
}

// Refund reverses or nullifies amount of an authorized transaction.
func (c *Client) Refund(ctx context.Context, token string, amount int64) (*service.PaymentRefundResponse, error) {
	var out refundResponse
	if err := c.do(ctx, http.MethodPost, "/"+url.PathEscape(token)+"/refunds", refundRequest{Amount: amount}, &out); err != nil {
		return nil, errors.Wrap(err, "refund webpay transaction")
	}

	return &service.PaymentRefundResponse{
		Type:              out.Type,
		AuthorizationCode: out.AuthorizationCode,
		AuthorizationDate: out.AuthorizationDate,
		NullifiedAmount:   int64(out.NullifiedAmount),
		Balance:           int64(out.Balance),
		ResponseCode:      out.ResponseCode,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		return errors.Wrap(err, "webpay request failed")
	}

	c.logger.DebugContext(ctx, "Webpay request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode()),
		slog.Duration("latency", time.Since(start)),
	)

	if resp.IsError() {
		apiErr := &APIError{StatusCode: resp.StatusCode()}
		var e errorResponse
		if json.Unmarshal(resp.Body(), &e) == nil && e.ErrorMessage != "" {
			apiErr.Message = e.ErrorMessage
		} else {
			apiErr.Message = strings.TrimSpace(string(resp.Body()))
		}

		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return errors.Wrap(err, "failed to decode webpay response")
	}

	return nil
}

func (r *transactionResponse) toDomain() *service.PaymentCommitResponse {
	return &service.PaymentCommitResponse{
		VCI:                r.VCI,
		Amount:             r.Amount,
		Status:             r.Status,
		BuyOrder:           r.BuyOrder,
		SessionID:          r.SessionID,
		CardNumber:         r.CardDetail.CardNumber,
		AccountingDate:     r.AccountingDate,
		TransactionDate:    r.TransactionDate,
		AuthorizationCode:  r.AuthorizationCode,
		PaymentTypeCode:    r.PaymentTypeCode,
		ResponseCode:       r.ResponseCode,
		InstallmentsNumber: r.InstallmentsNumber,
		Balance:            r.Balance,
	}
}
