package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ferremas/internal/delivery/api/response"
	deliverycontext "ferremas/internal/delivery/context"
	"ferremas/internal/domain/constants"
	"ferremas/internal/domain/entity"
	"ferremas/internal/errors"
	"ferremas/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const pngContentType = "image/png"

// CheckoutHandlerParams holds dependencies for CheckoutHandler, injected by Fx.
type CheckoutHandlerParams struct {
	fx.In

	CheckoutUC usecase.CheckoutUsecase
	Logger     *slog.Logger
}

// CheckoutHandler serves the Webpay Plus payment flow and order history.
type CheckoutHandler struct {
	checkoutUC usecase.CheckoutUsecase
	logger     *slog.Logger
}

func NewCheckoutHandler(params CheckoutHandlerParams) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutUC: params.CheckoutUC,
		logger:     params.Logger,
	}
}

type StartPaymentResponse struct {
	URL      string `json:"url"`
	Token    string `json:"token"`
	OrderID  uint   `json:"order_id"`
	BuyOrder string `json:"buy_order"`
	Amount   int64  `json:"amount"`
}

type PaymentStateResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	Order       *OrderResponse       `json:"order,omitempty"`
}

type PaymentReceiptResponse struct {
	Status entity.PaymentResult `json:"status"`
	Order  *OrderResponse       `json:"order,omitempty"`
}

type RefundResponse struct {
	Order             *OrderResponse `json:"order"`
	Type              string         `json:"type"`
	AuthorizationCode string         `json:"authorization_code,omitempty"`
	NullifiedAmount   int64          `json:"nullified_amount"`
	Balance           int64          `json:"balance"`
	ResponseCode      int            `json:"response_code"`
}

type GatewayStatusResponse struct {
	VCI                string     `json:"vci"`
	Amount             int64      `json:"amount"`
	Status             string     `json:"status"`
	BuyOrder           string     `json:"buy_order"`
	SessionID          string     `json:"session_id"`
	CardNumber         string     `json:"card_number"`
	AccountingDate     string     `json:"accounting_date"`
	TransactionDate    *time.Time `json:"transaction_date"`
	AuthorizationCode  string     `json:"authorization_code"`
	PaymentTypeCode    string     `json:"payment_type_code"`
	ResponseCode       int        `json:"response_code"`
	InstallmentsNumber int        `json:"installments_number"`
	Balance            int64      `json:"balance"`
}

// StartPayment handles POST /iniciar-pago. The storefront posts token_ws to the returned URL.
func (h *CheckoutHandler) StartPayment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	output, err := h.checkoutUC.StartPayment(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, &StartPaymentResponse{
		URL:      output.URL,
		Token:    output.Token,
		OrderID:  output.OrderID,
		BuyOrder: output.BuyOrder,
		Amount:   output.Amount,
	})
}

// WebpayReturn handles GET|POST /retorno-webpay and always redirects to the receipt page.
func (h *CheckoutHandler) WebpayReturn(c echo.Context) error {
	input := &usecase.PaymentReturnInput{
		TokenWS:        c.FormValue("token_ws"),
		TBKToken:       c.FormValue("TBK_TOKEN"),
		TBKOrdenCompra: c.FormValue("TBK_ORDEN_COMPRA"),
		TBKIDSesion:    c.FormValue("TBK_ID_SESION"),
	}

	output, err := h.checkoutUC.HandleReturn(c.Request().Context(), input)
	if err != nil {
		deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).Error("Failed to process Webpay return", slog.Any("error", err))
		output = &usecase.PaymentReturnOutput{Result: entity.PaymentResultError}
	}

	return c.Redirect(http.StatusSeeOther, receiptURL(output))
}

func receiptURL(output *usecase.PaymentReturnOutput) string {
	query := url.Values{}
	query.Set("status", string(output.Result))
	if output.OrderID != 0 {
		query.Set("order", strconv.FormatUint(uint64(output.OrderID), 10))
	}

	return constants.PaymentReceiptPath + "?" + query.Encode()
}

// PaymentReceipt handles GET /comprobante-pago?status=&order=.
func (h *CheckoutHandler) PaymentReceipt(c echo.Context) error {
	var orderID uint
	if err := echo.QueryParamsBinder(c).Uint("order", &orderID).BindError(); err != nil {
		return errors.WithStack(err)
	}

	userID, _ := deliverycontext.GetUserID(c)
	output, err := h.checkoutUC.PaymentReceipt(c.Request().Context(), &usecase.PaymentReceiptInput{
		UserID:  userID,
		OrderID: orderID,
		Status:  c.QueryParam("status"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, &PaymentReceiptResponse{
		Status: output.Status,
		Order:  toOrderResponse(output.Order),
	})
}

// GetPayment handles GET /api/payments/:token.
func (h *CheckoutHandler) GetPayment(c echo.Context) error {
	state, err := h.checkoutUC.GetPayment(c.Request().Context(), c.Param("token"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, &PaymentStateResponse{
		Transaction: toTransactionResponse(state.Transaction),
		Order:       toOrderResponse(state.Order),
	})
}

// ListOrders handles GET /api/orders.
func (h *CheckoutHandler) ListOrders(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	orders, err := h.checkoutUC.ListOrders(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]*OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderResponse(order))
	}

	return response.Success(c, http.StatusOK, out)
}

// GetOrder handles GET /api/orders/:id.
func (h *CheckoutHandler) GetOrder(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	orderID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.checkoutUC.GetOrder(c.Request().Context(), userID, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toOrderResponse(order))
}

// PickupQR handles GET /api/orders/:id/pickup-qr and returns a PNG.
func (h *CheckoutHandler) PickupQR(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	orderID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	png, err := h.checkoutUC.PickupQR(c.Request().Context(), userID, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, pngContentType, png)
}

// RefundOrder handles POST /api/orders/:id/refund.
func (h *CheckoutHandler) RefundOrder(c echo.Context) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	output, err := h.checkoutUC.RefundOrder(c.Request().Context(), orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, &RefundResponse{
		Order:             toOrderResponse(output.Order),
		Type:              output.Type,
		AuthorizationCode: output.AuthorizationCode,
		NullifiedAmount:   output.NullifiedAmount,
		Balance:           output.Balance,
		ResponseCode:      output.ResponseCode,
	})
}

// TransactionStatus handles GET /api/payments/:token/status.
func (h *CheckoutHandler) TransactionStatus(c echo.Context) error {
	status, err := h.checkoutUC.TransactionStatus(c.Request().Context(), c.Param("token"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, &GatewayStatusResponse{
		VCI:                status.VCI,
		Amount:             status.Amount,
		Status:             status.Status,
		BuyOrder:           status.BuyOrder,
		SessionID:          status.SessionID,
		CardNumber:         status.CardNumber,
		AccountingDate:     status.AccountingDate,
		TransactionDate:    status.TransactionDate,
		AuthorizationCode:  status.AuthorizationCode,
		PaymentTypeCode:    status.PaymentTypeCode,
		ResponseCode:       status.ResponseCode,
		InstallmentsNumber: status.InstallmentsNumber,
		Balance:            status.Balance,
	})
}
