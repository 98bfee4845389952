package webpay

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ferremas/config"
	"ferremas/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return newClient(&config.WebpayConfig{
		CommerceCode: "597055555532",
		APIKey:       "test-key",
		BaseURL:      server.URL,
		Timeout:      5 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Create(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, transactionsPath, r.URL.Path)
		assert.Equal(t, "597055555532", r.Header.Get(headerAPIKeyID))
		assert.Equal(t, "test-key", r.Header.Get(headerAPIKeySecret))

		var body createRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "OC-1", body.BuyOrder)
		assert.Equal(t, int64(15990), body.Amount)
		assert.Equal(t, "http://localhost:5000/retorno-webpay", body.ReturnURL)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"01ab","url":"https://webpay3gint.transbank.cl/webpayserver/initTransaction"}`))
	})

	resp, err := client.Create(context.Background(), &service.PaymentCreateRequest{
		BuyOrder:  "OC-1",
		SessionID: "7",
		Amount:    15990,
		ReturnURL: "http://localhost:5000/retorno-webpay",
	})
	require.NoError(t, err)
	assert.Equal(t, "01ab", resp.Token)
	assert.Contains(t, resp.URL, "initTransaction")
}

func TestClient_CreateMissingToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.Create(context.Background(), &service.PaymentCreateRequest{BuyOrder: "OC-1", Amount: 1})
	assert.ErrorContains(t, err, "missing token")
}

func TestClient_Commit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, transactionsPath+"/01ab", r.URL.Path)

		_, _ = w.Write([]byte(`{
			"vci":"TSY","amount":15990,"status":"AUTHORIZED","buy_order":"OC-1","session_id":"7",
			"card_detail":{"card_number":"6623"},"accounting_date":"0510",
			"transaction_date":"2024-05-10T15:30:12.345Z","authorization_code":"1213",
			"payment_type_code":"VN","response_code":0,"installments_number":0}`))
	})

	resp, err := client.Commit(context.Background(), "01ab")
	require.NoError(t, err)
	assert.True(t, resp.Authorized())
	assert.Equal(t, "6623", resp.CardNumber)
	assert.Equal(t, "1213", resp.AuthorizationCode)
	require.NotNil(t, resp.TransactionDate)
	assert.Equal(t, 2024, resp.TransactionDate.Year())
}

func TestClient_CommitRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"FAILED","response_code":-1,"amount":15990,"buy_order":"OC-1"}`))
	})

	resp, err := client.Commit(context.Background(), "01ab")
	require.NoError(t, err)
	assert.False(t, resp.Authorized())
}

func TestClient_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error_message":"Invalid status 2 for transaction while authorizing"}`))
	})

	_, err := client.Commit(context.Background(), "01ab")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "Invalid status")
}

func TestClient_StatusAndRefund(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == transactionsPath+"/01ab":
			_, _ = w.Write([]byte(`{"status":"AUTHORIZED","response_code":0,"amount":15990,"balance":15990}`))
		case r.Method == http.MethodPost && r.URL.Path == transactionsPath+"/01ab/refunds":
			var body refundRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, int64(15990), body.Amount)
			_, _ = w.Write([]byte(`{"type":"NULLIFIED","authorization_code":"123456","nullified_amount":15990.00,"balance":0.00,"response_code":0}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	status, err := client.Status(context.Background(), "01ab")
	require.NoError(t, err)
	assert.Equal(t, "AUTHORIZED", status.Status)
	assert.Equal(t, int64(15990), status.Balance)

	refund, err := client.Refund(context.Background(), "01ab", 15990)
	require.NoError(t, err)
	assert.Equal(t, "NULLIFIED", refund.Type)
	assert.Equal(t, int64(15990), refund.NullifiedAmount)
	assert.Zero(t, refund.Balance)
}

func TestNewClient_SelectsHostByEnvironment(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	live := newClient(&config.WebpayConfig{Environment: "LIVE"}, logger)
	assert.Equal(t, ProductionHost+transactionsPath, live.http.BaseURL)

	test := newClient(&config.WebpayConfig{Environment: "TEST"}, logger)
	assert.Equal(t, IntegrationHost+transactionsPath, test.http.BaseURL)
}
