package qrcode

import (
	"encoding/json"
	"testing"

	"ferremas/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
		{"Default size", 0, "M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewQRCodeService(tt.size, tt.errorCorrectionLevel)
			assert.NotNil(t, svc)
		})
	}
}

func TestQRCodeService_GeneratePickupQR(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	qrBytes, err := svc.GeneratePickupQR(7, "OC-7")
	require.NoError(t, err)
	require.Greater(t, len(qrBytes), 4)

	// PNG magic number
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, qrBytes[:4])
}

func TestQRCodeService_ParsePickupQR(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	jsonData, err := json.Marshal(service.PickupQRData{OrderID: 7, BuyOrder: "OC-7", Type: "pickup"})
	require.NoError(t, err)

	parsed, err := svc.ParsePickupQR(string(jsonData))
	require.NoError(t, err)
	assert.Equal(t, uint(7), parsed.OrderID)
	assert.Equal(t, "OC-7", parsed.BuyOrder)
}

func TestQRCodeService_ParsePickupQR_Invalid(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	tests := []struct {
		name string
		data string
		want string
	}{
		{"invalid json", "invalid json", "failed to unmarshal QR code data"},
		{"wrong type", `{"order_id":1,"buy_order":"OC-1","type":"subscription"}`, "invalid QR code type"},
		{"missing order", `{"buy_order":"OC-1","type":"pickup"}`, "incomplete QR code data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ParsePickupQR(tt.data)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
