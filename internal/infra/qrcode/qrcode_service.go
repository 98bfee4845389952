package qrcode

import (
	"encoding/json"
	"fmt"

	"ferremas/config"
	"ferremas/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

const pickupType = "pickup"

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}
	if size <= 0 {
		size = 256
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// NewFromConfig builds the service from the qrcode config section.
func NewFromConfig(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return NewQRCodeService(0, "")
	}

	return NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

// GeneratePickupQR generates a QR code the store scans when the customer picks up an order
func (s *qrcodeService) GeneratePickupQR(orderID uint, buyOrder string) ([]byte, error) {
	data := service.PickupQRData{
		OrderID:  orderID,
		BuyOrder: buyOrder,
		Type:     pickupType,
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParsePickupQR parses QR code data and returns the pickup payload
func (s *qrcodeService) ParsePickupQR(qrData string) (*service.PickupQRData, error) {
	var data service.PickupQRData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal QR code data: %w", err)
	}

	if data.Type != pickupType {
		return nil, fmt.Errorf("invalid QR code type: %s", data.Type)
	}
	if data.OrderID == 0 || data.BuyOrder == "" {
		return nil, fmt.Errorf("incomplete QR code data")
	}

	return &data, nil
}
