package service

// PickupQRData is the payload encoded in a store pickup QR code.
type PickupQRData struct {
	OrderID  uint   `json:"order_id"`
	BuyOrder string `json:"buy_order"`
	Type     string `json:"type"`
}

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GeneratePickupQR generates a PNG QR code for picking up a paid order
	GeneratePickupQR(orderID uint, buyOrder string) ([]byte, error)

	// ParsePickupQR parses QR code data back into its payload
	ParsePickupQR(qrData string) (*PickupQRData, error)
}
