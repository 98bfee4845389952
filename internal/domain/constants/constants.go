// Package constants defines values shared across layers.
package constants

// Deployment environments
const (
	EnvDevelop    = "develop"
	EnvStaging    = "staging"
	EnvProduction = "production"
)

// Pub/Sub providers
const (
	PubSubProviderInline = "inline"
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Webpay environments
const (
	WebpayEnvironmentTest = "TEST"
	WebpayEnvironmentLive = "LIVE"
)

// Storefront pages the payment flow redirects to.
const (
	WebpayReturnPath   = "/retorno-webpay"
	PaymentReceiptPath = "/comprobante-pago"
)

// Home page listing sizes.
const (
	HomeFeaturedLimit   = 8
	HomePromotionsLimit = 6
)
