package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "16M"
	defaultPublicBaseURL      = "http://localhost:5000"

	// Transbank publishes these credentials for the Webpay Plus integration environment.
	defaultWebpayCommerceCode = "597055555532"
	defaultWebpayAPIKey       = "579B532A7440BB0C9079DED94D31EA1615BACEB56610332264630D42D0A36B1C"

	defaultBCentralBaseURL = "https://si3.bcentral.cl/SieteRestWS/SieteRestWS.ashx"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		// PublicBaseURL is the externally reachable origin, used to build the Webpay return URL.
		PublicBaseURL string `json:"publicBaseUrl" yaml:"publicBaseUrl"`
		Timeouts      struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	Database *DatabaseConfig `json:"database" yaml:"database"`

	SecretKey SecretKey `json:"secretKey" yaml:"secretKey"`

	GoogleOAuth *GoogleOAuthConfig `json:"googleOAuth" yaml:"googleOAuth"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	// Webpay configuration for the Transbank Webpay Plus gateway
	Webpay *WebpayConfig `json:"webpay" yaml:"webpay"`

	// BCentral configuration for the Banco Central de Chile exchange-rate API
	BCentral *BCentralConfig `json:"bcentral" yaml:"bcentral"`

	Mail *MailConfig `json:"mail" yaml:"mail"`

	// PubSub configuration for order event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// Storage configuration for product images
	Storage *StorageConfig `json:"storage" yaml:"storage"`

	// QRCode configuration for store pickup codes
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`

	Worker *WorkerConfig `json:"worker" yaml:"worker"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

type SecretKey struct {
	Access  string `json:"access" yaml:"access"`
	Refresh string `json:"refresh" yaml:"refresh"`
}

// DatabaseConfig holds schema management options.
type DatabaseConfig struct {
	AutoMigrate bool `json:"autoMigrate" yaml:"autoMigrate"`
}

type GoogleOAuthConfig struct {
	ClientID string `json:"clientId" yaml:"clientId"`
	// Mock accepts any ID token and signs in a fixed test identity.
	Mock bool `json:"mock" yaml:"mock"`
}

// AuthConfig defines authentication-related configuration
type AuthConfig struct {
	BcryptCost        int `json:"bcryptCost" yaml:"bcryptCost"`
	MinPasswordLength int `json:"minPasswordLength" yaml:"minPasswordLength"`
}

// WebpayConfig defines the Webpay Plus commerce credentials.
type WebpayConfig struct {
	CommerceCode string `json:"commerceCode" yaml:"commerceCode"`
	APIKey       string `json:"apiKey" yaml:"apiKey"`
	// Environment is TEST (integration) or LIVE (production).
	Environment string `json:"environment" yaml:"environment"`
	// BaseURL overrides the host derived from Environment.
	BaseURL string        `json:"baseUrl" yaml:"baseUrl"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// BCentralConfig defines the Banco Central SieteRestWS credentials and cache.
type BCentralConfig struct {
	Email     string        `json:"email" yaml:"email"`
	Password  string        `json:"password" yaml:"password"`
	BaseURL   string        `json:"baseUrl" yaml:"baseUrl"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout"`
	CacheSize int           `json:"cacheSize" yaml:"cacheSize"`
	CacheTTL  time.Duration `json:"cacheTtl" yaml:"cacheTtl"`
}

// MailConfig defines the SMTP relay used for receipts and contact messages.
type MailConfig struct {
	Host             string `json:"host" yaml:"host"`
	Port             int    `json:"port" yaml:"port"`
	Username         string `json:"username" yaml:"username"`
	Password         string `json:"password" yaml:"password"`
	DefaultSender    string `json:"defaultSender" yaml:"defaultSender"`
	ContactRecipient string `json:"contactRecipient" yaml:"contactRecipient"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "inline" (in-process), "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`

	// VerifyPushAuth enables OIDC token validation on the worker push endpoint
	VerifyPushAuth bool `json:"verifyPushAuth" yaml:"verifyPushAuth"`

	// PushAudience is the expected audience of push OIDC tokens; empty derives it from the request URL.
	PushAudience string `json:"pushAudience" yaml:"pushAudience"`
}

// StorageConfig defines where uploaded product images are written.
type StorageConfig struct {
	// BucketURL is a gocloud.dev blob URL, e.g. file:///var/ferremas/uploads or mem://.
	BucketURL string `json:"bucketUrl" yaml:"bucketUrl"`
	// PublicBaseURL is prepended to object keys when building image URLs.
	PublicBaseURL string `json:"publicBaseUrl" yaml:"publicBaseUrl"`
}

// QRCodeConfig defines QR code generation configuration
type QRCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
}

// WorkerConfig defines the mail worker listener.
type WorkerConfig struct {
	Port int `json:"port" yaml:"port"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate

			break
		}
	}

	if configFile == "" {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// WEBPAY_APIKEY -> webpay.apiKey (not webpay.apikey)
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	// POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, ...
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if cfg.HTTP.PublicBaseURL == "" {
		cfg.HTTP.PublicBaseURL = defaultPublicBaseURL
	}
	cfg.HTTP.PublicBaseURL = strings.TrimRight(cfg.HTTP.PublicBaseURL, "/")

	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Auth.MinPasswordLength <= 0 {
		cfg.Auth.MinPasswordLength = 6
	}

	if cfg.Webpay == nil {
		cfg.Webpay = &WebpayConfig{}
	}
	if cfg.Webpay.CommerceCode == "" || cfg.Webpay.APIKey == "" {
		cfg.Webpay.CommerceCode = defaultWebpayCommerceCode
		cfg.Webpay.APIKey = defaultWebpayAPIKey
		cfg.Webpay.Environment = "TEST"
	}
	if cfg.Webpay.Environment == "" {
		cfg.Webpay.Environment = "TEST"
	}
	if cfg.Webpay.Timeout <= 0 {
		cfg.Webpay.Timeout = 30 * time.Second
	}

	if cfg.BCentral == nil {
		cfg.BCentral = &BCentralConfig{}
	}
	if cfg.BCentral.BaseURL == "" {
		cfg.BCentral.BaseURL = defaultBCentralBaseURL
	}
	if cfg.BCentral.Timeout <= 0 {
		cfg.BCentral.Timeout = 10 * time.Second
	}
	if cfg.BCentral.CacheSize <= 0 {
		cfg.BCentral.CacheSize = 32
	}
	if cfg.BCentral.CacheTTL <= 0 {
		cfg.BCentral.CacheTTL = time.Hour
	}

	if cfg.Mail == nil {
		cfg.Mail = &MailConfig{Host: "smtp.gmail.com", Port: 587}
	}
	if cfg.Mail.ContactRecipient == "" {
		cfg.Mail.ContactRecipient = cfg.Mail.DefaultSender
	}

	if cfg.Database == nil {
		cfg.Database = &DatabaseConfig{}
	}
	if cfg.GoogleOAuth == nil {
		cfg.GoogleOAuth = &GoogleOAuthConfig{}
	}
	if cfg.PubSub == nil {
		cfg.PubSub = &PubSubConfig{Provider: "inline"}
	}
	if cfg.Storage == nil {
		cfg.Storage = &StorageConfig{BucketURL: "mem://"}
	}
	if cfg.QRCode == nil {
		cfg.QRCode = &QRCodeConfig{Size: 256, ErrorCorrectionLevel: "M"}
	}
	if cfg.Worker == nil {
		cfg.Worker = &WorkerConfig{Port: 8081}
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv reads POSTGRES_REPLICAS_{index}_{HOST,PORT,USERNAME,PASSWORD}.
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			break
		}

		replicas = append(replicas, postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		})
	}

	return replicas
}
