package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	Database DatabaseConfig
	HTTP     HTTPConfig
	Shopify  ShopifyConfig
	Ebay     EbayConfig
	Sync     SyncConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// ShopifyConfig holds source platform API credentials
type ShopifyConfig struct {
	ShopDomain  string // e.g. "my-store.myshopify.com"
	AccessToken string
	APIVersion  string // e.g. "2024-01"
	Timeout     time.Duration
}

// EbayConfig holds marketplace API credentials
type EbayConfig struct {
	BaseURL       string // production or sandbox API host
	OAuthToken    string
	MarketplaceID string // e.g. "EBAY_US"
	Currency      string // e.g. "USD"
	Timeout       time.Duration
}

// SyncConfig holds listing sync behavior settings
type SyncConfig struct {
	AutoSync            bool
	AutoSyncLimit       int
	PaceInterval        time.Duration
	DefaultHandlingDays int
	MerchantLocationKey string
	MerchantAddressLine string
	MerchantCity        string
	MerchantState       string
	MerchantPostalCode  string
	MerchantCountry     string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with LISTBRIDGE_ prefix (e.g., LISTBRIDGE_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("LISTBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			IdleTimeout:  v.GetDuration("http.idle_timeout"),
		},
		Shopify: ShopifyConfig{
			ShopDomain:  v.GetString("shopify.shop_domain"),
			AccessToken: v.GetString("shopify.access_token"),
			APIVersion:  v.GetString("shopify.api_version"),
			Timeout:     v.GetDuration("shopify.timeout"),
		},
		Ebay: EbayConfig{
			BaseURL:       v.GetString("ebay.base_url"),
			OAuthToken:    v.GetString("ebay.oauth_token"),
			MarketplaceID: v.GetString("ebay.marketplace_id"),
			Currency:      v.GetString("ebay.currency"),
			Timeout:       v.GetDuration("ebay.timeout"),
		},
		Sync: SyncConfig{
			AutoSync:            v.GetBool("sync.auto_sync"),
			AutoSyncLimit:       v.GetInt("sync.auto_sync_limit"),
			PaceInterval:        v.GetDuration("sync.pace_interval"),
			DefaultHandlingDays: v.GetInt("sync.default_handling_days"),
			MerchantLocationKey: v.GetString("sync.merchant_location_key"),
			MerchantAddressLine: v.GetString("sync.merchant_address_line"),
			MerchantCity:        v.GetString("sync.merchant_city"),
			MerchantState:       v.GetString("sync.merchant_state"),
			MerchantPostalCode:  v.GetString("sync.merchant_postal_code"),
			MerchantCountry:     v.GetString("sync.merchant_country"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "listbridge"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "listbridge"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.Shopify.APIVersion == "" {
		cfg.Shopify.APIVersion = "2024-01"
	}
	if cfg.Shopify.Timeout == 0 {
		cfg.Shopify.Timeout = 30 * time.Second
	}
	if cfg.Ebay.BaseURL == "" {
		cfg.Ebay.BaseURL = "https://api.ebay.com"
	}
	if cfg.Ebay.MarketplaceID == "" {
		cfg.Ebay.MarketplaceID = "EBAY_US"
	}
	if cfg.Ebay.Currency == "" {
		cfg.Ebay.Currency = "USD"
	}
	if cfg.Ebay.Timeout == 0 {
		cfg.Ebay.Timeout = 30 * time.Second
	}
	if cfg.Sync.AutoSyncLimit == 0 {
		cfg.Sync.AutoSyncLimit = 50
	}
	if cfg.Sync.PaceInterval == 0 {
		cfg.Sync.PaceInterval = 200 * time.Millisecond
	}
	if cfg.Sync.DefaultHandlingDays == 0 {
		cfg.Sync.DefaultHandlingDays = 3
	}
	if cfg.Sync.MerchantLocationKey == "" {
		cfg.Sync.MerchantLocationKey = "default-warehouse"
	}
	if cfg.Sync.MerchantCountry == "" {
		cfg.Sync.MerchantCountry = "US"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Sync.PaceInterval < 0 {
		return fmt.Errorf("sync.pace_interval cannot be negative")
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Shopify.ShopDomain == "" || c.Shopify.AccessToken == "" {
			return fmt.Errorf("shopify.shop_domain and shopify.access_token are required in production")
		}
		if c.Ebay.OAuthToken == "" {
			return fmt.Errorf("ebay.oauth_token is required in production")
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
