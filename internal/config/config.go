package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"cryptostore/internal/domain"
)

type Config struct {
	HTTPPort int

	DBConfig struct {
		Host     string
		Port     int
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	MigrationsPath string
	CatalogPath    string

	QuoteBaseURL    string
	QuoteAPIKey     string
	QuoteTimeout    time.Duration
	RefreshInterval time.Duration

	KafkaBrokerURL     string
	KafkaPaymentsTopic string
	OutboxPollInterval time.Duration
	OutboxPollTimeout  time.Duration

	// AdminToken guards /admin and /api/payments. Empty means the admin
	// surfaces are disabled, not open.
	AdminToken string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	cfg.HTTPPort = getEnvAsInt("HTTP_PORT", 8080)

	cfg.DBConfig.Host = getEnvOrDefault("STORE_DB_HOST", "localhost")
	cfg.DBConfig.Port = getEnvAsInt("STORE_DB_PORT", 5432)
	cfg.DBConfig.User = getEnvOrDefault("STORE_DB_USER", "cryptostore")
	cfg.DBConfig.Password = os.Getenv("STORE_DB_PASSWORD")
	cfg.DBConfig.Name = getEnvOrDefault("STORE_DB_NAME", "cryptostore")
	cfg.DBConfig.SSLMode = getEnvOrDefault("STORE_DB_SSLMODE", "disable")

	cfg.MigrationsPath = getEnvOrDefault("MIGRATIONS_PATH", "migrations")
	cfg.CatalogPath = os.Getenv("COIN_CATALOG_PATH")

	cfg.QuoteBaseURL = getEnvOrDefault("QUOTE_BASE_URL", "https://api.coingecko.com/api/v3")
	cfg.QuoteAPIKey = os.Getenv("QUOTE_API_KEY")
	cfg.QuoteTimeout = getEnvAsDuration("QUOTE_TIMEOUT", 10*time.Second)
	cfg.RefreshInterval = getEnvAsDuration("PRICE_REFRESH_INTERVAL", 60*time.Second)

	cfg.KafkaBrokerURL = getEnvOrDefault("KAFKA_BROKER_URL", "localhost:9092")
	cfg.KafkaPaymentsTopic = getEnvOrDefault("KAFKA_PAYMENTS_TOPIC", "payment_events")
	cfg.OutboxPollInterval = getEnvAsDuration("OUTBOX_POLL_INTERVAL", 1*time.Second)
	cfg.OutboxPollTimeout = getEnvAsDuration("OUTBOX_POLL_TIMEOUT", 500*time.Millisecond)

	cfg.AdminToken = os.Getenv("ADMIN_API_TOKEN")

	return cfg, nil
}

func (c *Config) GetDBConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBConfig.Host, c.DBConfig.Port, c.DBConfig.User, c.DBConfig.Password, c.DBConfig.Name, c.DBConfig.SSLMode)
}

func (c *Config) GetDBMigrationConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBConfig.User, c.DBConfig.Password, c.DBConfig.Host, c.DBConfig.Port, c.DBConfig.Name, c.DBConfig.SSLMode)
}

func (c *Config) GetKafkaBrokers() []string {
	return strings.Split(c.KafkaBrokerURL, ",")
}

type catalogFile struct {
	Coins []domain.Coin `yaml:"coins"`
}

// LoadCatalog reads the coin catalog from a YAML file, or returns the
// built-in default catalog when no path is configured.
func LoadCatalog(path string) ([]domain.Coin, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if len(f.Coins) == 0 {
		return nil, fmt.Errorf("catalog %s contains no coins", path)
	}
	for i, coin := range f.Coins {
		if coin.Symbol == "" || coin.ProviderID == "" {
			return nil, fmt.Errorf("catalog entry %d is missing symbol or provider_id", i)
		}
	}
	return f.Coins, nil
}

// DefaultCatalog is the compiled-in coin set with fallback prices served
// until the first successful refresh.
func DefaultCatalog() []domain.Coin {
	return []domain.Coin{
		{Symbol: "BTC", Name: "Bitcoin", ProviderID: "bitcoin", Icon: "bitcoin", Color: "#f7931a", Price: 111363.67},
		{Symbol: "ETH", Name: "Ethereum", ProviderID: "ethereum", Icon: "ethereum", Color: "#627eea", Price: 4415.51},
		{Symbol: "BNB", Name: "BNB", ProviderID: "binancecoin", Icon: "bnb", Color: "#f3ba2f", Price: 587.25},
		{Symbol: "ADA", Name: "Cardano", ProviderID: "cardano", Icon: "cardano", Color: "#0033ad", Price: 0.735},
		{Symbol: "SOL", Name: "Solana", ProviderID: "solana", Icon: "solana", Color: "#9945ff", Price: 204.75},
		{Symbol: "DOT", Name: "Polkadot", ProviderID: "polkadot", Icon: "polkadot", Color: "#e6007a", Price: 8.45},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnvOrDefault(key, strconv.Itoa(defaultValue))
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnvOrDefault(key, defaultValue.String())
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
