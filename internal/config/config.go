package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Circle       CircleConfig
	Pricing      PricingConfig
	ChannelToken ChannelTokenConfig
	Blockchain   BlockchainConfig
	Engine       EngineConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// CircleConfig holds Circle sandbox API credentials
type CircleConfig struct {
	APIKey  string
	BaseURL string
}

// PricingConfig holds price oracle settings
type PricingConfig struct {
	CoinGeckoBaseURL string
	CacheTTL         time.Duration
}

// ChannelTokenConfig holds merchant websocket channel token settings
type ChannelTokenConfig struct {
	Secret string
	Expiry time.Duration
}

// BlockchainConfig holds blockchain RPC URLs
type BlockchainConfig struct {
	SepoliaRPC       string
	AvalancheFujiRPC string
	BaseSepoliaRPC   string
	RelayPrivateKey  string
}

// EngineConfig holds payment execution settings
type EngineConfig struct {
	MinAmountOut     string
	SubmitTimeout    time.Duration
	HistoryRetention int
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "blinkpay"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		Circle: CircleConfig{
			APIKey:  getEnv("CIRCLE_API_KEY", ""),
			BaseURL: getEnv("CIRCLE_BASE_URL", "https://api-sandbox.circle.com"),
		},
		Pricing: PricingConfig{
			CoinGeckoBaseURL: getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
			CacheTTL:         getEnvAsDuration("PRICE_CACHE_TTL", 30*time.Second),
		},
		ChannelToken: ChannelTokenConfig{
			Secret: getEnv("CHANNEL_TOKEN_SECRET", "change-this-in-production"),
			Expiry: getEnvAsDuration("CHANNEL_TOKEN_EXPIRY", 24*time.Hour),
		},
		Blockchain: BlockchainConfig{
			SepoliaRPC:       getEnv("SEPOLIA_RPC_URL", "https://ethereum-sepolia-rpc.publicnode.com"),
			AvalancheFujiRPC: getEnv("AVALANCHE_FUJI_RPC_URL", "https://api.avax-test.network/ext/bc/C/rpc"),
			BaseSepoliaRPC:   getEnv("BASE_SEPOLIA_RPC_URL", "https://sepolia.base.org"),
			RelayPrivateKey:  getEnv("RELAY_PRIVATE_KEY", ""),
		},
		Engine: EngineConfig{
			MinAmountOut:     getEnv("ENGINE_MIN_AMOUNT_OUT", "0"),
			SubmitTimeout:    getEnvAsDuration("ENGINE_SUBMIT_TIMEOUT", 90*time.Second),
			HistoryRetention: getEnvAsInt("ENGINE_HISTORY_RETENTION", 100),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
