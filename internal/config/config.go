package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	AuthSecret      string
	AccessTokenTTL  time.Duration
	SeedDemo        bool
	LoginRatePerMin int

	OTLPEndpoint string

	RedisAddr     string
	RedisPassword string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	AI AIConfig
}

// AIConfig holds third-party text generation settings.
type AIConfig struct {
	DefaultProvider string
	OpenAIKey       string
	AnthropicKey    string
	GeminiKey       string
	Timeout         time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "gelia"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: environment,
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		AuthSecret:      strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),
		AccessTokenTTL:  time.Duration(getenvInt("ACCESS_TOKEN_TTL_MINUTES", 30)) * time.Minute,
		SeedDemo:        getenvBool("SEED_DEMO", false),
		LoginRatePerMin: getenvInt("LOGIN_RATE_PER_MIN", 10),

		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		RedisAddr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "gelia"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 1800),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 300),

		AI: AIConfig{
			DefaultProvider: strings.ToLower(getenv("AI_DEFAULT_PROVIDER", "openai")),
			OpenAIKey:       strings.TrimSpace(getenv("OPENAI_API_KEY", "")),
			AnthropicKey:    strings.TrimSpace(getenv("ANTHROPIC_API_KEY", "")),
			GeminiKey:       strings.TrimSpace(getenv("GEMINI_API_KEY", "")),
			Timeout:         time.Duration(getenvInt("AI_TIMEOUT_SECONDS", 30)) * time.Second,
		},
	}

	return cfg
}

func getenv(key, def string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
