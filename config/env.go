package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Logger   LoggerConfig
	Email    EmailConfig
	AI       AIConfig
	Shopify  ShopifyConfig
	Frontend FrontendConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type AuthConfig struct {
	JWTSecret    string
	TokenTTLMins int
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type EmailConfig struct {
	APIKey      string
	BaseURL     string
	SenderEmail string
	SenderName  string
}

type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type ShopifyConfig struct {
	APIKey      string
	APISecret   string
	Scopes      string
	RedirectURL string
}

type FrontendConfig struct {
	BaseURL string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	tokenTTL, _ := strconv.Atoi(getEnv("JWT_TTL_MINUTES", "1440"))

	return Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "wareflow"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			TokenTTLMins: tokenTTL,
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Email: EmailConfig{
			APIKey:      getEnv("EMAIL_API_KEY", ""),
			BaseURL:     getEnv("EMAIL_API_URL", "https://api.brevo.com"),
			SenderEmail: getEnv("EMAIL_SENDER_ADDRESS", "no-reply@wareflow.app"),
			SenderName:  getEnv("EMAIL_SENDER_NAME", "Wareflow"),
		},
		AI: AIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_API_URL", "https://api.openai.com"),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Shopify: ShopifyConfig{
			APIKey:      getEnv("SHOPIFY_API_KEY", ""),
			APISecret:   getEnv("SHOPIFY_API_SECRET", ""),
			Scopes:      getEnv("SHOPIFY_SCOPES", "read_products,read_orders"),
			RedirectURL: getEnv("SHOPIFY_REDIRECT_URL", ""),
		},
		Frontend: FrontendConfig{
			BaseURL: getEnv("FRONTEND_BASE_URL", "http://localhost:5173"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
