package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cart      CartConfig
	Payment   PaymentConfig
	Messaging MessagingConfig
	Checkout  CheckoutConfig
	Assistant AssistantConfig
	Catalog   CatalogConfig
	S3        S3Config
	JWT       JWTConfig
	Admin     AdminConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// CartConfig selects where the durable cart record lives and how change
// notifications travel. Backend "memory" keeps both in-process.
type CartConfig struct {
	Backend       string
	RecordKey     string
	NotifyChannel string
}

type PaymentConfig struct {
	Mpesa MpesaConfig
}

type MpesaConfig struct {
	BaseURL string
	PayPath string
	Timeout time.Duration
}

type MessagingConfig struct {
	WhatsAppOrderNumber string
}

type CheckoutConfig struct {
	RedirectPath  string
	RedirectDelay time.Duration
}

type AssistantConfig struct {
	BusinessHours  string
	WhatsAppNumber string
	MpesaPayBill   string
	MpesaAccount   string
}

type CatalogConfig struct {
	Source       string // file, s3
	FilePath     string
	S3Key        string
	SyncSchedule string // cron spec, empty disables the scheduler
	SyncOnStart  bool
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

type AdminConfig struct {
	Email        string
	PasswordHash string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "vibeprint"),
			Password: getEnv("DB_PASSWORD", "vibeprint"),
			DBName:   getEnv("DB_NAME", "vibeprint"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Cart: CartConfig{
			Backend:       getEnv("CART_BACKEND", "redis"),
			RecordKey:     getEnv("CART_RECORD_KEY", "cart"),
			NotifyChannel: getEnv("CART_NOTIFY_CHANNEL", "cartUpdated"),
		},
		Payment: PaymentConfig{
			Mpesa: MpesaConfig{
				BaseURL: getEnv("MPESA_BASE_URL", "https://mpesaapi-sbss.onrender.com"),
				PayPath: getEnv("MPESA_PAY_PATH", "/mpesa/pay"),
				Timeout: parseDuration(getEnv("MPESA_TIMEOUT", "30s"), 30*time.Second),
			},
		},
		Messaging: MessagingConfig{
			WhatsAppOrderNumber: getEnv("WHATSAPP_ORDER_NUMBER", "254701643555"),
		},
		Checkout: CheckoutConfig{
			RedirectPath:  getEnv("CHECKOUT_REDIRECT_PATH", "/"),
			RedirectDelay: parseDuration(getEnv("CHECKOUT_REDIRECT_DELAY", "5s"), 5*time.Second),
		},
		Assistant: AssistantConfig{
			BusinessHours:  getEnv("ASSISTANT_BUSINESS_HOURS", "Our working hours are 9:00 AM to 6:00 PM Monday through Saturday. We're closed on Sundays and public holidays."),
			WhatsAppNumber: getEnv("ASSISTANT_WHATSAPP_NUMBER", "+254712345678"),
			MpesaPayBill:   getEnv("ASSISTANT_MPESA_PAYBILL", "123456"),
			MpesaAccount:   getEnv("ASSISTANT_MPESA_ACCOUNT", "VibePrint"),
		},
		Catalog: CatalogConfig{
			Source:       getEnv("CATALOG_SOURCE", "file"),
			FilePath:     getEnv("CATALOG_FILE_PATH", "./data/catalog.json"),
			S3Key:        getEnv("CATALOG_S3_KEY", "catalog/catalog.json"),
			SyncSchedule: getEnv("CATALOG_SYNC_SCHEDULE", "0 * * * *"),
			SyncOnStart:  getEnv("CATALOG_SYNC_ON_START", "true") == "true",
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "af-south-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "vibeprint-catalog"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry: parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "1h"), time.Hour),
		},
		Admin: AdminConfig{
			Email:        getEnv("ADMIN_EMAIL", "admin@vibeprint.co.ke"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
