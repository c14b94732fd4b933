package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config carries everything the app reads from the environment, loaded once
// at boot and passed down explicitly.
type Config struct {
	Port string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	JWTSecret         string
	JWTRefreshSecret  string
	JWTExpiryHours    int
	RefreshExpiryDays int

	RateLimitPerSec float64
	RateLimitBurst  int
	CORSOrigins     []string

	PaystackSecretKey   string
	PaystackCallbackURL string

	DefaultWalletBalance float64
	CashbackPercent      float64
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBName:     getEnv("DB_NAME", "insurewise"),

		JWTSecret:         getEnv("JWT_SECRET", "insurewise-dev-secret"),
		JWTRefreshSecret:  getEnv("JWT_REFRESH_SECRET", "insurewise-dev-refresh"),
		JWTExpiryHours:    getEnvInt("JWT_EXPIRY_HOURS", 24),
		RefreshExpiryDays: getEnvInt("JWT_REFRESH_EXPIRY_DAYS", 7),

		RateLimitPerSec: getEnvFloat("RATE_LIMIT_PER_SEC", 5),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 10),
		CORSOrigins:     strings.Split(getEnv("CORS_ORIGINS", "*"), ","),

		PaystackSecretKey:   getEnv("PAYSTACK_SECRET_KEY", ""),
		PaystackCallbackURL: getEnv("PAYSTACK_CALLBACK_URL", ""),

		DefaultWalletBalance: getEnvFloat("DEFAULT_WALLET_BALANCE", 0),
		CashbackPercent:      getEnvFloat("CASHBACK_PERCENT", 0),
	}
}

// DSN builds the mysql connection string from the DB_* parts.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
