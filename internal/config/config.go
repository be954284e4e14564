package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port                      string
	Origin                    string
	Environment               string
	JWTSecret                 string
	JWTRefreshSecret          string
	Database                  DatabaseConfig
	Payment                   PaymentConfig
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
	AppURL                    string
	FrontendURL               string
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// PaymentConfig holds the eSewa-compatible payment gateway settings
type PaymentConfig struct {
	SecretKey   string
	ProductCode string
	FormURL     string
	Amount      float64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "vetconnect"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	paymentAmount, err := strconv.ParseFloat(getEnv("PAYMENT_AMOUNT", "500"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PAYMENT_AMOUNT: %w", err)
	}

	paymentConfig := PaymentConfig{
		SecretKey:   getEnv("ESEWA_SECRET_KEY", "8gBm/:&EnhH.1/q"),
		ProductCode: getEnv("ESEWA_PRODUCT_CODE", "EPAYTEST"),
		FormURL:     getEnv("ESEWA_FORM_URL", "https://rc-epay.esewa.com.np/api/epay/main/v2/form"),
		Amount:      paymentAmount,
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	jwtRefreshExpHours, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168")) // 7 days
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %w", err)
	}

	// Return complete configuration
	return &Config{
		Port:                      getEnv("PORT", "5555"),
		Origin:                    getEnv("ORIGIN", "http://localhost:5173"),
		Environment:               getEnv("APP_ENV", "development"),
		JWTSecret:                 getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTRefreshSecret:          getEnv("JWT_REFRESH_SECRET", "default_refresh_secret"),
		Database:                  dbConfig,
		Payment:                   paymentConfig,
		JWTExpirationMinutes:      jwtExpMinutes,
		JWTRefreshExpirationHours: jwtRefreshExpHours,
		AppURL:                    getEnv("APP_URL", "http://localhost:5555"),
		FrontendURL:               getEnv("FRONTEND_URL", "http://localhost:5173"),
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
