package config

import (
	"fmt"
	"os"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

// Order codes are ORD plus this timestamp plus three millisecond digits.
const ORDER_CODE_TIME_FORMAT = "20060102150405"

const (
	DEFAULT_CURRENCY   = "VND"
	SANDBOX_PAY_URL    = "https://sandbox-pay.example.com"
	DEFAULT_PAGE_SIZE  = 20
	MAX_PAGE_SIZE      = 100
	TOKEN_TTL_DAYS     = 3
	LEGACY_SHA256_HEX  = 64
	ORDERS_KAFKA_TOPIC = "orders"
)
