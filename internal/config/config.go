package config

import (
	"os"
)

type Config struct {
	DB_USERNAME string
	DB_PASSWORD string
	DB_HOST     string
	DB_PORT     string
	DB_NAME     string
	DISABLE_TLS string

	HTTP_PORT string

	// Key used to sign and verify JWTs. The "12345" fallback matches the
	// legacy deployment default and must be overridden in any real setup.
	JWT_SIGN_KEY string

	// Dev mode surfaces internal error details in API responses.
	IS_DEV bool

	// Otel
	OTEL_EXPORTER_OTLP_ENDPOINT string
}

func ReadConfig() *Config {
	return &Config{
		DB_USERNAME: os.Getenv("DB_USERNAME"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_HOST:     getEnvOrDefault("DB_HOST", "localhost"),
		DB_PORT:     getEnvOrDefault("DB_PORT", "5432"),
		DB_NAME:     getEnvOrDefault("DB_NAME", "task"),
		DISABLE_TLS: os.Getenv("DISABLE_TLS"),

		HTTP_PORT: getEnvOrDefault("HTTP_PORT", "8080"),

		JWT_SIGN_KEY: getEnvOrDefault("JWT_SIGN_KEY", "12345"),

		IS_DEV: getEnvOrDefault("IS_DEV", "true") == "true",

		OTEL_EXPORTER_OTLP_ENDPOINT: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
