package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// loadEnv pulls in a local .env when present; otherwise the process
// environment is used as-is.
func loadEnv() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, relying on system environment variables")
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func databaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getenv("DB_HOST", "localhost"),
		getenv("DB_PORT", "5432"),
		getenv("DB_USER", "postgres"),
		getenv("DB_PASSWORD", "postgres"),
		getenv("DB_NAME", "marketplace"),
	)
}

func serverPort() string {
	return getenv("PORT", "8080")
}
