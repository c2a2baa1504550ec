package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	GinMode       string
	JWTSecret     string
	GCSBucket     string
	InviteBaseURL string
	AutoProvision bool
}

func Load() *Config {
	// .env is optional; deployed environments set real variables.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "pickpic"),
		DBPassword:    getEnv("DB_PASSWORD", "pickpic"),
		DBName:        getEnv("DB_NAME", "pickpic"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		JWTSecret:     getEnv("JWT_SECRET", "default-secret-key-change-me"),
		GCSBucket:     getEnv("GCS_BUCKET", "pick-pic"),
		InviteBaseURL: getEnv("INVITE_BASE_URL", "http://localhost:8080/join"),
		AutoProvision: getEnv("AUTO_PROVISION_USERS", "true") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
