package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime settings for the service.
type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	InviteBaseURL  string
	InviteTTLHours int // 0 disables the expiry sweep
}

// LoadConfig reads configuration from the environment, loading a .env file
// first when one is present.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment variables")
	}

	ttl := 0
	if raw := os.Getenv("INVITE_TTL_HOURS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			logrus.Warnf("Invalid INVITE_TTL_HOURS %q, expiry sweep disabled", raw)
		} else {
			ttl = parsed
		}
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:         getEnv("DB_NAME", "huddle"),
		InviteBaseURL:  getEnv("INVITE_BASE_URL", "https://huddle.app"),
		InviteTTLHours: ttl,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
