package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds runtime configuration loaded from the environment.
type Config struct {
	Port          string
	MongoURI      string
	DBName        string
	JWTSecret     string
	TokenExpiry   time.Duration
	UploadDir     string
	PublicBaseURL string
	CORSOrigin    string
}

// LoadConfig reads configuration from a .env file (if present) and the
// process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:        getEnv("DB_NAME", "travel_planner"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenExpiry:   time.Duration(getEnvInt("TOKEN_EXPIRY_HOURS", 24)) * time.Hour,
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.WithField("key", key).Warnf("Invalid integer %q, using default %d", value, fallback)
		return fallback
	}
	return n
}
