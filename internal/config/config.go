package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	ServerPort string
	JWTSecret  string

	// Bootstrap admin seeded at startup when AdminEmail is set.
	// Registration only ever creates regular users, so the first
	// admin has to come from here.
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		logrus.Warn("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "teamwork_user"),
		DBPassword:    getEnv("DB_PASSWORD", "teamwork_pass"),
		DBName:        getEnv("DB_NAME", "teamwork_db"),
		DBSSLMode:     getEnv("DB_SSL_MODE", "disable"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		JWTSecret:     getEnv("JWT_SECRET", "supersecretkey"),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
