package configs

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	JWTSecret        string
	JWTRefreshSecret string
	FcmEndpoint      string
	FcmServerKey     string
)

// LoadEnv loads .env in local development and pulls the secrets the app
// needs into package variables. Hosted environments provide real env vars.
func LoadEnv() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			logrus.Warn("no .env file found, using system environment")
		}
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")
	FcmEndpoint = GetEnv("FCM_ENDPOINT")
	FcmServerKey = GetEnv("FCM_SERVER_KEY")

	if JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is not set")
	}
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

func GetEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
