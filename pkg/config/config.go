package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	BackendFirestore = "firestore"
	BackendLegacy    = "legacy"

	AuthModeFirebase = "firebase"
	AuthModeLocal    = "local"
)

type Config struct {
	Port                    string        `validate:"required"`
	Env                     string
	LogLevel                string        `validate:"oneof=debug info warn warning error"`
	FirebaseCredentialsPath string
	FirebaseProjectID       string
	DataBackend             string        `validate:"oneof=firestore legacy"`
	PostgresConnStr         string        `validate:"required_if=DataBackend legacy"`
	MongoURI                string        `validate:"required_if=DataBackend legacy"`
	MongoDatabase           string        `validate:"required"`
	PostsCollection         string        `validate:"required,excludesall=/"`
	UsersCollection         string        `validate:"required,excludesall=/"`
	AuthMode                string        `validate:"oneof=firebase local"`
	JWTSecret               string        `validate:"required_if=AuthMode local"`
	FCMDryRun               bool
	ShutdownTimeout         time.Duration `validate:"gt=0"`
}

// Load reads a .env file when present, then the environment, and validates
// the result.
func Load() (*Config, error) {
	// Missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		DataBackend:             getEnv("DATA_BACKEND", BackendFirestore),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "grace_notes"),
		PostsCollection:         getEnv("POSTS_COLLECTION", "community_posts"),
		UsersCollection:         getEnv("USERS_COLLECTION", "users"),
		AuthMode:                getEnv("AUTH_MODE", AuthModeFirebase),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		FCMDryRun:               getEnvBool("FCM_DRY_RUN", false),
		ShutdownTimeout:         getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
