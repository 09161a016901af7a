package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port          string   `envconfig:"PORT" default:":8080"`
	MongoURI      string   `envconfig:"MONGO_URL" required:"true"`
	MongoDatabase string   `envconfig:"MONGO_DATABASE" default:"covercart"`
	LogLevel      string   `envconfig:"LOG_LEVEL" default:"info"`
	AllowOrigins  []string `envconfig:"ALLOW_ORIGINS" default:"http://localhost:3000"`

	JWTSecret         string `envconfig:"JWT_SECRET" required:"true"`
	AdminUsername     string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`

	CourierBaseURL   string        `envconfig:"COURIER_BASE_URL"`
	CourierAPIKey    string        `envconfig:"COURIER_API_KEY"`
	CourierSecretKey string        `envconfig:"COURIER_SECRET_KEY"`
	CourierTimeout   time.Duration `envconfig:"COURIER_TIMEOUT" default:"10s"`
}

// Load reads .env if present, then fills the config from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			log.Println("No .env file found, using environment variables only")
		} else {
			log.Printf("Warning: error loading .env file: %v", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
