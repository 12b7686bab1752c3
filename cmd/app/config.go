package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "bloglist-development-secret"

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Environment    string   `mapstructure:"ENVIRONMENT"`
	Version        string   `mapstructure:"VERSION"`
	TrustedOrigins []string `mapstructure:"TRUSTED_ORIGINS"`

	RateLimitEnabled bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	RateLimitRPS     float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int     `mapstructure:"RATE_LIMIT_BURST"`

	StoreDriver       string `mapstructure:"STORE_DRIVER"`
	MongoURI          string `mapstructure:"MONGO_URI"`
	MongoDatabase     string `mapstructure:"MONGO_DATABASE"`
	MongoTransactions bool   `mapstructure:"MONGO_TRANSACTIONS"`

	DBHost     string `mapstructure:"POSTGRES_HOST"`
	DBPort     string `mapstructure:"POSTGRES_PORT"`
	DBUser     string `mapstructure:"POSTGRES_USER"`
	DBPassword string `mapstructure:"POSTGRES_PASSWORD"`
	DBName     string `mapstructure:"POSTGRES_DB"`

	JWTSecret           string        `mapstructure:"JWT_SECRET"`
	JWTTTL              time.Duration `mapstructure:"JWT_TTL"`
	CacheTTL            time.Duration `mapstructure:"CACHE_TTL"`
	UpdateRequiresOwner bool          `mapstructure:"UPDATE_REQUIRES_OWNER"`

	MailHost      string `mapstructure:"MAIL_HOST"`
	MailPort      int    `mapstructure:"MAIL_PORT"`
	MailUser      string `mapstructure:"MAIL_USER"`
	MailPassword  string `mapstructure:"MAIL_PASSWORD"`
	MailSender    string `mapstructure:"MAIL_SENDER"`
	MailRecipient string `mapstructure:"MAIL_RECIPIENT"`

	MQHost     string `mapstructure:"RABBITMQ_HOST"`
	MQPort     string `mapstructure:"RABBITMQ_PORT"`
	MQUser     string `mapstructure:"RABBITMQ_USER"`
	MQPassword string `mapstructure:"RABBITMQ_PASSWORD"`

	LogFormat   string `mapstructure:"LOG_FORMAT"`
	LogFile     string `mapstructure:"LOG_FILE"`
	TLSCertFile string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"TLS_KEY_FILE"`
}

var defaults = map[string]any{
	"PORT":                  ":3003",
	"ENVIRONMENT":           "development",
	"VERSION":               "1.0.0",
	"TRUSTED_ORIGINS":       "",
	"RATE_LIMIT_ENABLED":    true,
	"RATE_LIMIT_RPS":        2,
	"RATE_LIMIT_BURST":      4,
	"STORE_DRIVER":          "mongo",
	"MONGO_URI":             "mongodb://localhost:27017",
	"MONGO_DATABASE":        "bloglist",
	"MONGO_TRANSACTIONS":    false,
	"POSTGRES_HOST":         "localhost",
	"POSTGRES_PORT":         "5432",
	"POSTGRES_USER":         "postgres",
	"POSTGRES_PASSWORD":     "",
	"POSTGRES_DB":           "bloglist",
	"JWT_SECRET":            defaultJWTSecret,
	"JWT_TTL":               "1h",
	"CACHE_TTL":             "5m",
	"UPDATE_REQUIRES_OWNER": false,
	"MAIL_HOST":             "",
	"MAIL_PORT":             587,
	"MAIL_USER":             "",
	"MAIL_PASSWORD":         "",
	"MAIL_SENDER":           "",
	"MAIL_RECIPIENT":        "",
	"RABBITMQ_HOST":         "",
	"RABBITMQ_PORT":         "5672",
	"RABBITMQ_USER":         "guest",
	"RABBITMQ_PASSWORD":     "guest",
	"LOG_FORMAT":            "text",
	"LOG_FILE":              "",
	"TLS_CERT_FILE":         "",
	"TLS_KEY_FILE":          "",
}

// loadConfig reads the dotenv file at path if it exists. Environment variables win over the file.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "mongo", "postgres":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	if c.Environment == "production" && c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be changed in production")
	}

	return nil
}
