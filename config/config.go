package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`

	// Outbound mail relay configuration.
	SMTPHost   string `mapstructure:"SMTP_HOST"`
	SMTPPort   int    `mapstructure:"SMTP_PORT"`
	SMTPUser   string `mapstructure:"SMTP_USER"`
	SMTPPass   string `mapstructure:"SMTP_PASS"`
	SMTPFrom   string `mapstructure:"SMTP_FROM"`
	SMTPSecure bool   `mapstructure:"SMTP_SECURE"` // implicit TLS (port 465 style)

	// Office copy address bcc'd on every confirmation mail.
	OfficeEmail string `mapstructure:"OFFICE_EMAIL"`

	// Timeouts for the mail relay. Each bounds one phase of a send:
	// connection establishment, server greeting, and per-operation I/O.
	SMTPConnectTimeout  time.Duration `mapstructure:"SMTP_CONNECT_TIMEOUT"`
	SMTPGreetingTimeout time.Duration `mapstructure:"SMTP_GREETING_TIMEOUT"`
	SMTPSendTimeout     time.Duration `mapstructure:"SMTP_SEND_TIMEOUT"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASS", "")
	viper.SetDefault("SMTP_FROM", "")
	viper.SetDefault("SMTP_SECURE", false)
	viper.SetDefault("OFFICE_EMAIL", "office@putzelf.com")
	viper.SetDefault("SMTP_CONNECT_TIMEOUT", 30*time.Second)
	viper.SetDefault("SMTP_GREETING_TIMEOUT", 30*time.Second)
	viper.SetDefault("SMTP_SEND_TIMEOUT", 30*time.Second)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
