package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Mongo        MongoConfig
	Mail         MailConfig
	Cloudinary   CloudinaryConfig
	Admin        AdminConfig
	Order        OrderConfig
	Notification NotificationConfig
	Newsletter   NewsletterConfig
	Log          LogConfig
}

type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type MongoConfig struct {
	URI      string
	Database string
}

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
	Timeout  time.Duration
}

// Enabled reports whether SMTP credentials are present.
func (m MailConfig) Enabled() bool {
	return m.User != "" && m.Password != ""
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type AdminConfig struct {
	DefaultEmail    string
	DefaultPassword string
	DefaultName     string
}

type OrderConfig struct {
	StatusTxTimeout  time.Duration
	MaxRetryAttempts int
}

type NotificationConfig struct {
	Timeout time.Duration
}

type NewsletterConfig struct {
	WebsiteURL  string
	SendTimeout time.Duration
}

type LogConfig struct {
	Level    string
	Encoding string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", 3001)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "wego")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "wego_ecommerce")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "wego_ecommerce")
	v.SetDefault("EMAIL_HOST", "smtp.gmail.com")
	v.SetDefault("EMAIL_PORT", 587)
	v.SetDefault("EMAIL_USER", "")
	v.SetDefault("EMAIL_PASSWORD", "")
	v.SetDefault("EMAIL_FROM", "")
	v.SetDefault("EMAIL_FROM_NAME", "Wego Connect")
	v.SetDefault("EMAIL_TIMEOUT", "30s")
	v.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	v.SetDefault("CLOUDINARY_API_KEY", "")
	v.SetDefault("CLOUDINARY_API_SECRET", "")
	v.SetDefault("CLOUDINARY_FOLDER", "wego-products")
	v.SetDefault("ADMIN_DEFAULT_EMAIL", "")
	v.SetDefault("ADMIN_DEFAULT_PASSWORD", "")
	v.SetDefault("ADMIN_DEFAULT_NAME", "Admin")
	v.SetDefault("ORDER_STATUS_TX_TIMEOUT", "5s")
	v.SetDefault("ORDER_MAX_RETRY_ATTEMPTS", 3)
	v.SetDefault("NOTIFICATION_TIMEOUT", "60s")
	v.SetDefault("WEBSITE_URL", "http://localhost:5173")
	v.SetDefault("NEWSLETTER_SEND_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_ENCODING", "json")

	durations := map[string]*time.Duration{}
	var shutdownTimeout, connMaxLifetime, mailTimeout, statusTxTimeout, notificationTimeout, newsletterTimeout time.Duration
	durations["SERVER_SHUTDOWN_TIMEOUT"] = &shutdownTimeout
	durations["DB_CONN_MAX_LIFETIME"] = &connMaxLifetime
	durations["EMAIL_TIMEOUT"] = &mailTimeout
	durations["ORDER_STATUS_TX_TIMEOUT"] = &statusTxTimeout
	durations["NOTIFICATION_TIMEOUT"] = &notificationTimeout
	durations["NEWSLETTER_SEND_TIMEOUT"] = &newsletterTimeout

	for key, target := range durations {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		*target = d
	}

	from := v.GetString("EMAIL_FROM")
	if from == "" {
		from = v.GetString("EMAIL_USER")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: shutdownTimeout,
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DATABASE"),
		},
		Mail: MailConfig{
			Host:     v.GetString("EMAIL_HOST"),
			Port:     v.GetInt("EMAIL_PORT"),
			User:     v.GetString("EMAIL_USER"),
			Password: v.GetString("EMAIL_PASSWORD"),
			From:     from,
			FromName: v.GetString("EMAIL_FROM_NAME"),
			Timeout:  mailTimeout,
		},
		Cloudinary: CloudinaryConfig{
			CloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    v.GetString("CLOUDINARY_API_KEY"),
			APISecret: v.GetString("CLOUDINARY_API_SECRET"),
			Folder:    v.GetString("CLOUDINARY_FOLDER"),
		},
		Admin: AdminConfig{
			DefaultEmail:    v.GetString("ADMIN_DEFAULT_EMAIL"),
			DefaultPassword: v.GetString("ADMIN_DEFAULT_PASSWORD"),
			DefaultName:     v.GetString("ADMIN_DEFAULT_NAME"),
		},
		Order: OrderConfig{
			StatusTxTimeout:  statusTxTimeout,
			MaxRetryAttempts: v.GetInt("ORDER_MAX_RETRY_ATTEMPTS"),
		},
		Notification: NotificationConfig{
			Timeout: notificationTimeout,
		},
		Newsletter: NewsletterConfig{
			WebsiteURL:  strings.TrimRight(v.GetString("WEBSITE_URL"), "/"),
			SendTimeout: newsletterTimeout,
		},
		Log: LogConfig{
			Level:    v.GetString("LOG_LEVEL"),
			Encoding: v.GetString("LOG_ENCODING"),
		},
	}

	if cfg.Order.MaxRetryAttempts < 1 {
		cfg.Order.MaxRetryAttempts = 1
	}

	return cfg, nil
}
