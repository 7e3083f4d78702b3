package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	Port         string
	SiteURL      string
	CatalogFile  string
	PexelsAPIKey string
	BucketName   string
	DatabasePath string
	ContactEmail string
	LogLevel     string
	ViewsDir     string
	PublicDir    string
	AdminKey     string
	SMTP         SMTPConfig

	// AllowPlaceholders lets visitors open placeholder slots in the lightbox
	AllowPlaceholders bool
}

// SMTPConfig holds the mail relay used for inquiry notifications
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// ErrInvalidPort is returned when PORT is not a valid TCP port
var ErrInvalidPort = errors.New("PORT must be a number between 1 and 65535")

// ErrInvalidSiteURL is returned when SITE_URL is not an absolute http(s) URL
var ErrInvalidSiteURL = errors.New("SITE_URL must be an absolute http or https URL")

// ErrInvalidSMTPPort is returned when SMTP_PORT is set but not a number
var ErrInvalidSMTPPort = errors.New("SMTP_PORT must be a number")

// ErrInvalidAllowPlaceholders is returned when ALLOW_PLACEHOLDERS is not a boolean
var ErrInvalidAllowPlaceholders = errors.New("ALLOW_PLACEHOLDERS must be true or false")

const (
	defaultPort         = "8080"
	defaultSiteURL      = "https://signal.com"
	defaultDatabasePath = "signal.db"
	defaultViewsDir     = "./views"
	defaultPublicDir    = "./public"
	defaultSMTPPort     = 587
)

// Load loads configuration from environment variables
func Load() (*Config, error) {
	port := getEnv("PORT", defaultPort)
	if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
		return nil, ErrInvalidPort
	}

	siteURL := strings.TrimRight(getEnv("SITE_URL", defaultSiteURL), "/")
	u, err := url.Parse(siteURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidSiteURL
	}

	smtpPort := defaultSMTPPort
	if v := os.Getenv("SMTP_PORT"); v != "" {
		smtpPort, err = strconv.Atoi(v)
		if err != nil {
			return nil, ErrInvalidSMTPPort
		}
	}

	allowPlaceholders := false
	if v := os.Getenv("ALLOW_PLACEHOLDERS"); v != "" {
		allowPlaceholders, err = strconv.ParseBool(v)
		if err != nil {
			return nil, ErrInvalidAllowPlaceholders
		}
	}

	return &Config{
		Port:         port,
		SiteURL:      siteURL,
		CatalogFile:  os.Getenv("CATALOG_FILE"),
		PexelsAPIKey: os.Getenv("PEXELS_API_KEY"),
		BucketName:   os.Getenv("BUCKET_NAME"),
		DatabasePath: getEnv("DATABASE_PATH", defaultDatabasePath),
		ContactEmail: os.Getenv("CONTACT_EMAIL"),
		LogLevel:     strings.ToLower(os.Getenv("LOG_LEVEL")),
		ViewsDir:     getEnv("VIEWS_DIR", defaultViewsDir),
		PublicDir:    getEnv("PUBLIC_DIR", defaultPublicDir),
		AdminKey:     os.Getenv("ADMIN_KEY"),
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
		AllowPlaceholders: allowPlaceholders,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ServerAddress returns the server address with port
func (c *Config) ServerAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// StockEnabled reports whether the stock media API can be queried
func (c *Config) StockEnabled() bool {
	return c.PexelsAPIKey != ""
}

// BucketEnabled reports whether a storage bucket is configured
func (c *Config) BucketEnabled() bool {
	return c.BucketName != ""
}

// AdminEnabled reports whether the admin routes are mounted
func (c *Config) AdminEnabled() bool {
	return c.AdminKey != ""
}

// MailEnabled reports whether inquiry notifications can be sent
func (c *Config) MailEnabled() bool {
	return c.SMTP.Host != "" && c.ContactEmail != ""
}

// PrintServerStartMessage prints a message when the server starts
func (c *Config) PrintServerStartMessage() {
	fmt.Printf("Starting server at port %s\n", c.Port)
	fmt.Printf("Gallery URL: http://localhost:%s/\n", c.Port)
	fmt.Printf("Catalog API: http://localhost:%s/api/catalog/selected\n", c.Port)
	if c.AdminEnabled() {
		fmt.Printf("Admin URL: http://localhost:%s/%s/admin\n", c.Port, c.AdminKey)
	}
}
