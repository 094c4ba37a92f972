package config

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var (
	cfg     *APIConfig
	once    sync.Once
	loadErr error
)

// APIConfig represents the root element.
type APIConfig struct {
	XMLName        xml.Name             `xml:"API"`
	RequestDump    bool                 `xml:"REQUEST_DUMP,attr"`
	Context        ContextConfig        `xml:"CONTEXT"`
	Authentication AuthenticationConfig `xml:"AUTHENTICATION"`
	Pagination     PaginationConfig     `xml:"PAGINATION"`
	DB             DBConfig             `xml:"DB"`
	RateLimit      RateLimitConfig      `xml:"RATE_LIMIT"`
	Mail           MailConfig           `xml:"MAIL"`
	Cache          CacheConfig          `xml:"CACHE"`
	Logging        LoggingConfig        `xml:"LOGGING"`
	Scoring        ScoringConfig        `xml:"SCORING"`
}

// ContextConfig holds basic server settings.
type ContextConfig struct {
	Port           int      `xml:"PORT"`
	Host           string   `xml:"HOST"`
	Path           string   `xml:"PATH"`
	TimeZone       string   `xml:"TIME_ZONE"`
	MaxConnections int      `xml:"MAX_CONNECTIONS"`
	AllowedOrigins []string `xml:"ALLOWED_ORIGINS>ORIGIN"`
}

// AuthenticationConfig holds authentication settings.
type AuthenticationConfig struct {
	AccessSecret  string `xml:"ACCESS_SECRET"`
	RefreshSecret string `xml:"REFRESH_SECRET"`
	// SessionTimeout is the access token lifetime in minutes.
	SessionTimeout int `xml:"SESSION_TIMEOUT"`
	// RefreshTimeout is the refresh token lifetime in hours.
	RefreshTimeout int `xml:"REFRESH_TIMEOUT"`
}

// PaginationConfig holds pagination settings.
type PaginationConfig struct {
	PageSize    int `xml:"PAGE_SIZE"`
	MaxPageSize int `xml:"MAX_PAGE_SIZE"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Initialize bool         `xml:"INITIALIZE"`
	Host       string       `xml:"HOST"`
	Port       int          `xml:"PORT"`
	Driver     string       `xml:"DRIVER"`
	SSLMode    string       `xml:"SSL_MODE"`
	Names      DBNames      `xml:"NAMES"`
	Username   string       `xml:"USERNAME"`
	Password   DBPassword   `xml:"PASSWORD"`
	Pool       DBPoolConfig `xml:"POOL"`
}

// DBNames holds the names defined in the DB section.
type DBNames struct {
	Main string `xml:"MAIN,attr"`
}

// DBPassword holds password details.
type DBPassword struct {
	Type  string `xml:"TYPE,attr"`
	Value string `xml:",chardata"`
}

// DBPoolConfig holds database connection pooling settings.
type DBPoolConfig struct {
	MaxOpenConns    int `xml:"MAX_OPEN_CONNS"`
	MaxIdleConns    int `xml:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int `xml:"CONN_MAX_LIFETIME"`
}

// RateLimitConfig bounds public endpoints per client IP.
type RateLimitConfig struct {
	Enabled           bool    `xml:"ENABLED,attr"`
	RequestsPerSecond float64 `xml:"REQUESTS_PER_SECOND"`
	Burst             int     `xml:"BURST"`
}

// MailConfig holds SMTP settings for notifications.
type MailConfig struct {
	Enabled   bool   `xml:"ENABLED,attr"`
	Host      string `xml:"HOST"`
	Port      int    `xml:"PORT"`
	Username  string `xml:"USERNAME"`
	Password  string `xml:"PASSWORD"`
	FromEmail string `xml:"FROM_EMAIL"`
	FromName  string `xml:"FROM_NAME"`
	// NotifyEmail receives a message for every completed game.
	NotifyEmail string `xml:"NOTIFY_EMAIL"`
	GameURL     string `xml:"GAME_URL"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Driver     string `xml:"DRIVER"` // memory | redis
	RedisAddr  string `xml:"REDIS_ADDR"`
	RedisDB    int    `xml:"REDIS_DB"`
	TTLSeconds int    `xml:"TTL_SECONDS"`
}

// LoggingConfig holds log level and rotation settings.
type LoggingConfig struct {
	Level      string `xml:"LEVEL"`
	File       string `xml:"FILE"`
	MaxSizeMB  int    `xml:"MAX_SIZE_MB"`
	MaxBackups int    `xml:"MAX_BACKUPS"`
	MaxAgeDays int    `xml:"MAX_AGE_DAYS"`
}

// ScoringConfig holds the answer type score table.
type ScoringConfig struct {
	AnswerTypes []AnswerTypeScore `xml:"ANSWER_TYPE"`
}

type AnswerTypeScore struct {
	Code  string `xml:"CODE,attr"`
	Score int    `xml:"SCORE,attr"`
}

// CacheTTL returns the configured cache TTL.
func (c CacheConfig) CacheTTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// LoadConfig loads and parses the XML configuration from the given file.
// A .env file next to the process, if any, is loaded first so secrets can be
// supplied through the environment.
func LoadConfig(xmlPath string) (*APIConfig, error) {
	once.Do(func() {
		_ = godotenv.Load()

		f, openErr := os.Open(xmlPath)
		if openErr != nil {
			loadErr = fmt.Errorf("%w: %v", ErrLoadConfig, openErr)
			return
		}
		defer f.Close()

		data, readErr := io.ReadAll(f)
		if readErr != nil {
			loadErr = fmt.Errorf("%w: %v", ErrLoadConfig, readErr)
			return
		}
		cfg, loadErr = Parse(data)
	})
	return cfg, loadErr
}

// Parse decodes an XML document, applies defaults and environment overrides,
// and validates the result.
func Parse(data []byte) (*APIConfig, error) {
	var c APIConfig
	if err := xml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	c.applyDefaults()
	c.applyEnv()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetConfig returns the loaded configuration.
func GetConfig() *APIConfig {
	return cfg
}

func (c *APIConfig) applyDefaults() {
	if c.Context.Port == 0 {
		c.Context.Port = 8080
	}
	if c.Context.Path == "" {
		c.Context.Path = "/api"
	}
	if c.Context.MaxConnections == 0 {
		c.Context.MaxConnections = 1024
	}
	if c.Authentication.SessionTimeout == 0 {
		c.Authentication.SessionTimeout = 15
	}
	if c.Authentication.RefreshTimeout == 0 {
		c.Authentication.RefreshTimeout = 24 * 7
	}
	if c.Pagination.PageSize == 0 {
		c.Pagination.PageSize = 20
	}
	if c.Pagination.MaxPageSize == 0 {
		c.Pagination.MaxPageSize = 200
	}
	if c.DB.Driver == "" {
		c.DB.Driver = "postgres"
	}
	if c.DB.SSLMode == "" {
		c.DB.SSLMode = "disable"
	}
	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 5
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 10
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 300
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Mail.Port == 0 {
		c.Mail.Port = 587
	}
}

func (c *APIConfig) applyEnv() {
	override := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	override(&c.Authentication.AccessSecret, "ASSESSLY_JWT_ACCESS_SECRET")
	override(&c.Authentication.RefreshSecret, "ASSESSLY_JWT_REFRESH_SECRET")
	override(&c.DB.Password.Value, "ASSESSLY_DB_PASSWORD")
	override(&c.Mail.Password, "ASSESSLY_SMTP_PASSWORD")
	override(&c.Cache.RedisAddr, "ASSESSLY_REDIS_ADDR")
}

func (c *APIConfig) validate() error {
	if c.Authentication.AccessSecret == "" || c.Authentication.RefreshSecret == "" {
		return fmt.Errorf("%w: access and refresh secrets are required", ErrInvalidConfig)
	}
	switch c.Cache.Driver {
	case "memory":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("%w: redis cache needs REDIS_ADDR", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown cache driver %q", ErrInvalidConfig, c.Cache.Driver)
	}
	seen := make(map[string]bool, len(c.Scoring.AnswerTypes))
	for _, at := range c.Scoring.AnswerTypes {
		code := strings.TrimSpace(at.Code)
		if code == "" {
			return fmt.Errorf("%w: answer type without CODE", ErrInvalidConfig)
		}
		if seen[code] {
			return fmt.Errorf("%w: duplicate answer type %q", ErrInvalidConfig, code)
		}
		seen[code] = true
	}
	return nil
}

// DSN builds the postgres connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.Username, d.Password.Value, d.Names.Main, d.SSLMode)
}
