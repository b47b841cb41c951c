package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	NotifierLog   = "log"
	NotifierKafka = "kafka"
	NotifierEmail = "email"
)

type Config struct {
	Env       string
	Addr      string
	DBDSN     string
	DBMigrate bool
	LogLevel  string

	ResetTokenTTL time.Duration
	Password      PasswordConfig

	Notifiers []string
	Kafka     KafkaConfig
	SMTP      SMTPConfig
	ResetURL  string

	CORSOrigins []string
}

type PasswordConfig struct {
	MinLength        int
	MaxLength        int
	RequireLowercase bool
	RequireUppercase bool
	RequireDigit     bool
	RequireSpecial   bool
}

type KafkaConfig struct {
	Brokers           []string
	LifecycleTopic    string
	VerificationTopic string
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	TLSMode   string
	FromEmail string
	FromName  string
}

// Load reads .env from the working directory when present, with the real
// environment taking precedence.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is ignored.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	_ = v.ReadInConfig()
	v.AutomaticEnv()

	return LoadFromEnv(v.GetString)
}

func LoadFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:      strings.TrimSpace(getenv("APP_ENV")),
		Addr:     strings.TrimSpace(getenv("APP_ADDR")),
		DBDSN:    strings.TrimSpace(getenv("APP_DB_DSN")),
		LogLevel: strings.TrimSpace(getenv("APP_LOG_LEVEL")),
		ResetURL: strings.TrimSpace(getenv("APP_RESET_URL")),
	}

	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}

	switch cfg.Env {
	case "dev", "prod", "test":
	default:
		return Config{}, errors.New("APP_ENV: must be one of dev, test, prod")
	}

	var err error
	if cfg.DBMigrate, err = parseBool(getenv, "APP_DB_MIGRATE", false); err != nil {
		return Config{}, err
	}

	ttlRaw := getenv("APP_RESET_TOKEN_TTL")
	if ttlRaw == "" {
		cfg.ResetTokenTTL = 24 * time.Hour
	} else {
		ttl, err := time.ParseDuration(ttlRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_RESET_TOKEN_TTL: %w", err)
		}
		if ttl <= 0 {
			return Config{}, errors.New("APP_RESET_TOKEN_TTL: must be > 0")
		}
		cfg.ResetTokenTTL = ttl
	}

	if cfg.Password, err = loadPassword(getenv); err != nil {
		return Config{}, err
	}

	cfg.Notifiers = parseCSV(getenv("APP_NOTIFIERS"))
	if len(cfg.Notifiers) == 0 {
		cfg.Notifiers = []string{NotifierLog}
	}
	for _, n := range cfg.Notifiers {
		switch n {
		case NotifierLog, NotifierKafka, NotifierEmail:
		default:
			return Config{}, fmt.Errorf("APP_NOTIFIERS: unknown notifier %q", n)
		}
	}

	cfg.Kafka = KafkaConfig{
		Brokers:           parseCSV(getenv("APP_KAFKA_BROKERS")),
		LifecycleTopic:    strings.TrimSpace(getenv("APP_KAFKA_LIFECYCLE_TOPIC")),
		VerificationTopic: strings.TrimSpace(getenv("APP_KAFKA_VERIFICATION_TOPIC")),
	}
	if cfg.HasNotifier(NotifierKafka) && len(cfg.Kafka.Brokers) == 0 {
		return Config{}, errors.New("APP_KAFKA_BROKERS: required when kafka notifier is enabled")
	}

	if cfg.SMTP, err = loadSMTP(getenv); err != nil {
		return Config{}, err
	}
	if cfg.HasNotifier(NotifierEmail) && cfg.SMTP.Host != "" && cfg.SMTP.FromEmail == "" {
		return Config{}, errors.New("APP_SMTP_FROM_EMAIL: required when APP_SMTP_HOST is set")
	}

	if cfg.ResetURL != "" {
		parsed, err := url.Parse(cfg.ResetURL)
		if err != nil {
			return Config{}, fmt.Errorf("APP_RESET_URL: %w", err)
		}
		if !parsed.IsAbs() || parsed.Host == "" {
			return Config{}, errors.New("APP_RESET_URL: must be an absolute URL")
		}
	}

	for _, origin := range strings.Split(getenv("APP_CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	if cfg.IsProd() && cfg.DBDSN == "" {
		return Config{}, errors.New("APP_DB_DSN: required in prod")
	}

	return cfg, nil
}

func loadPassword(getenv func(string) string) (PasswordConfig, error) {
	p := PasswordConfig{}
	var err error
	if p.MinLength, err = parseInt(getenv, "APP_PASSWORD_MIN_LENGTH", 8); err != nil {
		return p, err
	}
	if p.MaxLength, err = parseInt(getenv, "APP_PASSWORD_MAX_LENGTH", 64); err != nil {
		return p, err
	}
	if p.MinLength < 1 {
		return p, errors.New("APP_PASSWORD_MIN_LENGTH: must be >= 1")
	}
	if p.MaxLength < p.MinLength {
		return p, errors.New("APP_PASSWORD_MAX_LENGTH: must be >= APP_PASSWORD_MIN_LENGTH")
	}
	if p.RequireLowercase, err = parseBool(getenv, "APP_PASSWORD_REQUIRE_LOWER", true); err != nil {
		return p, err
	}
	if p.RequireUppercase, err = parseBool(getenv, "APP_PASSWORD_REQUIRE_UPPER", true); err != nil {
		return p, err
	}
	if p.RequireDigit, err = parseBool(getenv, "APP_PASSWORD_REQUIRE_DIGIT", true); err != nil {
		return p, err
	}
	if p.RequireSpecial, err = parseBool(getenv, "APP_PASSWORD_REQUIRE_SPECIAL", false); err != nil {
		return p, err
	}
	return p, nil
}

func loadSMTP(getenv func(string) string) (SMTPConfig, error) {
	s := SMTPConfig{
		Host:      strings.TrimSpace(getenv("APP_SMTP_HOST")),
		Username:  getenv("APP_SMTP_USERNAME"),
		Password:  getenv("APP_SMTP_PASSWORD"),
		TLSMode:   strings.ToLower(strings.TrimSpace(getenv("APP_SMTP_TLS_MODE"))),
		FromEmail: strings.TrimSpace(getenv("APP_SMTP_FROM_EMAIL")),
		FromName:  strings.TrimSpace(getenv("APP_SMTP_FROM_NAME")),
	}
	var err error
	if s.Port, err = parseInt(getenv, "APP_SMTP_PORT", 587); err != nil {
		return s, err
	}
	if s.Port < 1 || s.Port > 65535 {
		return s, errors.New("APP_SMTP_PORT: must be between 1 and 65535")
	}
	switch s.TLSMode {
	case "":
		s.TLSMode = "starttls"
	case "starttls", "tls", "none":
	default:
		return s, errors.New("APP_SMTP_TLS_MODE: must be one of starttls, tls, none")
	}
	if s.FromName == "" {
		s.FromName = "InfiniteDb"
	}
	return s, nil
}

func (c Config) IsProd() bool { return c.Env == "prod" }

func (c Config) HasNotifier(name string) bool {
	for _, n := range c.Notifiers {
		if n == name {
			return true
		}
	}
	return false
}

func parseInt(getenv func(string) string, key string, def int) (int, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func parseBool(getenv func(string) string, key string, def bool) (bool, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func parseCSV(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
