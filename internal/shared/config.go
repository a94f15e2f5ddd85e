package shared

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"hbnb_web/internal/session"
)

type Config struct {
	AppEnv       string
	LogLevel     string
	HTTPAddr     string
	MetricsAddr  string
	APIBase      string
	APIRPS       int
	APITimeout   time.Duration
	TokenTTL     time.Duration
	CookieSecure bool
	RedisAddr    string // empty: process-local submit guard
	RedisPass    string
	RedisDB      int
	LockTTL      time.Duration
	SessionKey   []byte // signs the flash cookie; empty: a per-process key
}

// file mirrors the YAML layout; every key is optional.
type file struct {
	AppEnv            string `yaml:"app_env"`
	LogLevel          string `yaml:"log_level"`
	HTTPAddr          string `yaml:"http_addr"`
	MetricsAddr       string `yaml:"metrics_addr"`
	APIBase           string `yaml:"api_base"`
	APIRPS            int    `yaml:"api_rps"`
	APITimeoutSeconds int    `yaml:"api_timeout_seconds"`
	TokenTTLDays      int    `yaml:"token_ttl_days"`
	CookieSecure      bool   `yaml:"cookie_secure"`
	RedisAddr         string `yaml:"redis_addr"`
	RedisPassword     string `yaml:"redis_password"`
	RedisDB           int    `yaml:"redis_db"`
	SubmitLockSeconds int    `yaml:"submit_lock_seconds"`
	SessionHashKey    string `yaml:"session_hash_key"`
}

func defaults() file {
	return file{
		AppEnv:            "prod",
		LogLevel:          "info",
		HTTPAddr:          ":8080",
		MetricsAddr:       ":9100",
		APIBase:           "http://127.0.0.1:5000/api/v1/",
		APIRPS:            20,
		APITimeoutSeconds: 10,
		TokenTTLDays:      7,
		SubmitLockSeconds: 30,
	}
}

// Load reads the optional YAML file named by HBNB_CONFIG, then applies
// environment overrides.
func Load() (Config, error) { return load(os.Getenv) }

func load(getenv func(string) string) (Config, error) {
	f := defaults()
	if path := getenv("HBNB_CONFIG"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &f); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	str := func(k string, dst *string) {
		if v := getenv(k); v != "" {
			*dst = v
		}
	}
	atoi := func(k string, dst *int) {
		if v := getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			} else {
				log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer config value")
			}
		}
	}
	str("APP_ENV", &f.AppEnv)
	str("LOG_LEVEL", &f.LogLevel)
	str("HTTP_ADDR", &f.HTTPAddr)
	str("METRICS_ADDR", &f.MetricsAddr)
	str("HBNB_API_BASE", &f.APIBase)
	atoi("HBNB_API_RPS", &f.APIRPS)
	atoi("HBNB_API_TIMEOUT_SECONDS", &f.APITimeoutSeconds)
	atoi("TOKEN_TTL_DAYS", &f.TokenTTLDays)
	if v := getenv("COOKIE_SECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.CookieSecure = b
		}
	}
	str("REDIS_ADDR", &f.RedisAddr)
	str("REDIS_PASSWORD", &f.RedisPassword)
	atoi("REDIS_DB", &f.RedisDB)
	atoi("SUBMIT_LOCK_SECONDS", &f.SubmitLockSeconds)
	str("SESSION_HASH_KEY", &f.SessionHashKey)

	if f.APIBase == "" {
		return Config{}, fmt.Errorf("api base URL is empty")
	}
	if f.TokenTTLDays <= 0 {
		f.TokenTTLDays = 7
	}
	if f.SessionHashKey != "" && len(f.SessionHashKey) < 32 {
		return Config{}, fmt.Errorf("session hash key must be at least 32 bytes")
	}
	// the submit lock must outlive the API call it guards
	if f.SubmitLockSeconds <= f.APITimeoutSeconds {
		log.Warn().Int("submit_lock_seconds", f.SubmitLockSeconds).Int("api_timeout_seconds", f.APITimeoutSeconds).
			Msg("submit lock shorter than API timeout; raising it")
		f.SubmitLockSeconds = f.APITimeoutSeconds + 5
	}

	return Config{
		AppEnv:       f.AppEnv,
		LogLevel:     f.LogLevel,
		HTTPAddr:     f.HTTPAddr,
		MetricsAddr:  f.MetricsAddr,
		APIBase:      f.APIBase,
		APIRPS:       f.APIRPS,
		APITimeout:   time.Duration(f.APITimeoutSeconds) * time.Second,
		TokenTTL:     session.Days(f.TokenTTLDays),
		CookieSecure: f.CookieSecure,
		RedisAddr:    f.RedisAddr,
		RedisPass:    f.RedisPassword,
		RedisDB:      f.RedisDB,
		LockTTL:      time.Duration(f.SubmitLockSeconds) * time.Second,
		SessionKey:   []byte(f.SessionHashKey),
	}, nil
}
