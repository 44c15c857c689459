package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates all service configuration.
type Config struct {
	Server  ServerConfig
	Session SessionConfig
	Redis   RedisConfig
	Notify  NotifyConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	redis, err := loadRedisConfig()
	if err != nil {
		return nil, err
	}

	notify, err := loadNotifyConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Session: session, Redis: redis, Notify: notify}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// SessionConfig controls session lifetime in the store. A zero TTL retains
// sessions for the lifetime of the process.
type SessionConfig struct {
	TTL          time.Duration
	ReapInterval time.Duration
}

func loadSessionConfig() (SessionConfig, error) {
	ttlMinutes, err := parseOptionalIntEnv("SESSION_TTL_MINUTES")
	if err != nil {
		return SessionConfig{}, err
	}
	ttl := time.Duration(0)
	if ttlMinutes != nil {
		if *ttlMinutes < 0 {
			return SessionConfig{}, fmt.Errorf("SESSION_TTL_MINUTES must not be negative")
		}
		ttl = time.Duration(*ttlMinutes) * time.Minute
	}

	reapMinutes, err := parseOptionalIntEnv("SESSION_REAP_INTERVAL_MINUTES")
	if err != nil {
		return SessionConfig{}, err
	}
	reap := 5 * time.Minute
	if reapMinutes != nil && *reapMinutes > 0 {
		reap = time.Duration(*reapMinutes) * time.Minute
	}

	return SessionConfig{TTL: ttl, ReapInterval: reap}, nil
}

// RedisConfig selects the Redis-backed session store when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address was configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

func loadRedisConfig() (RedisConfig, error) {
	db, err := parseOptionalIntEnv("REDIS_DB")
	if err != nil {
		return RedisConfig{}, err
	}
	dbIndex := 0
	if db != nil {
		dbIndex = *db
	}

	return RedisConfig{
		Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		Password: strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		DB:       dbIndex,
	}, nil
}

// NotifyConfig describes the outbound lead sinks. Either field may be blank,
// in which case the corresponding sink is skipped silently.
type NotifyConfig struct {
	SheetURL   string
	Recipients string
	Timeout    time.Duration
}

func loadNotifyConfig() (NotifyConfig, error) {
	timeoutSeconds, err := parseOptionalIntEnv("NOTIFY_TIMEOUT_SECONDS")
	if err != nil {
		return NotifyConfig{}, err
	}
	timeout := 10 * time.Second
	if timeoutSeconds != nil && *timeoutSeconds > 0 {
		timeout = time.Duration(*timeoutSeconds) * time.Second
	}

	return NotifyConfig{
		SheetURL:   strings.TrimSpace(os.Getenv("LEAD_SHEET_URL")),
		Recipients: strings.TrimSpace(os.Getenv("WHATSAPP_RECIPIENTS")),
		Timeout:    timeout,
	}, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
