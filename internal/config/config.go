package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE resolves without a system zoneinfo database

	"github.com/efreitasn/ccasswatch/internal/domain"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all runtime configuration for ccasswatch.
type Config struct {
	Port            int
	LogLevel        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Registry access.
	RegistryURL   string
	StockListURL  string
	FetchTimeout  time.Duration
	FetchRetries  int
	FetchBackoff  time.Duration
	FetchWorkers  int
	ColumnMapFile string
	Location      *time.Location

	// Snapshot cache.
	Cache         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Transaction event publishing. Empty brokers or URL disable a sink.
	KafkaBrokers   []string
	KafkaTopic     string
	WebhookURL     string
	WebhookTimeout time.Duration

	// Daily cache warm-up. No stocks disables it.
	WarmStocks []string
	WarmAt     string
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getDuration("WRITE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	fetchTimeout, err := getDuration("FETCH_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT: %w", err)
	}

	fetchRetries, err := getInt("FETCH_RETRIES", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_RETRIES: %w", err)
	}
	if fetchRetries < 0 {
		return nil, fmt.Errorf("invalid FETCH_RETRIES: %d, must not be negative", fetchRetries)
	}

	fetchBackoff, err := getDuration("FETCH_BACKOFF", 1*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_BACKOFF: %w", err)
	}

	fetchWorkers, err := getInt("FETCH_WORKERS", 4)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_WORKERS: %w", err)
	}
	if fetchWorkers < 1 {
		return nil, fmt.Errorf("invalid FETCH_WORKERS: %d, must be at least 1", fetchWorkers)
	}

	tz := getStr("TIMEZONE", "Asia/Hong_Kong")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cache := getStr("CACHE", CacheMemory)
	if !isValidCache(cache) {
		return nil, fmt.Errorf("invalid CACHE: %q, must be one of: none, memory, redis", cache)
	}
	redisAddr := getStr("REDIS_ADDR", "")
	if cache == CacheRedis && redisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR is required when CACHE=redis")
	}

	redisDB, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cacheTTL, err := getDuration("CACHE_TTL", 168*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	webhookTimeout, err := getDuration("WEBHOOK_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WEBHOOK_TIMEOUT: %w", err)
	}

	warmStocks := getList("WARM_STOCKS")
	for i, code := range warmStocks {
		norm, err := domain.NormalizeStockCode(code)
		if err != nil {
			return nil, fmt.Errorf("invalid WARM_STOCKS: %w", err)
		}
		warmStocks[i] = norm
	}

	warmAt := getStr("WARM_AT", "19:30")
	if _, err := time.Parse("15:04", warmAt); err != nil {
		return nil, fmt.Errorf("invalid WARM_AT: %q, must be HH:MM", warmAt)
	}

	return &Config{
		Port:            port,
		LogLevel:        logLevel,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		IdleTimeout:     idleTimeout,
		ShutdownTimeout: shutdownTimeout,
		RegistryURL:     getStr("REGISTRY_URL", "https://www3.hkexnews.hk/sdw/search/searchsdw.aspx"),
		StockListURL:    getStr("STOCK_LIST_URL", "https://www3.hkexnews.hk/sdw/search/stocklist.aspx"),
		FetchTimeout:    fetchTimeout,
		FetchRetries:    fetchRetries,
		FetchBackoff:    fetchBackoff,
		FetchWorkers:    fetchWorkers,
		ColumnMapFile:   getStr("COLUMN_MAP_FILE", ""),
		Location:        loc,
		Cache:           cache,
		RedisAddr:       redisAddr,
		RedisPassword:   getStr("REDIS_PASSWORD", ""),
		RedisDB:         redisDB,
		CacheTTL:        cacheTTL,
		KafkaBrokers:    getList("KAFKA_BROKERS"),
		KafkaTopic:      getStr("KAFKA_TOPIC", "ccass-transactions"),
		WebhookURL:      getStr("WEBHOOK_URL", ""),
		WebhookTimeout:  webhookTimeout,
		WarmStocks:      warmStocks,
		WarmAt:          warmAt,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

// getList splits a comma separated value, dropping empty items.
func getList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func isValidCache(cache string) bool {
	switch cache {
	case CacheNone, CacheMemory, CacheRedis:
		return true
	}
	return false
}
