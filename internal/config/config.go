package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"codestats-proxy/internal/constants"
	"codestats-proxy/internal/domain"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

const (
	DefaultLeetCodeURL   = "https://leetcode.com/graphql"
	DefaultHackerRankURL = "https://www.hackerrank.com/rest/hackers/%s"
	DefaultGFGURL        = "https://www.geeksforgeeks.org/user/%s/"
)

var DefaultCodeChefURLs = []string{
	"https://www.codechef.com/api/users/%s",
	"https://api.codechef.com/users/%s",
}

type Config struct {
	ServerPort string
	LogLevel   string
	DBPath     string

	CacheBackend   string
	CacheTTL       time.Duration
	CacheSize      int
	RedisAddr      string
	CacheKeyPrefix string

	// platforms missing from the map are treated as disabled
	Enabled map[domain.Platform]bool

	APITimeout    time.Duration
	ScrapeTimeout time.Duration

	LeetCodeURL   string
	CodeChefURLs  []string
	HackerRankURL string
	GFGURL        string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		ServerPort:     getEnv("PORT", "3000"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DBPath:         getEnv("DB_PATH", "codestats.db"),
		CacheBackend:   strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendMemory)),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		CacheKeyPrefix: getEnv("CACHE_KEY_PREFIX", "codestats:"),
		Enabled: map[domain.Platform]bool{
			domain.PlatformLeetCode:   getEnvEnabled("LEETCODE_ENABLED"),
			domain.PlatformCodeChef:   getEnvEnabled("CODECHEF_ENABLED"),
			domain.PlatformHackerRank: getEnvEnabled("HACKERRANK_ENABLED"),
			domain.PlatformGFG:        getEnvEnabled("GFG_ENABLED"),
		},
		LeetCodeURL:   getEnv("LEETCODE_URL", DefaultLeetCodeURL),
		CodeChefURLs:  getEnvList("CODECHEF_URLS", DefaultCodeChefURLs),
		HackerRankURL: getEnv("HACKERRANK_URL", DefaultHackerRankURL),
		GFGURL:        getEnv("GFG_URL", DefaultGFGURL),
	}

	var err error
	if cfg.CacheTTL, err = getEnvDuration("CACHE_TTL", constants.DefaultCacheTTL, time.Second); err != nil {
		return nil, err
	}
	if cfg.APITimeout, err = getEnvDuration("API_TIMEOUT_MS", constants.APIFetchTimeout, time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.ScrapeTimeout, err = getEnvDuration("SCRAPE_TIMEOUT_MS", constants.ScrapeFetchTimeout, time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.CacheSize, err = getEnvInt("CACHE_SIZE", constants.DefaultCacheSize); err != nil {
		return nil, err
	}

	if cfg.CacheBackend != CacheBackendMemory && cfg.CacheBackend != CacheBackendRedis {
		return nil, fmt.Errorf("invalid CACHE_BACKEND %q, use %s or %s", cfg.CacheBackend, CacheBackendMemory, CacheBackendRedis)
	}
	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}

	logger.Info().
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("db_path", cfg.DBPath).
		Str("cache_backend", cfg.CacheBackend).
		Dur("cache_ttl", cfg.CacheTTL).
		Interface("enabled", cfg.Enabled).
		Msg("configuration loaded")

	return cfg, nil
}

// IsEnabled reports whether the fetcher for p should be called at all.
func (c *Config) IsEnabled(p domain.Platform) bool {
	return c.Enabled[p]
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvEnabled treats anything except an explicit "false" as enabled.
func getEnvEnabled(key string) bool {
	return !strings.EqualFold(strings.TrimSpace(os.Getenv(key)), "false")
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s value %q: must be a positive integer", key, v)
	}
	return n, nil
}

func getEnvDuration(key string, fallback, unit time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := getEnvInt(key, 0)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * unit, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
