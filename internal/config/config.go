package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/luigi1104/shotmap/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level

	RosterPath               string
	MatchThreshold           float64
	LeagueCheckMaxConcurrent int

	CacheEnabled bool
	CacheTTL     time.Duration

	CORSAllowedOrigins []string

	UnderstatBaseURL               string
	UnderstatUserAgent             string
	UnderstatTimeout               time.Duration
	UnderstatMaxRetries            int
	UnderstatCircuitEnabled        bool
	UnderstatCircuitFailureCount   int
	UnderstatCircuitOpenTimeout    time.Duration
	UnderstatCircuitHalfOpenMaxReq int

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration

	PprofEnabled bool
	PprofAddr    string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	rosterPath := strings.TrimSpace(getEnv("ROSTER_PATH", "roster.json"))
	if rosterPath == "" {
		return Config{}, fmt.Errorf("ROSTER_PATH cannot be empty")
	}

	matchThreshold, err := getEnvAsFloat("MATCH_THRESHOLD", 0.5)
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCH_THRESHOLD: %w", err)
	}
	if matchThreshold <= 0 || matchThreshold > 1 {
		return Config{}, fmt.Errorf("MATCH_THRESHOLD must be in (0, 1]")
	}

	leagueCheckMaxConcurrent, err := getEnvAsInt("LEAGUE_CHECK_MAX_CONCURRENT", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse LEAGUE_CHECK_MAX_CONCURRENT: %w", err)
	}
	if leagueCheckMaxConcurrent < 1 {
		return Config{}, fmt.Errorf("LEAGUE_CHECK_MAX_CONCURRENT must be >= 1")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	understatTimeout, err := time.ParseDuration(getEnv("UNDERSTAT_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UNDERSTAT_TIMEOUT: %w", err)
	}
	if understatTimeout <= 0 {
		return Config{}, fmt.Errorf("UNDERSTAT_TIMEOUT must be > 0")
	}
	understatMaxRetries, err := getEnvAsInt("UNDERSTAT_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse UNDERSTAT_MAX_RETRIES: %w", err)
	}
	if understatMaxRetries < 0 {
		return Config{}, fmt.Errorf("UNDERSTAT_MAX_RETRIES must be >= 0")
	}
	understatCircuitEnabled, err := strconv.ParseBool(getEnv("UNDERSTAT_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UNDERSTAT_CIRCUIT_ENABLED: %w", err)
	}
	understatCircuitFailureCount, err := getEnvAsInt("UNDERSTAT_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse UNDERSTAT_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if understatCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("UNDERSTAT_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	understatCircuitOpenTimeout, err := time.ParseDuration(getEnv("UNDERSTAT_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UNDERSTAT_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if understatCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("UNDERSTAT_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	understatCircuitHalfOpenMaxReq, err := getEnvAsInt("UNDERSTAT_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse UNDERSTAT_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if understatCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("UNDERSTAT_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("SERVICE_NAME", "shotmap"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		LogLevel:       parseLogLevel(getEnv("LOG_LEVEL", "info")),

		RosterPath:               rosterPath,
		MatchThreshold:           matchThreshold,
		LeagueCheckMaxConcurrent: leagueCheckMaxConcurrent,

		CacheEnabled: cacheEnabled,
		CacheTTL:     cacheTTL,

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		UnderstatBaseURL:               getEnv("UNDERSTAT_BASE_URL", "https://understat.com"),
		UnderstatUserAgent:             strings.TrimSpace(getEnv("UNDERSTAT_USER_AGENT", "")),
		UnderstatTimeout:               understatTimeout,
		UnderstatMaxRetries:            understatMaxRetries,
		UnderstatCircuitEnabled:        understatCircuitEnabled,
		UnderstatCircuitFailureCount:   understatCircuitFailureCount,
		UnderstatCircuitOpenTimeout:    understatCircuitOpenTimeout,
		UnderstatCircuitHalfOpenMaxReq: understatCircuitHalfOpenMaxReq,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
