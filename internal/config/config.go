package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/fpl-advisor/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	CORSAllowedOrigins         []string
	SwaggerEnabled             bool
	LogLevel                   logging.Level
	LogFile                    string
	LogFileMaxSizeMB           int
	LogFileMaxBackups          int
	LogFileMaxAgeDays          int
	CacheTTL                   time.Duration
	SessionTTL                 time.Duration
	SessionSweepInterval       time.Duration
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	FPLBaseURL                 string
	FPLTimeout                 time.Duration
	FPLMinInterval             time.Duration
	FPLCircuitEnabled          bool
	FPLCircuitFailureCount     int
	FPLCircuitOpenTimeout      time.Duration
	FPLCircuitHalfOpenMaxReq   int
	AdvisorMode                string
	AdvisorFlow                string
	AdvisorBaseURL             string
	AdvisorSuggestionsPath     string
	AdvisorAnalysisPath        string
	AdvisorFieldCase           string
	AdvisorTimeout             time.Duration
	LocalAdvisorWorkers        int
}

const (
	AdvisorModeRemote = "remote"
	AdvisorModeLocal  = "local"

	AdvisorFlowSingle                  = "single"
	AdvisorFlowAnalysisThenSuggestions = "analysis_then_suggestions"
)

// LoadDotEnv reads key=value pairs from the given files into the process
// environment. Missing files are skipped; existing variables win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
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
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	logFileMaxSizeMB, err := getEnvAsInt("LOG_FILE_MAX_SIZE_MB", 100)
	if err != nil {
		return Config{}, fmt.Errorf("parse LOG_FILE_MAX_SIZE_MB: %w", err)
	}
	if logFileMaxSizeMB <= 0 {
		return Config{}, fmt.Errorf("LOG_FILE_MAX_SIZE_MB must be > 0")
	}
	logFileMaxBackups, err := getEnvAsInt("LOG_FILE_MAX_BACKUPS", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse LOG_FILE_MAX_BACKUPS: %w", err)
	}
	if logFileMaxBackups < 0 {
		return Config{}, fmt.Errorf("LOG_FILE_MAX_BACKUPS must be >= 0")
	}
	logFileMaxAgeDays, err := getEnvAsInt("LOG_FILE_MAX_AGE_DAYS", 14)
	if err != nil {
		return Config{}, fmt.Errorf("parse LOG_FILE_MAX_AGE_DAYS: %w", err)
	}
	if logFileMaxAgeDays < 0 {
		return Config{}, fmt.Errorf("LOG_FILE_MAX_AGE_DAYS must be >= 0")
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "30m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSION_TTL: %w", err)
	}
	if sessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be > 0")
	}
	sessionSweepInterval, err := time.ParseDuration(getEnv("SESSION_SWEEP_INTERVAL", "1m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSION_SWEEP_INTERVAL: %w", err)
	}
	if sessionSweepInterval <= 0 {
		return Config{}, fmt.Errorf("SESSION_SWEEP_INTERVAL must be > 0")
	}

	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
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

	fplTimeout, err := time.ParseDuration(getEnv("FPL_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FPL_TIMEOUT: %w", err)
	}
	if fplTimeout <= 0 {
		return Config{}, fmt.Errorf("FPL_TIMEOUT must be > 0")
	}
	fplMinInterval, err := time.ParseDuration(getEnv("FPL_MIN_INTERVAL", "500ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FPL_MIN_INTERVAL: %w", err)
	}
	if fplMinInterval < 0 {
		return Config{}, fmt.Errorf("FPL_MIN_INTERVAL must be >= 0")
	}
	fplCircuitEnabled, err := strconv.ParseBool(getEnv("FPL_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FPL_CIRCUIT_ENABLED: %w", err)
	}
	fplCircuitFailureCount, err := getEnvAsInt("FPL_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FPL_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if fplCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FPL_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	fplCircuitOpenTimeout, err := time.ParseDuration(getEnv("FPL_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FPL_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if fplCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("FPL_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	fplCircuitHalfOpenMaxReq, err := getEnvAsInt("FPL_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse FPL_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if fplCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("FPL_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	advisorMode := strings.ToLower(strings.TrimSpace(getEnv("ADVISOR_MODE", AdvisorModeRemote)))
	if advisorMode != AdvisorModeRemote && advisorMode != AdvisorModeLocal {
		return Config{}, fmt.Errorf("invalid ADVISOR_MODE %q: valid values are %s, %s", advisorMode, AdvisorModeRemote, AdvisorModeLocal)
	}
	advisorFlow := strings.ToLower(strings.TrimSpace(getEnv("ADVISOR_FLOW", AdvisorFlowSingle)))
	if advisorFlow != AdvisorFlowSingle && advisorFlow != AdvisorFlowAnalysisThenSuggestions {
		return Config{}, fmt.Errorf("invalid ADVISOR_FLOW %q: valid values are %s, %s", advisorFlow, AdvisorFlowSingle, AdvisorFlowAnalysisThenSuggestions)
	}
	advisorFieldCase := strings.ToLower(strings.TrimSpace(getEnv("ADVISOR_FIELD_CASE", "snake")))
	if advisorFieldCase != "snake" && advisorFieldCase != "camel" {
		return Config{}, fmt.Errorf("invalid ADVISOR_FIELD_CASE %q: valid values are snake, camel", advisorFieldCase)
	}
	advisorBaseURL := strings.TrimSpace(getEnv("ADVISOR_BASE_URL", ""))
	if advisorMode == AdvisorModeRemote && advisorBaseURL == "" {
		return Config{}, fmt.Errorf("ADVISOR_BASE_URL is required when ADVISOR_MODE=remote")
	}
	advisorTimeout, err := time.ParseDuration(getEnv("ADVISOR_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ADVISOR_TIMEOUT: %w", err)
	}
	if advisorTimeout <= 0 {
		return Config{}, fmt.Errorf("ADVISOR_TIMEOUT must be > 0")
	}
	localAdvisorWorkers, err := getEnvAsInt("LOCAL_ADVISOR_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse LOCAL_ADVISOR_WORKERS: %w", err)
	}
	if localAdvisorWorkers < 1 {
		return Config{}, fmt.Errorf("LOCAL_ADVISOR_WORKERS must be >= 1")
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "fpl-advisor-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SwaggerEnabled:             swaggerEnabled,
		LogLevel:                   logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFile:                    strings.TrimSpace(getEnv("LOG_FILE", "")),
		LogFileMaxSizeMB:           logFileMaxSizeMB,
		LogFileMaxBackups:          logFileMaxBackups,
		LogFileMaxAgeDays:          logFileMaxAgeDays,
		CacheTTL:                   cacheTTL,
		SessionTTL:                 sessionTTL,
		SessionSweepInterval:       sessionSweepInterval,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		UptraceLogsEnabled:         uptraceLogsEnabled,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		FPLBaseURL:                 strings.TrimSpace(getEnv("FPL_BASE_URL", "https://fantasy.premierleague.com/api")),
		FPLTimeout:                 fplTimeout,
		FPLMinInterval:             fplMinInterval,
		FPLCircuitEnabled:          fplCircuitEnabled,
		FPLCircuitFailureCount:     fplCircuitFailureCount,
		FPLCircuitOpenTimeout:      fplCircuitOpenTimeout,
		FPLCircuitHalfOpenMaxReq:   fplCircuitHalfOpenMaxReq,
		AdvisorMode:                advisorMode,
		AdvisorFlow:                advisorFlow,
		AdvisorBaseURL:             advisorBaseURL,
		AdvisorSuggestionsPath:     strings.TrimSpace(getEnv("ADVISOR_SUGGESTIONS_PATH", "/predict")),
		AdvisorAnalysisPath:        strings.TrimSpace(getEnv("ADVISOR_ANALYSIS_PATH", "/analyze")),
		AdvisorFieldCase:           advisorFieldCase,
		AdvisorTimeout:             advisorTimeout,
		LocalAdvisorWorkers:        localAdvisorWorkers,
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

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
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
