package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/fpl-advisor/internal/platform/logging"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("ADVISOR_MODE", AdvisorModeRemote)
	t.Setenv("ADVISOR_BASE_URL", "https://advisor.example.com")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "fpl-advisor-api" {
		t.Fatalf("unexpected service name: %q", cfg.ServiceName)
	}
	if cfg.FPLBaseURL != "https://fantasy.premierleague.com/api" {
		t.Fatalf("unexpected FPL base url: %q", cfg.FPLBaseURL)
	}
	if cfg.AdvisorFlow != AdvisorFlowSingle {
		t.Fatalf("unexpected advisor flow: %q", cfg.AdvisorFlow)
	}
	if cfg.AdvisorFieldCase != "snake" {
		t.Fatalf("unexpected field case: %q", cfg.AdvisorFieldCase)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("unexpected session ttl: %s", cfg.SessionTTL)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
	if cfg.LogFile != "" {
		t.Fatalf("expected file sink disabled by default, got %q", cfg.LogFile)
	}
	if !cfg.SwaggerEnabled {
		t.Fatalf("expected swagger enabled by default")
	}
}

func TestLoad_SwaggerToggle(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SWAGGER_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SwaggerEnabled {
		t.Fatalf("expected swagger disabled")
	}

	t.Setenv("SWAGGER_ENABLED", "maybe")
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error for SWAGGER_ENABLED")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `x-foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_AdvisorSettings(t *testing.T) {
	t.Run("remote requires base url", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("ADVISOR_BASE_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when ADVISOR_MODE=remote without ADVISOR_BASE_URL")
		}
	})

	t.Run("local does not need base url", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("ADVISOR_MODE", "LOCAL")
		t.Setenv("ADVISOR_BASE_URL", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.AdvisorMode != AdvisorModeLocal {
			t.Fatalf("unexpected advisor mode: %q", cfg.AdvisorMode)
		}
	})

	t.Run("invalid field case", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("ADVISOR_FIELD_CASE", "kebab")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid ADVISOR_FIELD_CASE")
		}
	})

	t.Run("invalid flow", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("ADVISOR_FLOW", "parallel")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid ADVISOR_FLOW")
		}
	})

	t.Run("camel two step flow", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("ADVISOR_FLOW", AdvisorFlowAnalysisThenSuggestions)
		t.Setenv("ADVISOR_FIELD_CASE", "camel")
		t.Setenv("ADVISOR_ANALYSIS_PATH", "/squad/analyze")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.AdvisorFlow != AdvisorFlowAnalysisThenSuggestions || cfg.AdvisorFieldCase != "camel" {
			t.Fatalf("unexpected advisor config: %+v", cfg)
		}
		if cfg.AdvisorAnalysisPath != "/squad/analyze" {
			t.Fatalf("unexpected analysis path: %q", cfg.AdvisorAnalysisPath)
		}
	})

	t.Run("workers must be positive", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("LOCAL_ADVISOR_WORKERS", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for LOCAL_ADVISOR_WORKERS=0")
		}
	})
}

func TestLoad_FPLFeedSettings(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("FPL_BASE_URL", "http://localhost:9000/api")
	t.Setenv("FPL_MIN_INTERVAL", "0s")
	t.Setenv("FPL_CIRCUIT_FAILURE_COUNT", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.FPLBaseURL != "http://localhost:9000/api" || cfg.FPLMinInterval != 0 || cfg.FPLCircuitFailureCount != 2 {
		t.Fatalf("unexpected fpl config: %+v", cfg)
	}

	t.Setenv("FPL_CIRCUIT_FAILURE_COUNT", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for FPL_CIRCUIT_FAILURE_COUNT=0")
	}
}

func TestLoad_DurationValidation(t *testing.T) {
	for _, key := range []string{"CACHE_TTL", "SESSION_TTL", "SESSION_SWEEP_INTERVAL", "FPL_TIMEOUT", "ADVISOR_TIMEOUT"} {
		t.Run(key, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(key, "0s")
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=0s", key)
			}
			t.Setenv(key, "soon")
			if _, err := Load(); err == nil {
				t.Fatalf("expected parse error for %s", key)
			}
		})
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_SERVICE_NAME", "fpl-advisor-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "fpl-advisor-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsParsing(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:8081 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://localhost:8081" {
		t.Fatalf("unexpected CORS origins: %+v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("FPL_ADVISOR_DOTENV_PROBE=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("FPL_ADVISOR_DOTENV_PROBE", "")
	os.Unsetenv("FPL_ADVISOR_DOTENV_PROBE")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv("FPL_ADVISOR_DOTENV_PROBE"); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
}
