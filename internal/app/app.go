package app

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/fpl-advisor/external/advisor"
	"github.com/riskibarqy/fpl-advisor/external/fplfeed"
	"github.com/riskibarqy/fpl-advisor/internal/config"
	"github.com/riskibarqy/fpl-advisor/internal/domain/fantasy"
	"github.com/riskibarqy/fpl-advisor/internal/domain/prediction"
	"github.com/riskibarqy/fpl-advisor/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/fpl-advisor/internal/platform/id"
	"github.com/riskibarqy/fpl-advisor/internal/platform/logging"
	"github.com/riskibarqy/fpl-advisor/internal/platform/resilience"
	"github.com/riskibarqy/fpl-advisor/internal/usecase"
)

// App is the assembled service: the HTTP server and the background sweeper
// that expires idle sessions.
type App struct {
	Server  *http.Server
	Sweeper *SessionSweeper
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	feed := fplfeed.NewClient(fplfeed.ClientConfig{
		BaseURL:     cfg.FPLBaseURL,
		Timeout:     cfg.FPLTimeout,
		MinInterval: cfg.FPLMinInterval,
		Logger:      logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FPLCircuitEnabled,
			FailureThreshold: cfg.FPLCircuitFailureCount,
			OpenTimeout:      cfg.FPLCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FPLCircuitHalfOpenMaxReq,
		},
	})
	poolSvc := usecase.NewPoolService(feed, cfg.CacheTTL, logger)

	gateway, err := newAdviceGateway(cfg, poolSvc, logger)
	if err != nil {
		return nil, err
	}

	rules := fantasy.DefaultRules()
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("squad rules: %w", err)
	}

	adviceSvc := usecase.NewAdviceService(
		gateway,
		usecase.AdviceFlow(cfg.AdvisorFlow),
		cfg.SessionTTL,
		idgen.NewUUIDGenerator(),
		logger,
	)
	builderSvc := usecase.NewBuilderService(
		poolSvc,
		adviceSvc,
		cfg.SessionTTL,
		idgen.NewUUIDGenerator(),
		rules,
		logger,
	)

	handler := httpapi.NewHandler(poolSvc, builderSvc, adviceSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	sweeper := NewSessionSweeper(cfg.SessionSweepInterval, logger,
		SweepTarget{Kind: "builder", Store: builderSvc},
		SweepTarget{Kind: "results", Store: adviceSvc},
	)

	return &App{Server: server, Sweeper: sweeper}, nil
}

func newAdviceGateway(cfg config.Config, pool usecase.CandidatePool, logger *logging.Logger) (usecase.AdviceGateway, error) {
	if cfg.AdvisorMode == config.AdvisorModeLocal {
		logger.Info("advisor mode local", "workers", cfg.LocalAdvisorWorkers)
		return usecase.NewLocalAdvisor(pool, prediction.NewHeuristicScorer(), cfg.LocalAdvisorWorkers, logger), nil
	}

	fieldCase, err := advisor.ParseFieldCase(cfg.AdvisorFieldCase)
	if err != nil {
		return nil, fmt.Errorf("advisor field case: %w", err)
	}
	logger.Info("advisor mode remote",
		"base_url", cfg.AdvisorBaseURL,
		"flow", cfg.AdvisorFlow,
		"field_case", string(fieldCase),
	)
	return advisor.NewClient(advisor.ClientConfig{
		BaseURL:         cfg.AdvisorBaseURL,
		SuggestionsPath: cfg.AdvisorSuggestionsPath,
		AnalysisPath:    cfg.AdvisorAnalysisPath,
		FieldCase:       fieldCase,
		Timeout:         cfg.AdvisorTimeout,
		Logger:          logger,
	}), nil
}
