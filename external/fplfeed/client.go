package fplfeed

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fpl-advisor/internal/domain/player"
	"github.com/riskibarqy/fpl-advisor/internal/platform/logging"
	"github.com/riskibarqy/fpl-advisor/internal/platform/resilience"
	"github.com/riskibarqy/fpl-advisor/internal/usecase"
)

const (
	defaultBaseURL        = "https://fantasy.premierleague.com/api"
	bootstrapPath         = "/bootstrap-static/"
	fixturesPath          = "/fixtures/"
	maxResponseBytes      = 16 << 20
	upcomingFixtureWindow = 3
	defaultDifficulty     = 3.0
)

var errFeedTransient = crerr.New("fpl feed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MinInterval    time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads the public candidate pool. Requests are unauthenticated.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logging.Logger
	limiter    *resilience.Limiter
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
		limiter:    resilience.NewLimiter(cfg.MinInterval, 1),
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

// FetchCandidates loads bootstrap-static and fixtures and builds the candidate pool.
// A fixtures failure is logged and every club falls back to the default difficulty.
func (c *Client) FetchCandidates(ctx context.Context) ([]player.Candidate, error) {
	var bootstrap bootstrapEnvelope
	if err := c.doJSON(ctx, bootstrapPath, &bootstrap); err != nil {
		return nil, fmt.Errorf("fetch bootstrap-static: %w", err)
	}

	var fixtures []fixtureItem
	if err := c.doJSON(ctx, fixturesPath, &fixtures); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.WarnContext(ctx, "fetch fixtures failed, using default difficulty", "error", err)
		fixtures = nil
	}

	candidates := buildCandidates(bootstrap, upcomingDifficulty(fixtures))
	c.logger.DebugContext(ctx, "fpl candidate pool loaded",
		"teams", len(bootstrap.Teams),
		"elements", len(bootstrap.Elements),
		"candidates", len(candidates),
	)
	return candidates, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for rate limiter: %w", err)
	}

	raw, err, _ := c.flight.Do(path, func() ([]byte, error) {
		var body []byte
		execErr := c.breaker.Execute(func() error {
			var reqErr error
			body, reqErr = c.executeRequest(ctx, c.baseURL+path)
			return reqErr
		}, isFeedCircuitFailure)
		return body, execErr
	})
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "fpl feed circuit breaker rejected request", "path", path, "state", c.breaker.State())
			return fmt.Errorf("%w: fpl feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		if isFeedCircuitFailure(err) {
			return fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
		}
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(err, "decode %s payload", path)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Mark(crerr.Wrap(err, "send request"), errFeedTransient)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, crerr.Mark(crerr.Wrap(err, "read response body"), errFeedTransient)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := crerr.Newf("fpl feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
		if isRetryableStatus(resp.StatusCode) {
			statusErr = crerr.Mark(statusErr, errFeedTransient)
		}
		c.logger.WarnContext(ctx, "fpl feed request failed", "url", fullURL, "status", resp.StatusCode)
		return nil, statusErr
	}
	return raw, nil
}

func isFeedCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return crerr.Is(err, errFeedTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
