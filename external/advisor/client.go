package advisor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fpl-advisor/internal/domain/advice"
	"github.com/riskibarqy/fpl-advisor/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

const maxResponseBytes = 4 << 20

// FieldCase selects the request body naming convention of a deployment.
type FieldCase string

const (
	FieldCaseSnake FieldCase = "snake"
	FieldCaseCamel FieldCase = "camel"
)

func ParseFieldCase(raw string) (FieldCase, error) {
	switch FieldCase(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FieldCaseSnake:
		return FieldCaseSnake, nil
	case FieldCaseCamel:
		return FieldCaseCamel, nil
	default:
		return "", fmt.Errorf("unsupported field case %q", raw)
	}
}

type ClientConfig struct {
	HTTPClient      *http.Client
	BaseURL         string
	SuggestionsPath string
	AnalysisPath    string
	FieldCase       FieldCase
	Timeout         time.Duration
	Logger          *logging.Logger
}

// Client talks to the remote advisory service. It never retries.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	suggestionsPath string
	analysisPath    string
	fieldCase       FieldCase
	logger          *logging.Logger
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

	fieldCase := cfg.FieldCase
	if fieldCase == "" {
		fieldCase = FieldCaseSnake
	}

	return &Client{
		httpClient:      httpClient,
		baseURL:         strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		suggestionsPath: normalizePath(cfg.SuggestionsPath, "/"),
		analysisPath:    normalizePath(cfg.AnalysisPath, "/analyze"),
		fieldCase:       fieldCase,
		logger:          logger,
	}
}

// Suggest posts the squad to the suggestions endpoint.
func (c *Client) Suggest(ctx context.Context, req advice.Request) (advice.Response, error) {
	return c.post(ctx, c.suggestionsPath, req)
}

// Analyze posts the squad to the squad-analysis endpoint.
func (c *Client) Analyze(ctx context.Context, req advice.Request) (advice.Response, error) {
	return c.post(ctx, c.analysisPath, req)
}

func (c *Client) post(ctx context.Context, path string, req advice.Request) (advice.Response, error) {
	if c.baseURL == "" {
		return advice.Response{}, advice.NewError(advice.ErrorMissingParameters, "advisory service url is not configured", nil)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(encodeRequest(req, c.fieldCase)); err != nil {
		return advice.Response{}, advice.NewError(advice.ErrorMissingParameters, "could not encode advice request", crerr.Wrap(err, "encode advice request"))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(buf.String()))
	if err != nil {
		return advice.Response{}, advice.NewError(advice.ErrorTransport, "could not build advice request", crerr.Wrap(err, "build request"))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.WarnContext(ctx, "advisory request failed", "path", path, "error", err)
		return advice.Response{}, advice.NewError(advice.ErrorTransport, "could not reach the advisory service", crerr.Wrap(err, "send request"))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return advice.Response{}, advice.NewError(advice.ErrorTransport, "advisory response was interrupted", crerr.Wrap(err, "read response body"))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WarnContext(ctx, "advisory service returned error status", "path", path, "status", resp.StatusCode)
		return advice.Response{}, advice.NewHTTPError(resp.StatusCode, errorMessage(raw))
	}

	parsed, err := ParseResponse(raw)
	if err != nil {
		c.logger.WarnContext(ctx, "advisory response rejected", "path", path, "error", err)
		return advice.Response{}, err
	}
	return parsed, nil
}

func normalizePath(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return raw
}
