package cricfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ovalline/cricsync/internal/platform/logging"
	"github.com/ovalline/cricsync/internal/platform/resilience"
	"github.com/ovalline/cricsync/internal/usecase"
)

const (
	defaultBaseURL = "https://ipsl.sifyitest.com/cricket"
	maxBodyBytes   = 6 << 20

	matchListPath = "/default.aspx"
	scorecardPath = "/cricket/v1/game/scorecard"

	dateRangeLayout = "02012006"
)

var clientIDParamRegex = regexp.MustCompile(`client(_id)?=[^&\s"']+`)
var errFeedTransient = crerr.New("cricket feed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	ProxyURL       string
	ClientID       string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches match lists and scorecards from the upstream cricket feed,
// optionally through an opaque relay that forwards `?url=<target>`.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	proxyURL       string
	clientID       string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		proxyURL:       strings.TrimRight(strings.TrimSpace(cfg.ProxyURL), "/"),
		clientID:       strings.TrimSpace(cfg.ClientID),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// ListMatches returns the raw match summaries for the inclusive date range.
// Event-state filtering is left to the caller.
func (c *Client) ListMatches(ctx context.Context, from, to time.Time) ([]usecase.FeedMatch, error) {
	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("match list date range is required")
	}
	if to.Before(from) {
		from, to = to, from
	}

	query := url.Values{}
	query.Set("methodtype", "3")
	query.Set("client", c.clientID)
	query.Set("sport", "1")
	query.Set("league", "0")
	query.Set("timezone", "0530")
	query.Set("language", "en")
	query.Set("daterange", from.Format(dateRangeLayout)+"-"+to.Format(dateRangeLayout))

	var envelope matchListEnvelope
	if err := c.doJSON(ctx, matchListPath, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch match list %s: %w", query.Get("daterange"), err)
	}
	return mapMatchSummaries(envelope.Matches), nil
}

// FetchScorecard returns the scorecard for one match, or (nil, nil) when the
// feed has no scorecard document for the id.
func (c *Client) FetchScorecard(ctx context.Context, gameID string) (*usecase.FeedScorecard, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, fmt.Errorf("game id is required")
	}

	query := url.Values{}
	query.Set("game_id", gameID)
	query.Set("lang", "en")
	query.Set("feed_format", "json")
	query.Set("client_id", c.clientID)

	var envelope scorecardEnvelope
	if err := c.doJSON(ctx, scorecardPath, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch scorecard game_id=%s: %w", gameID, err)
	}
	return mapScorecard(envelope.Data), nil
}

// IsTransient reports whether err came from a retryable upstream condition
// (connection failure, timeout, retryable status) rather than a hard reject.
func IsTransient(err error) bool {
	return crerr.Is(err, errFeedTransient)
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "cricket feed circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: cricket feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}
	if c.proxyURL != "" {
		fullURL = c.proxyURL + "?url=" + url.QueryEscape(fullURL)
	}

	key := path + "?" + query.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errFeedTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errFeedTransient, redactClientID(err.Error()))
		} else {
			raw, readErr := readBody(resp.Body)
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errFeedTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: feed status=%d body=%s", errFeedTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "cricket feed request failed", "url", redactClientID(fullURL), "error", lastErr)
	return nil, lastErr
}

// readBody drains into a pooled buffer and copies out, so a run fetching
// hundreds of scorecards reuses a handful of allocations.
func readBody(body io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(body, maxBodyBytes)); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func redactClientID(value string) string {
	return clientIDParamRegex.ReplaceAllString(strings.TrimSpace(value), "client$1=REDACTED")
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
