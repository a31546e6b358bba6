// Package backend is the HTTP client for the applications and claims APIs.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/claimcheck/internal/cache"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/util"
	"github.com/ppiankov/claimcheck/internal/worker"
)

// ErrNotFound is returned when the backend has no such resource
var ErrNotFound = errors.New("not found")

// sleepFunc is overridden in tests
var sleepFunc = time.Sleep

const (
	maxResponseBytes = 4 << 20
	baseBackoff      = 500 * time.Millisecond
)

// StatusError is a non-2xx backend response
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status: %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status: %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

func (e *StatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client calls the applications and claims backends
type Client struct {
	applicationsURL string
	claimsURL       string
	httpClient      *http.Client
	userAgent       string
	maxRetries      int
	limiter         *worker.Limiter
	cache           cache.Cache
	logger          *slog.Logger
}

// NewClient creates a client. limiter and c may be nil.
func NewClient(cfg model.BackendConfig, limiter *worker.Limiter, c cache.Cache, logger *slog.Logger) *Client {
	if c == nil {
		c = cache.NopCache{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		applicationsURL: strings.TrimRight(cfg.ApplicationsURL, "/"),
		claimsURL:       strings.TrimRight(cfg.ClaimsURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: util.NewTransport(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		},
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		limiter:    limiter,
		cache:      c,
		logger:     logger,
	}
}

// GetApplicationsBySBI returns the organisation's agreements, newest first as the backend orders them
func (c *Client) GetApplicationsBySBI(ctx context.Context, sbi string) ([]model.Application, error) {
	key := cache.Key("applications", sbi)
	var apps []model.Application
	if cache.GetJSON(c.cache, key, &apps) {
		return apps, nil
	}

	endpoint := c.applicationsURL + "/api/applications/latest?sbi=" + url.QueryEscape(sbi)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &apps, true); err != nil {
		return nil, fmt.Errorf("get applications: %w", err)
	}
	c.store(key, apps)
	return apps, nil
}

// GetClaimsByApplicationReference returns every claim made against an agreement.
// Claims are never cached: the spacing rules must see a claim submitted moments ago.
func (c *Client) GetClaimsByApplicationReference(ctx context.Context, reference string) ([]model.Claim, error) {
	endpoint := c.claimsURL + "/api/claim/get-by-application-reference/" + url.PathEscape(reference)

	var claims []model.Claim
	err := c.do(ctx, http.MethodGet, endpoint, nil, &claims, true)
	if errors.Is(err, ErrNotFound) {
		return []model.Claim{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get claims: %w", err)
	}
	return claims, nil
}

// GetHerds returns the herds registered against an agreement for one species
func (c *Client) GetHerds(ctx context.Context, reference string, species model.Livestock) ([]model.Herd, error) {
	key := herdsKey(reference, species)
	var herds []model.Herd
	if cache.GetJSON(c.cache, key, &herds) {
		return herds, nil
	}

	endpoint := c.applicationsURL + "/api/application/" + url.PathEscape(reference) +
		"/herds?species=" + url.QueryEscape(string(species))
	err := c.do(ctx, http.MethodGet, endpoint, nil, &herds, true)
	if errors.Is(err, ErrNotFound) {
		herds = []model.Herd{}
	} else if err != nil {
		return nil, fmt.Errorf("get herds: %w", err)
	}
	c.store(key, herds)
	return herds, nil
}

type urnRequest struct {
	SBI           string `json:"sbi"`
	LaboratoryURN string `json:"laboratoryURN"`
}

type urnResponse struct {
	IsURNUnique bool `json:"isURNUnique"`
}

// IsURNUnique asks whether a laboratory URN has been used by an earlier claim of the organisation
func (c *Client) IsURNUnique(ctx context.Context, sbi, urn string) (bool, error) {
	var resp urnResponse
	endpoint := c.claimsURL + "/api/claim/is-urn-unique"
	if err := c.do(ctx, http.MethodPost, endpoint, urnRequest{SBI: sbi, LaboratoryURN: urn}, &resp, true); err != nil {
		return false, fmt.Errorf("check urn: %w", err)
	}
	return resp.IsURNUnique, nil
}

// SubmitClaim posts a finished claim. It is sent once: a failed submission is
// reported rather than retried so a claim is never created twice.
func (c *Client) SubmitClaim(ctx context.Context, s model.Submission) (*model.SubmittedClaim, error) {
	var submitted model.SubmittedClaim
	endpoint := c.claimsURL + "/api/claim"
	if err := c.do(ctx, http.MethodPost, endpoint, s, &submitted, false); err != nil {
		return nil, fmt.Errorf("submit claim: %w", err)
	}

	if s.Data.Herd != nil {
		if err := c.cache.Delete(herdsKey(s.ApplicationReference, s.Data.TypeOfLivestock)); err != nil {
			c.logger.Warn("herd cache invalidation failed", "reference", s.ApplicationReference, "error", err)
		}
	}

	c.logger.Info("claim submitted", "reference", submitted.Reference, "status", submitted.Status)
	return &submitted, nil
}

func herdsKey(reference string, species model.Livestock) string {
	return cache.Key("herds", reference, string(species))
}

func (c *Client) store(key string, v any) {
	if err := cache.SetJSON(c.cache, key, v, 0); err != nil {
		c.logger.Warn("cache write failed", "error", err)
	}
}

// do sends one request, retrying transport errors, 429 and 5xx with
// exponential backoff when retry is set
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any, retry bool) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	attempts := 1
	if retry && c.maxRetries > 0 {
		attempts += c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := baseBackoff * time.Duration(1<<(attempt-1))
			c.logger.Debug("retrying backend call", "method", method, "url", endpoint, "attempt", attempt+1, "backoff", backoff, "error", lastErr)
			sleepFunc(backoff)
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx, endpoint); err != nil {
				return fmt.Errorf("rate limit: %w", err)
			}
		}

		err := c.once(ctx, method, endpoint, payload, out)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrNotFound) || ctx.Err() != nil {
			return err
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.retryable() {
			return err
		}
		lastErr = err
	}

	if attempts == 1 {
		return lastErr
	}
	return fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
}

func (c *Client) once(ctx context.Context, method, endpoint string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, endpoint, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &StatusError{
			Method:     method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data[:min(len(data), 256)])),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
