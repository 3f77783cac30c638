package toggl

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultTrackURL     = "https://api.track.toggl.com/api/v9"
	defaultReportsV2URL = "https://api.track.toggl.com/reports/api/v2"
	defaultReportsV3URL = "https://api.track.toggl.com/reports/api/v3"

	userAgent   = "toggl-admin-mcp/0.1.0"
	createdWith = "toggl-admin-mcp"

	requestTimeout  = 30 * time.Second
	maxRetryElapsed = 2 * time.Minute
)

// core issues authenticated JSON requests with retry on rate limiting
// and server errors. Both API clients share one core.
type core struct {
	apiToken string
	http     *http.Client
	log      *slog.Logger
}

func newCore(apiToken string, log *slog.Logger) *core {
	if log == nil {
		log = slog.Default()
	}
	return &core{
		apiToken: apiToken,
		http:     &http.Client{Timeout: requestTimeout},
		log:      log,
	}
}

// do performs one API call. body is marshaled as JSON when non-nil; the
// response is decoded into out unless out is nil or the body is empty.
func (c *core) do(ctx context.Context, method, rawURL string, query url.Values, body, out any) error {
	if c.apiToken == "" {
		return ErrMissingToken
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parsing url: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	op := func() error {
		return c.once(ctx, method, u.String(), payload, out)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxElapsedTime = maxRetryElapsed
	return backoff.Retry(op, backoff.WithContext(bo, ctx))
}

func (c *core) once(ctx context.Context, method, fullURL string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Authorization", "Basic "+basicAuth(c.apiToken))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		// A request that dies on the wire may still have been applied
		// server-side, so only idempotent reads get another try.
		if method == http.MethodGet || method == http.MethodHead {
			return err
		}
		return backoff.Permanent(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
		if apiErr.retryable() {
			c.log.Warn("toggl request retrying", "method", method, "url", fullURL, "status", resp.StatusCode)
			return apiErr
		}
		return backoff.Permanent(apiErr)
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("reading response: %w", err))
	}
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return backoff.Permanent(fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

// Auth is HTTP basic with the token as username and the literal
// "api_token" as password.
func basicAuth(token string) string {
	return base64.StdEncoding.EncodeToString([]byte(token + ":api_token"))
}

// errorMessage pulls a human-readable message out of an error body.
func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		return plain
	}
	return string(bytes.TrimSpace(data))
}
