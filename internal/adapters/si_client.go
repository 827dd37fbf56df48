package adapters

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"si-components/internal/shared"
)

const DefaultSIHost = "https://api.systeminit.com"

const defaultSIRetries = 3
const defaultSIRetryDelay = 250 * time.Millisecond
const defaultSITimeout = 30 * time.Second
const defaultSIRateBurst = 5
const maxSIRetryDelay = 5 * time.Second

// SIClientConfig carries connection settings for the SI public API.
type SIClientConfig struct {
	Host               string
	WorkspaceID        string
	Token              string
	TimeoutSec         int
	Retries            int
	RetryDelayMs       int
	RateLimit          float64
	RateBurst          int
	InsecureSkipVerify bool
}

// SIClientAdapter talks to the SI workspace API. Every call goes through the
// typed path first; when the response does not have the expected shape it
// falls back to a plain request decoded leniently.
type SIClientAdapter struct {
	BaseURL     string
	WorkspaceID string
	Token       string
	Timeout     time.Duration
	Retries     int
	RetryDelay  time.Duration

	client  *http.Client
	limiter *rate.Limiter
}

func NewSIClientAdapter(cfg SIClientConfig) SIClientAdapter {
	timeout := normalizeSITimeout(cfg.TimeoutSec)
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return SIClientAdapter{
		BaseURL:     normalizeSIHost(cfg.Host),
		WorkspaceID: strings.TrimSpace(cfg.WorkspaceID),
		Token:       strings.TrimSpace(cfg.Token),
		Timeout:     timeout,
		Retries:     normalizeSIRetries(cfg.Retries),
		RetryDelay:  normalizeSIRetryDelay(cfg.RetryDelayMs),
		client:      &http.Client{Timeout: timeout, Transport: transport},
		limiter:     newSILimiter(cfg.RateLimit, cfg.RateBurst),
	}
}

// requestMode marks which path issued a request, for logs and headers.
type requestMode string

const (
	modeSDK  requestMode = "sdk"
	modeHTTP requestMode = "http"
)

type apiResponse struct {
	Status int
	URL    string
	Body   []byte
}

// do sends one API request with retries. GETs retry on network errors, 5xx
// and 429; other methods only retry on 429 so a create is never sent twice
// after the server may have accepted it.
func (a SIClientAdapter) do(ctx context.Context, mode requestMode, method string, path string, query url.Values, payload any) (apiResponse, error) {
	if a.WorkspaceID == "" {
		return apiResponse{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("workspace id is empty (set SI_WORKSPACE_ID)")
	}
	var body []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return apiResponse{}, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to encode si request").
				WithCause(err)
		}
		body = encoded
	}

	var lastErr error
	for attempt := 0; attempt < a.Retries; attempt++ {
		if err := a.wait(ctx); err != nil {
			return apiResponse{}, err
		}
		retry, resp, err := a.doOnce(ctx, mode, method, path, query, body)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if method != http.MethodGet && resp.Status != http.StatusTooManyRequests {
			retry = false
		}
		if !retry || attempt == a.Retries-1 {
			return resp, err
		}
		delay := a.siRetryDelay(attempt)
		log.Debug().Str("method", method).Str("path", path).Int("attempt", attempt+1).Dur("delay", delay).Err(err).Msg("retrying si request")
		select {
		case <-ctx.Done():
			return resp, ctx.Err()
		case <-time.After(delay):
		}
	}
	if lastErr == nil {
		lastErr = errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("si request failed")
	}
	return apiResponse{}, lastErr
}

func (a SIClientAdapter) doOnce(ctx context.Context, mode requestMode, method string, path string, query url.Values, body []byte) (bool, apiResponse, error) {
	target := a.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return false, apiResponse{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create si request").
			WithCause(err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("User-Agent", "si-components/"+string(mode))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}

	started := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		return true, apiResponse{URL: target}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("si request failed").
			WithCause(err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, apiResponse{Status: resp.StatusCode, URL: target}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read si response").
			WithCause(err)
	}
	result := apiResponse{Status: resp.StatusCode, URL: target, Body: payload}
	log.Debug().
		Str("request_id", requestID).
		Str("mode", string(mode)).
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("si request")
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return false, result, nil
	}
	retry := resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests
	cause := shared.HTTPStatusError(resp.StatusCode, target)
	if body := strings.TrimSpace(string(payload)); body != "" {
		cause = shared.HTTPStatusErrorWithBody(resp.StatusCode, target, body)
	}
	return retry, result, errbuilder.New().
		WithCode(codeForStatus(resp.StatusCode)).
		WithMsg(fmt.Sprintf("si %s %s failed", strings.ToLower(method), path)).
		WithCause(cause)
}

func (a SIClientAdapter) wait(ctx context.Context) error {
	if a.limiter == nil {
		return nil
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("si rate limiter aborted").
			WithCause(err)
	}
	return nil
}

func (a SIClientAdapter) siRetryDelay(attempt int) time.Duration {
	delay := a.RetryDelay * time.Duration(1<<attempt)
	if delay > maxSIRetryDelay {
		delay = maxSIRetryDelay
	}
	jitter := time.Duration(time.Now().UnixNano() % int64(delay/2+1))
	return delay + jitter
}

func (a SIClientAdapter) workspacePath(format string, args ...any) string {
	escaped := make([]any, 0, len(args))
	for _, arg := range args {
		escaped = append(escaped, url.PathEscape(fmt.Sprint(arg)))
	}
	return fmt.Sprintf("/v1/w/%s", url.PathEscape(a.WorkspaceID)) + fmt.Sprintf(format, escaped...)
}

func codeForStatus(status int) errbuilder.ErrCode {
	switch status {
	case http.StatusNotFound:
		return errbuilder.CodeNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return errbuilder.CodePermissionDenied
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return errbuilder.CodeInvalidArgument
	case http.StatusConflict:
		return errbuilder.CodeAlreadyExists
	default:
		return errbuilder.CodeInternal
	}
}

// responseShapeError is the recognized failure class that triggers the
// plain HTTP fallback: the server answered 2xx but the body did not match
// the typed model.
type responseShapeError struct {
	What string
	Err  error
}

func (e *responseShapeError) Error() string {
	return fmt.Sprintf("unexpected %s response shape: %v", e.What, e.Err)
}

func (e *responseShapeError) Unwrap() error {
	return e.Err
}

func shapeError(what string, err error) error {
	return &responseShapeError{What: what, Err: err}
}

func isShapeError(err error) bool {
	var shape *responseShapeError
	return errors.As(err, &shape)
}

// call runs typed on the response body. On a shape mismatch a GET is
// re-issued as a plain request; a non-GET reuses the body it already has so
// the server never sees the write twice. The lenient decoder has the final
// say.
func call[T any](ctx context.Context, a SIClientAdapter, method string, path string, query url.Values, payload any, what string, typed func([]byte) (T, error), lenient func([]byte) (T, error)) (T, error) {
	var zero T
	resp, err := a.do(ctx, modeSDK, method, path, query, payload)
	if err != nil {
		return zero, err
	}
	value, err := typed(resp.Body)
	if err == nil {
		return value, nil
	}
	if !isShapeError(err) {
		return zero, err
	}
	log.Debug().Str("path", path).Err(err).Msg("typed decode failed, falling back to plain http")
	body := resp.Body
	if method == http.MethodGet {
		raw, err := a.do(ctx, modeHTTP, method, path, query, nil)
		if err != nil {
			return zero, err
		}
		body = raw.Body
	}
	value, err = lenient(body)
	if err != nil {
		return zero, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to decode si " + what + " response").
			WithCause(err)
	}
	return value, nil
}

func normalizeSIHost(value string) string {
	host := strings.TrimRight(strings.TrimSpace(value), "/")
	if host == "" {
		return DefaultSIHost
	}
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return host
}

func normalizeSITimeout(value int) time.Duration {
	timeout := time.Duration(value) * time.Second
	if timeout <= 0 {
		return defaultSITimeout
	}
	return timeout
}

func normalizeSIRetries(value int) int {
	if value <= 0 {
		return defaultSIRetries
	}
	return value
}

func normalizeSIRetryDelay(value int) time.Duration {
	delay := time.Duration(value) * time.Millisecond
	if delay <= 0 {
		return defaultSIRetryDelay
	}
	return delay
}

func newSILimiter(limit float64, burst int) *rate.Limiter {
	if limit <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst <= 0 {
		burst = defaultSIRateBurst
	}
	return rate.NewLimiter(rate.Limit(limit), burst)
}
