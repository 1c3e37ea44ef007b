package httpclient

import (
	"context"
	"time"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/rs/zerolog"
)

// RetryHandler handles HTTP request retries with exponential backoff
type RetryHandler struct {
	maxRetries       int
	baseDelay        time.Duration
	maxDelay         time.Duration
	retryStatusCodes map[int]bool
	logger           zerolog.Logger
}

// NewRetryHandler creates a new retry handler
func NewRetryHandler(cfg RetryConfig, logger zerolog.Logger) *RetryHandler {
	codes := make(map[int]bool, len(cfg.RetryStatusCodes))
	for _, code := range cfg.RetryStatusCodes {
		codes[code] = true
	}
	maxDelay := cfg.MaxDelay
	if maxDelay < cfg.BaseDelay {
		maxDelay = cfg.BaseDelay
	}
	return &RetryHandler{
		maxRetries:       cfg.MaxRetries,
		baseDelay:        cfg.BaseDelay,
		maxDelay:         maxDelay,
		retryStatusCodes: codes,
		logger:           logger.With().Str("component", "RetryHandler").Logger(),
	}
}

// CalculateDelay returns baseDelay * 2^attempt capped at maxDelay
func (rh *RetryHandler) CalculateDelay(attempt int) time.Duration {
	delay := rh.baseDelay
	for i := 0; i < attempt && delay < rh.maxDelay; i++ {
		delay *= 2
	}
	if delay > rh.maxDelay {
		delay = rh.maxDelay
	}
	return delay
}

func (rh *RetryHandler) wait(ctx context.Context, attempt int, reason string, url string) error {
	delay := rh.CalculateDelay(attempt)
	rh.logger.Warn().
		Str("url", url).
		Str("reason", reason).
		Int("attempt", attempt+1).
		Int("max_retries", rh.maxRetries).
		Dur("delay", delay).
		Msg("Request failed, waiting before retry")

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DoWithRetry executes doFunc, retrying network errors and retryable statuses
func (rh *RetryHandler) DoWithRetry(ctx context.Context, doFunc func(context.Context, *Request) (*Response, error), req *Request) (*Response, error) {
	var lastResp *Response
	var lastErr error

	for attempt := 0; attempt <= rh.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := doFunc(ctx, req)
		lastResp, lastErr = resp, err

		retryable := err != nil || rh.retryStatusCodes[resp.StatusCode]
		if !retryable || attempt == rh.maxRetries {
			break
		}

		reason := "network error"
		if err == nil {
			reason = "retryable status"
		}
		if err := rh.wait(ctx, attempt, reason, req.URL); err != nil {
			return nil, err
		}
	}

	if lastErr != nil {
		return nil, common.WrapError(lastErr, "all retry attempts failed")
	}
	if rh.retryStatusCodes[lastResp.StatusCode] {
		err := common.NewHTTPErrorWithURL(lastResp.StatusCode, truncate(lastResp.Body, 512), req.URL)
		return lastResp, common.WrapError(err, "all retry attempts failed")
	}
	return lastResp, nil
}
