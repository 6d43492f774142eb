package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
)

// NewClient creates a provider client wrapped with rate limiting and
// retry of transport failures.
func NewClient(cfg Config, logger *slog.Logger) (*ResilientClient, error) {
	var provider Client
	var err error

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		provider, err = newOpenAIClient(cfg)
	case "anthropic", "":
		provider, err = newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q: %w", cfg.Provider, common.ErrInvalidConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return Wrap(provider, cfg, logger), nil
}

// Wrap adds rate limiting and retry to an existing client.
func Wrap(provider Client, cfg Config, logger *slog.Logger) *ResilientClient {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := common.RetryOptions{
		Attempts: cfg.MaxRetries,
		Delay:    cfg.RetryDelay,
	}
	if retryOpts.Delay == 0 {
		retryOpts.Delay = time.Second
	}

	return &ResilientClient{
		next:        provider,
		logger:      logger,
		retryOpts:   retryOpts,
		rateLimiter: newRateLimiter(cfg.RateLimit),
	}
}

// ResilientClient retries transport failures of the wrapped client. Responses
// that arrive but cannot be used are never retried.
type ResilientClient struct {
	next        Client
	logger      *slog.Logger
	rateLimiter *rateLimiter
	retryOpts   common.RetryOptions
}

// Complete implements Client.
func (c *ResilientClient) Complete(ctx context.Context, req Request) (string, error) {
	var out string
	err := common.WithRetry(ctx, func() error {
		if err := c.rateLimiter.wait(ctx); err != nil {
			return &common.RetryableError{Err: err, Retryable: false}
		}
		text, err := c.next.Complete(ctx, req)
		if err != nil {
			return err
		}
		out = text
		return nil
	}, c.retryOpts)
	if err != nil {
		c.logger.Error("completion failed", "error", err)
		return "", err
	}

	c.logger.Debug("completion received", "bytes", len(out))
	return out, nil
}

// Close stops the rate limiter.
func (c *ResilientClient) Close() {
	c.rateLimiter.Close()
}

func permanent(err error) error {
	return &common.RetryableError{Err: err, Retryable: false}
}

func transient(err error) error {
	return &common.RetryableError{Err: err, Retryable: true}
}

// statusError classifies a non-200 provider response.
func statusError(provider string, status int, body []byte) error {
	err := fmt.Errorf("%s API error (status %d): %s", provider, status, string(body))
	switch {
	case status == 429:
		return transient(fmt.Errorf("%w: %w", common.ErrRateLimit, err))
	case status >= 500:
		return transient(err)
	default:
		return permanent(err)
	}
}
