// Package completion wraps a provider chain so that callers always get text back.
package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lacri-bot/internal/metrics"
	"lacri-bot/pkg/llmprovider"
	"lacri-bot/pkg/log"
)

// Client runs one skill's completions against its provider.
type Client struct {
	l        log.Logger
	provider llmprovider.Provider
	fallback string
	timeout  time.Duration
}

// New creates a Client. A non-positive timeout uses DefaultTimeout.
func New(l log.Logger, provider llmprovider.Provider, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Client{
		l:        l,
		provider: provider,
		fallback: opts.Fallback,
		timeout:  opts.Timeout,
	}
}

type outcome struct {
	resp *llmprovider.Response
	err  error
}

// Complete sends messages to the provider and waits for the answer, ctx
// cancellation or the timeout, whichever comes first. It never returns a bare
// error: failures are logged and replaced by the fallback text.
func (c *Client) Complete(ctx context.Context, messages []llmprovider.Message, cfg llmprovider.ModelConfig) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	name := c.provider.Name()
	req := &llmprovider.Request{Messages: messages, Config: cfg}

	// Buffered so the goroutine can always finish after we stop waiting.
	done := make(chan outcome, 1)
	start := time.Now()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%w: %v", ErrProviderPanic, r)}
			}
		}()
		resp, err := c.provider.Complete(ctx, req)
		done <- outcome{resp: resp, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out = outcome{err: fmt.Errorf("%w: %w", llmprovider.ErrProviderTimeout, ctx.Err())}
	}
	metrics.CompletionDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if out.err == nil && out.resp == nil {
		out.err = fmt.Errorf("%w: empty response", llmprovider.ErrMalformedResponse)
	}

	if out.err != nil {
		label := metrics.OutcomeFallback
		if errors.Is(out.err, llmprovider.ErrProviderTimeout) {
			label = metrics.OutcomeTimeout
		}
		metrics.CompletionsTotal.WithLabelValues(name, label).Inc()

		if errors.Is(out.err, ErrProviderPanic) {
			c.l.Errorf(ctx, "completion.Client.Complete: provider=%s: %v", name, out.err)
		} else {
			c.l.Warnf(ctx, "completion.Client.Complete: provider=%s: %v", name, out.err)
		}

		return Result{Text: c.fallback, Provider: name, Fallback: true, Err: out.err}
	}

	metrics.CompletionsTotal.WithLabelValues(name, metrics.OutcomeSuccess).Inc()
	provider := out.resp.ProviderName
	if provider == "" {
		provider = name
	}
	return Result{Text: out.resp.Text, Provider: provider}
}

// Fallback returns the text used when a completion fails.
func (c *Client) Fallback() string {
	return c.fallback
}
