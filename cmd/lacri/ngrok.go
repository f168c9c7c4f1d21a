package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	ngrokAttempts      = 10
	ngrokRetryInterval = 3 * time.Second
)

var errNoTunnels = errors.New("ngrok has no active tunnels")

type ngrokTunnelsResponse struct {
	Tunnels []ngrokTunnel `json:"tunnels"`
}

type ngrokTunnel struct {
	PublicURL string `json:"public_url"`
	Proto     string `json:"proto"`
}

// ngrokDetector polls the ngrok local API until a tunnel shows up.
type ngrokDetector struct {
	apiBase  string
	client   *http.Client
	attempts int
	interval time.Duration
}

// detectNgrokURL returns the public URL of the first HTTPS tunnel, or any tunnel
// when none is HTTPS. ngrok often starts after the bot, hence the retries.
func detectNgrokURL(ctx context.Context, ngrokAPIBase string) (string, error) {
	d := ngrokDetector{
		apiBase:  ngrokAPIBase,
		client:   &http.Client{Timeout: 5 * time.Second},
		attempts: ngrokAttempts,
		interval: ngrokRetryInterval,
	}
	return d.detect(ctx)
}

func (d ngrokDetector) detect(ctx context.Context) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		publicURL, err := d.fetch(ctx)
		if err == nil {
			return publicURL, nil
		}
		lastErr = err

		if attempt < d.attempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(d.interval):
			}
		}
	}
	return "", fmt.Errorf("ngrok detection failed after %d attempts: %w", d.attempts, lastErr)
}

func (d ngrokDetector) fetch(ctx context.Context) (string, error) {
	url := strings.TrimRight(d.apiBase, "/") + "/api/tunnels"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create ngrok API request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ngrok API not reachable: %w", err)
	}
	defer resp.Body.Close()

	var tunnels ngrokTunnelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tunnels); err != nil {
		return "", fmt.Errorf("failed to decode ngrok API response: %w", err)
	}

	for _, t := range tunnels.Tunnels {
		if t.Proto == "https" {
			return t.PublicURL, nil
		}
	}
	if len(tunnels.Tunnels) > 0 {
		return tunnels.Tunnels[0].PublicURL, nil
	}
	return "", errNoTunnels
}
