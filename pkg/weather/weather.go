package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
)

func newWeatherImpl(cfg Config) *weatherImpl {
	return &weatherImpl{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
	}
}

// Current fetches the current conditions of city. Any non-200 status is
// reported as not found.
func (c *weatherImpl) Current(ctx context.Context, city string) (Conditions, bool, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", units)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+currentWeatherPath+"?"+q.Encode(), nil)
	if err != nil {
		return Conditions{}, false, fmt.Errorf("weather: failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Conditions{}, false, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Conditions{}, false, nil
	}

	var body currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Conditions{}, false, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if body.Main == nil || len(body.Weather) == 0 {
		return Conditions{}, false, fmt.Errorf("%w: missing main or weather[0]", ErrMalformedResponse)
	}

	return Conditions{
		Temp:        int(math.Round(body.Main.Temp)),
		FeelsLike:   int(math.Round(body.Main.FeelsLike)),
		Humidity:    body.Main.Humidity,
		Description: body.Weather[0].Description,
		WindSpeed:   body.Wind.Speed,
	}, true, nil
}
