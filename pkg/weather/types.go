package weather

import (
	"fmt"
	"net/http"
	"strings"
)

// Config holds client configuration
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Validate validates the configuration and fills defaults
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("weather: APIKey is required")
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	return nil
}

// Conditions is the current weather of a city, in metric units.
type Conditions struct {
	Temp        int
	FeelsLike   int
	Humidity    int
	Description string
	WindSpeed   float64
}

// Summary renders the conditions as extra prompt context.
func (c Conditions) Summary(city string) string {
	return fmt.Sprintf(
		"Current weather data for %s:\n- Temperature: %d°C\n- Feels like: %d°C\n- Humidity: %d%%\n- Condition: %s\n- Wind speed: %.1f m/s",
		city, c.Temp, c.FeelsLike, c.Humidity, c.Description, c.WindSpeed,
	)
}

type weatherImpl struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// currentResponse is the subset of /data/2.5/weather the bot reads.
type currentResponse struct {
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}
