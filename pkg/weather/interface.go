package weather

import "context"

// IWeather resolves a city name to its current conditions.
type IWeather interface {
	// Current returns found=false with a nil error when the city is unknown.
	Current(ctx context.Context, city string) (Conditions, bool, error)
}

// New creates a new client with the given configuration
func New(cfg Config) (IWeather, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newWeatherImpl(cfg), nil
}
