package weather

import "time"

const (
	// DefaultBaseURL is the OpenWeatherMap API host
	DefaultBaseURL = "http://api.openweathermap.org"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 10 * time.Second

	currentWeatherPath = "/data/2.5/weather"
	units              = "metric"
)
