package config

import (
	"strconv"
	"time"
)

type APIConfig interface {
	GetAPIURL() string
	GetRequestTimeout() time.Duration
	GetRateLimit() float64
	GetRateBurst() int
}

type API struct {
	src source
}

var _ APIConfig = API{}

// GetAPIURL is fixed per deployment; it is never negotiated at runtime.
func (a API) GetAPIURL() string {
	return a.src.get("API_URL", "http://localhost:3000/api")
}

func (a API) GetRequestTimeout() time.Duration {
	d, err := time.ParseDuration(a.src.get("API_TIMEOUT", "10s"))
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// GetRateLimit returns the outbound requests per second. Zero disables pacing.
func (a API) GetRateLimit() float64 {
	rps, err := strconv.ParseFloat(a.src.get("API_RATE_LIMIT", "0"), 64)
	if err != nil || rps < 0 {
		return 0
	}
	return rps
}

func (a API) GetRateBurst() int {
	burst, err := strconv.Atoi(a.src.get("API_RATE_BURST", "5"))
	if err != nil || burst < 1 {
		return 1
	}
	return burst
}
