package ratelimit

import (
	"time"

	"golang.org/x/time/rate"
)

// EndpointConfig sets the limit for requests matching Method and Path.
// Path segments may be "*" to match any single segment.
type EndpointConfig struct {
	Path   string
	Method string
	Rate   rate.Limit // requests per second; zero or less means unlimited
	Burst  int
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultRate     rate.Limit
	DefaultBurst    int
	IdleTTL         time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewConfig builds a Config with a general limit and a stricter limit for
// routes that call the language model.
func NewConfig(enabled bool, rps float64, burst int, modelRPS float64, modelBurst int) *Config {
	return &Config{
		Enabled:         enabled,
		DefaultRate:     rate.Limit(rps),
		DefaultBurst:    burst,
		IdleTTL:         time.Hour,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(rate.Limit(modelRPS), modelBurst),
	}
}

// DefaultEndpointConfigs returns the per-route limits for model-backed routes.
func DefaultEndpointConfigs(modelRate rate.Limit, modelBurst int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/health", Method: "GET"},
		{Path: "/interviews/start", Method: "POST", Rate: modelRate, Burst: modelBurst},
		{Path: "/interviews/*/answer", Method: "POST", Rate: modelRate, Burst: modelBurst},
		{Path: "/interviews/*/answer-voice", Method: "POST", Rate: modelRate, Burst: modelBurst},
	}
}

// MatchEndpoint returns the first config matching method and path, or nil.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	for i := range configs {
		c := &configs[i]
		if c.Method == method && matchPath(c.Path, path) {
			return c
		}
	}
	return nil
}

func matchPath(pattern, path string) bool {
	for {
		pSeg, pRest, pMore := cut(pattern)
		seg, rest, more := cut(path)
		if pSeg != "*" && pSeg != seg {
			return false
		}
		if pSeg == "*" && seg == "" {
			return false
		}
		if !pMore || !more {
			return pMore == more
		}
		pattern, path = pRest, rest
	}
}

// cut splits off the first segment of a slash-separated path.
func cut(s string) (seg, rest string, more bool) {
	if len(s) > 0 && s[0] == '/' {
		s = s[1:]
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return s[:i], s[i:], true
		}
	}
	return s, "", false
}
