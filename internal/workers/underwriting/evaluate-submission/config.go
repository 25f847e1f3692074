// internal/workers/underwriting/evaluate-submission/config.go
package evaluatesubmission

import (
	"time"

	"underwriting-workers/internal/common/config"
)

type Config struct {
	Timeout            time.Duration
	CacheTTL           time.Duration // zero disables the decision cache
	EnforceEligibility bool
}

// LoadConfig builds the worker settings from the application config.
// A negative decision_cache_ttl turns caching off.
func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		Timeout:  10 * time.Second,
		CacheTTL: time.Hour,
	}
	if cfg == nil {
		return c
	}
	if w, ok := cfg.Workers[TaskType]; ok && w.Timeout > 0 {
		c.Timeout = config.GetDuration(w.Timeout)
	}
	switch ttl := cfg.Underwriting.DecisionCacheTTL; {
	case ttl > 0:
		c.CacheTTL = time.Duration(ttl) * time.Second
	case ttl < 0:
		c.CacheTTL = 0
	}
	c.EnforceEligibility = cfg.Underwriting.EnforceEligibility
	return c
}
