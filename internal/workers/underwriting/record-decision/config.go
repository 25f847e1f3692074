// internal/workers/underwriting/record-decision/config.go
package recorddecision

import (
	"time"

	"underwriting-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	Index   string // empty skips the search index
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{Timeout: 30 * time.Second, Index: "underwriting-decisions"}
	if cfg == nil {
		return c
	}
	if w, ok := cfg.Workers[TaskType]; ok && w.Timeout > 0 {
		c.Timeout = config.GetDuration(w.Timeout)
	}
	c.Index = cfg.Underwriting.DecisionIndex
	return c
}
