// internal/workers/underwriting/notify-decision/config.go
package notifydecision

import (
	"time"

	"underwriting-workers/internal/common/config"
)

type Config struct {
	Timeout  time.Duration
	Enabled  bool
	TopicARN string
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{Timeout: 15 * time.Second}
	if cfg == nil {
		return c
	}
	if w, ok := cfg.Workers[TaskType]; ok && w.Timeout > 0 {
		c.Timeout = config.GetDuration(w.Timeout)
	}
	c.Enabled = cfg.Integrations.AWS.SNS.Enabled
	c.TopicARN = cfg.Underwriting.DecisionTopicARN
	return c
}
