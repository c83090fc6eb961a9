// internal/workers/career/compute-score/config.go
package computescore

import (
	"time"

	"career-workers/internal/common/config"
)

type Config struct {
	Timeout          time.Duration
	PersistByDefault bool
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		Timeout: 10 * time.Second,
	}
	if cfg == nil {
		return c
	}
	if wc, ok := cfg.Workers[TaskType]; ok && wc.Timeout > 0 {
		c.Timeout = time.Duration(wc.Timeout) * time.Millisecond
	}
	c.PersistByDefault = cfg.Scoring.PersistByDefault
	return c
}
