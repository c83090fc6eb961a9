// internal/workers/knowledge-base/refresh-kb/config.go
package refreshkb

import (
	"time"

	"career-workers/internal/common/config"
)

type Config struct {
	Timeout       time.Duration
	SearchEnabled bool
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{Timeout: 60 * time.Second}
	if cfg == nil {
		return c
	}
	if wc, ok := cfg.Workers[TaskType]; ok && wc.Timeout > 0 {
		c.Timeout = time.Duration(wc.Timeout) * time.Millisecond
	}
	c.SearchEnabled = cfg.KnowledgeBase.SearchEnabled
	return c
}
