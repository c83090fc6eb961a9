// internal/workers/knowledge-base/search-roles/config.go
package searchroles

import (
	"time"

	"career-workers/internal/common/config"
)

type Config struct {
	Timeout       time.Duration
	SearchEnabled bool
	MaxLimit      int
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{Timeout: 5 * time.Second, MaxLimit: 50}
	if cfg == nil {
		return c
	}
	if wc, ok := cfg.Workers[TaskType]; ok && wc.Timeout > 0 {
		c.Timeout = time.Duration(wc.Timeout) * time.Millisecond
	}
	c.SearchEnabled = cfg.KnowledgeBase.SearchEnabled
	return c
}
