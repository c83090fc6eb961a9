// internal/workers/communication/send-score-notification/config.go
package sendscorenotification

import (
	"time"

	"career-workers/internal/common/config"
)

type Config struct {
	EmailEnabled      bool
	SMSEnabled        bool
	FromEmail         string
	LowScoreThreshold int
	Timeout           time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		LowScoreThreshold: 40,
		Timeout:           30 * time.Second,
	}
	if cfg == nil {
		return c
	}
	if wc, ok := cfg.Workers[TaskType]; ok && wc.Timeout > 0 {
		c.Timeout = time.Duration(wc.Timeout) * time.Millisecond
	}
	n := cfg.Notifications
	c.EmailEnabled = n.Email.Enabled
	c.FromEmail = n.Email.FromEmail
	c.SMSEnabled = n.SMS.Enabled
	if n.LowScoreThreshold > 0 {
		c.LowScoreThreshold = n.LowScoreThreshold
	}
	return c
}
