// internal/workers/communication/send-score-notification/models.go
package sendscorenotification

type Input struct {
	UserID       string   `json:"userId"`
	Score        int      `json:"score"`
	Strengths    []string `json:"strengths,omitempty"`
	Improvements []string `json:"improvements,omitempty"`
}

type Output struct {
	NotificationID string   `json:"notificationId"`
	Status         string   `json:"status"` // "sent", "failed", "disabled"
	Channels       []string `json:"channels"`
	SentAt         string   `json:"sentAt"` // ISO 8601
}

// Notification types
const (
	TypeScoreReady = "score_ready"
	TypeScoreLow   = "score_low"
)

// Channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)
