// internal/models/notification.go
package models

// Notification statuses reported by the score notification worker.
const (
	NotificationSent     = "sent"
	NotificationFailed   = "failed"
	NotificationDisabled = "disabled"
)

type Notification struct {
	ID      string                 `json:"id"`
	UserID  string                 `json:"userId"`
	Type    string                 `json:"type"`    // "score_ready", "score_low"
	Channel string                 `json:"channel"` // "email", "sms"
	Status  string                 `json:"status"`
	Payload map[string]interface{} `json:"payload"`
	SentAt  string                 `json:"sentAt"`
}

type NotificationTemplate struct {
	Type    string `json:"type"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
