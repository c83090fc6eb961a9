// internal/workers/career/compute-score/models.go
package computescore

import "career-workers/internal/models"

type Input struct {
	UserID  string          `json:"userId"`
	Persist *bool           `json:"persist,omitempty"`
	Profile *models.Profile `json:"profile,omitempty"`
}

type Output struct {
	UserID       string             `json:"userId"`
	Score        int                `json:"score"`
	Breakdown    map[string]float64 `json:"breakdown"`
	Confidence   float64            `json:"confidence"`
	Strengths    []string           `json:"strengths"`
	Improvements []string           `json:"improvements"`
	TargetRole   string             `json:"targetRole,omitempty"`
	ScoreID      string             `json:"scoreId,omitempty"`
	ComputedAt   string             `json:"computedAt"` // RFC 3339
}
