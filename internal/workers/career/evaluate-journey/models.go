// internal/workers/career/evaluate-journey/models.go
package evaluatejourney

import "career-workers/internal/journey"

type Input struct {
	UserID string `json:"userId"`
}

type Output struct {
	UserID          string           `json:"userId"`
	Stage           int              `json:"stage"`
	StageName       string           `json:"stageName"`
	Completion      float64          `json:"completion"`
	NextActions     []journey.Action `json:"nextActions"`
	Message         string           `json:"message"`
	CanAccessStages map[int]bool     `json:"canAccessStages"`
}
