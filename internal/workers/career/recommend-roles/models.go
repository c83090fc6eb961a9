// internal/workers/career/recommend-roles/models.go
package recommendroles

import "career-workers/internal/models"

type Input struct {
	UserID  string          `json:"userId"`
	Profile *models.Profile `json:"profile,omitempty"`
}

type Output struct {
	UserID        string   `json:"userId"`
	JobRoles      []string `json:"jobRoles"`
	SkillsToLearn []string `json:"skillsToLearn"`
	UsedFallback  bool     `json:"usedFallback"`
}
