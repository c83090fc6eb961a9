// internal/workers/knowledge-base/search-roles/models.go
package searchroles

import "career-workers/internal/models"

type Input struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type Output struct {
	Results []RoleResult `json:"results"`
	Source  string       `json:"source"` // "elasticsearch" or "memory"
}

type RoleResult struct {
	JobRole         string `json:"jobRole"`
	JobFamily       string `json:"jobFamily,omitempty"`
	Cluster         string `json:"cluster,omitempty"`
	Level           string `json:"level,omitempty"`
	TechnicalSkills string `json:"technicalSkills,omitempty"`
	SoftSkills      string `json:"softSkills,omitempty"`
	DomainSkills    string `json:"domainSkills,omitempty"`
	Description     string `json:"description,omitempty"`
	AverageSalary   string `json:"averageSalary,omitempty"`
}

// Result sources
const (
	SourceElasticsearch = "elasticsearch"
	SourceMemory        = "memory"
)

func toResults(rows []models.KnowledgeBaseRow) []RoleResult {
	out := make([]RoleResult, 0, len(rows))
	for _, r := range rows {
		out = append(out, RoleResult{
			JobRole:         r.JobRole,
			JobFamily:       r.JobFamily,
			Cluster:         r.Cluster,
			Level:           r.Level,
			TechnicalSkills: r.TechnicalSkills,
			SoftSkills:      r.SoftSkills,
			DomainSkills:    r.DomainSkills,
			Description:     r.Description,
			AverageSalary:   r.AverageSalary,
		})
	}
	return out
}
