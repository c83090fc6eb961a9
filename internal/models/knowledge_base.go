// internal/models/knowledge_base.go
package models

// KnowledgeBaseRow is one job role from the knowledge base. Every field is optional;
// absent columns are empty strings.
type KnowledgeBaseRow struct {
	JobRole         string            `json:"job_role" yaml:"job_role"`
	JobFamily       string            `json:"job_family,omitempty" yaml:"job_family,omitempty"`
	Cluster         string            `json:"cluster,omitempty" yaml:"cluster,omitempty"`
	Level           string            `json:"level,omitempty" yaml:"level,omitempty"`
	TechnicalSkills string            `json:"technical_skills,omitempty" yaml:"technical_skills,omitempty"`
	SoftSkills      string            `json:"soft_skills,omitempty" yaml:"soft_skills,omitempty"`
	DomainSkills    string            `json:"domain_skills,omitempty" yaml:"domain_skills,omitempty"`
	ExperienceRange string            `json:"experience_range,omitempty" yaml:"experience_range,omitempty"`
	JobIndex        string            `json:"job_index,omitempty" yaml:"job_index,omitempty"`
	Description     string            `json:"description,omitempty" yaml:"description,omitempty"`
	AverageSalary   string            `json:"average_salary,omitempty" yaml:"average_salary,omitempty"`
	Sources         string            `json:"sources,omitempty" yaml:"sources,omitempty"`
	Qualifications  string            `json:"qualifications,omitempty" yaml:"qualifications,omitempty"`
	Extra           map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// MatchText is the text a row is matched on: technical skills, domain skills and role name.
func (r KnowledgeBaseRow) MatchText() string {
	return r.TechnicalSkills + " " + r.DomainSkills + " " + r.JobRole
}

// IsEmpty reports whether no known or extra column carries a value.
func (r KnowledgeBaseRow) IsEmpty() bool {
	for _, v := range r.Columns() {
		if v != "" {
			return false
		}
	}
	for _, v := range r.Extra {
		if v != "" {
			return false
		}
	}
	return true
}

// Columns returns the known columns keyed by canonical name.
func (r KnowledgeBaseRow) Columns() map[string]string {
	return map[string]string{
		"job_role":         r.JobRole,
		"job_family":       r.JobFamily,
		"cluster":          r.Cluster,
		"level":            r.Level,
		"technical_skills": r.TechnicalSkills,
		"soft_skills":      r.SoftSkills,
		"domain_skills":    r.DomainSkills,
		"experience_range": r.ExperienceRange,
		"job_index":        r.JobIndex,
		"description":      r.Description,
		"average_salary":   r.AverageSalary,
		"sources":          r.Sources,
		"qualifications":   r.Qualifications,
	}
}
