// internal/models/career_score.go
package models

import "time"

// Breakdown keys, in the order they are reported.
const (
	BreakdownSoftSkills         = "soft_skills"
	BreakdownSkillCoverage      = "skill_coverage"
	BreakdownPracticalEvidence  = "practical_evidence"
	BreakdownMarketFactor       = "market_factor"
	BreakdownMetaFactor         = "meta_factor"
	BreakdownRoleDemand         = "role_demand"
	BreakdownRoleDifficulty     = "role_difficulty"
	BreakdownEvidenceConfidence = "evidence_confidence"
	BreakdownDataCompleteness   = "data_completeness"
	BreakdownDegreeScore        = "degree_score"
	BreakdownExperienceScore    = "experience_score"
	BreakdownCertificateQuality = "certificate_quality"
)

// BreakdownKeys lists every breakdown entry.
var BreakdownKeys = []string{
	BreakdownSoftSkills,
	BreakdownSkillCoverage,
	BreakdownPracticalEvidence,
	BreakdownMarketFactor,
	BreakdownMetaFactor,
	BreakdownRoleDemand,
	BreakdownRoleDifficulty,
	BreakdownEvidenceConfidence,
	BreakdownDataCompleteness,
	BreakdownDegreeScore,
	BreakdownExperienceScore,
	BreakdownCertificateQuality,
}

// ScoreResult is the career readiness score for one profile.
//
// Confidence carries the meta factor value. It is not an independent measure of how
// certain the score is.
type ScoreResult struct {
	Final        int                `json:"score"`
	Breakdown    map[string]float64 `json:"breakdown"`
	Confidence   float64            `json:"confidence"`
	Strengths    []string           `json:"strengths"`
	Improvements []string           `json:"improvements"`
	TargetRole   string             `json:"targetRole,omitempty"`
	SalaryFit    float64            `json:"salaryFit"`
}

// RecommendationResult holds ranked role names and the skills to learn next.
type RecommendationResult struct {
	JobRoles      []string `json:"jobRoles"`
	SkillsToLearn []string `json:"skillsToLearn"`
	UsedFallback  bool     `json:"usedFallback"`
}

// CareerScoreRecord is a persisted score row.
type CareerScoreRecord struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	TotalScore         int       `json:"totalScore"`
	DegreeScore        float64   `json:"degreeScore"`
	ExperienceScore    float64   `json:"experienceScore"`
	SkillCoverage      float64   `json:"skillCoverage"`
	CertificateQuality float64   `json:"certificateQuality"`
	PracticalEvidence  float64   `json:"practicalEvidence"`
	SoftSkills         float64   `json:"softSkills"`
	Confidence         float64   `json:"confidence"`
	MarketFactor       float64   `json:"marketFactor"`
	MetaFactor         float64   `json:"metaFactor"`
	RoleDemand         float64   `json:"roleDemand"`
	RoleDifficulty     float64   `json:"roleDifficulty"`
	EvidenceConfidence float64   `json:"evidenceConfidence"`
	DataCompleteness   float64   `json:"dataCompleteness"`
	SalaryFit          float64   `json:"salaryFit"`
	CreatedAt          time.Time `json:"createdAt"`
}

// NewCareerScoreRecord flattens a ScoreResult into a persistable row.
func NewCareerScoreRecord(id, userID string, res *ScoreResult, createdAt time.Time) *CareerScoreRecord {
	b := res.Breakdown
	return &CareerScoreRecord{
		ID:                 id,
		UserID:             userID,
		TotalScore:         res.Final,
		DegreeScore:        b[BreakdownDegreeScore],
		ExperienceScore:    b[BreakdownExperienceScore],
		SkillCoverage:      b[BreakdownSkillCoverage],
		CertificateQuality: b[BreakdownCertificateQuality],
		PracticalEvidence:  b[BreakdownPracticalEvidence],
		SoftSkills:         b[BreakdownSoftSkills],
		Confidence:         res.Confidence,
		MarketFactor:       b[BreakdownMarketFactor],
		MetaFactor:         b[BreakdownMetaFactor],
		RoleDemand:         b[BreakdownRoleDemand],
		RoleDifficulty:     b[BreakdownRoleDifficulty],
		EvidenceConfidence: b[BreakdownEvidenceConfidence],
		DataCompleteness:   b[BreakdownDataCompleteness],
		SalaryFit:          res.SalaryFit,
		CreatedAt:          createdAt,
	}
}
