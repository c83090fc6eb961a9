// internal/scoring/factors.go
package scoring

import (
	"strings"
	"unicode/utf8"

	"career-workers/internal/models"
)

// Normalize clamps x to [0,1].
func Normalize(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

type degreeWeight struct {
	key   string
	score float64
}

// Ordered degree table. The longest key contained in the education level wins,
// earlier entries break ties.
var degreeTable = []degreeWeight{
	{"phd", 1.0}, {"doctorate", 1.0}, {"ph.d", 1.0}, {"md", 1.0}, {"ms", 1.0},
	{"master", 0.8}, {"masters", 0.8}, {"msc", 0.8}, {"mba", 0.8}, {"ma", 0.8},
	{"mca", 0.8}, {"mtech", 0.8}, {"me", 0.8}, {"mcom", 0.8},
	{"bachelor", 0.6}, {"bachelors", 0.6}, {"bsc", 0.6}, {"ba", 0.6}, {"btech", 0.6},
	{"be", 0.6}, {"bcom", 0.6}, {"bba", 0.6}, {"bca", 0.6}, {"bcs", 0.6}, {"bds", 0.6},
	{"mbbs", 0.6},
	{"diploma", 0.4}, {"associate", 0.4},
	{"certificate", 0.3},
	{"high school", 0.2}, {"secondary", 0.2},
}

var (
	practicalKeywords = []string{
		"project", "internship", "work experience", "freelance", "portfolio",
		"github", "deployed", "built", "developed", "created", "implemented",
	}
	practicalTools = []string{"git", "github", "docker", "aws", "deployment", "production"}

	softSkillKeywords = []string{
		"communication", "leadership", "teamwork", "problem solving", "critical thinking",
		"creativity", "adaptability", "time management", "collaboration", "presentation",
	}

	highDemandRoles = []string{
		"data scientist", "software engineer", "ai engineer", "cloud engineer", "devops", "full stack",
	}
)

// DegreeScore maps an education level to [0,1]. Empty → 0.2, unrecognised → 0.3.
func DegreeScore(educationLevel string) float64 {
	level := strings.ToLower(strings.TrimSpace(educationLevel))
	if level == "" {
		return 0.2
	}
	best, bestLen := 0.3, 0
	for _, d := range degreeTable {
		if len(d.key) > bestLen && strings.Contains(level, d.key) {
			best, bestLen = d.score, len(d.key)
		}
	}
	return best
}

// ExperienceScore steps experience years into [0.1,1].
func ExperienceScore(years *float64) float64 {
	if years == nil {
		return 0.1
	}
	y := *years
	switch {
	case y >= 10:
		return 1.0
	case y >= 5:
		return 0.8
	case y >= 2:
		return 0.6
	case y >= 1:
		return 0.4
	case y > 0:
		return 0.2
	default:
		return 0.1
	}
}

// DomainScore is the share of target skills covered by the profile's extracted tokens.
// No target skills → 0.3.
func DomainScore(ex SkillExtractor, profile *models.Profile, targetSkills []string) float64 {
	if len(targetSkills) == 0 {
		return 0.3
	}
	var tokens []string
	for _, text := range []string{profile.Skills, profile.Interests, profile.Bio} {
		tokens = append(tokens, ex.Extract(text)...)
	}
	matched := 0
	for _, skill := range targetSkills {
		if mutualMatch(skill, tokens) {
			matched++
		}
	}
	return Normalize(float64(matched) / float64(len(targetSkills)))
}

// PracticalScore adds points for project evidence in the bio and tools in the skills.
func PracticalScore(profile *models.Profile) float64 {
	score := 0.0
	if profile.Bio != "" {
		bio := strings.ToLower(profile.Bio)
		for _, kw := range practicalKeywords {
			if strings.Contains(bio, kw) {
				score += 0.1
			}
		}
	}
	if profile.Skills != "" {
		skills := strings.ToLower(profile.Skills)
		for _, tool := range practicalTools {
			if strings.Contains(skills, tool) {
				score += 0.1
			}
		}
	}
	if profile.GitHubURL != "" {
		score += 0.2
	}
	if profile.LinkedInURL != "" {
		score += 0.1
	}
	if profile.Experience() > 0 {
		score += 0.2
	}
	return Normalize(score)
}

// SoftSkillsScore combines keyword mentions (capped at 0.7) with a boost of 0.029
// per completed soft-skill course, capped at 0.99 overall.
func SoftSkillsScore(profile *models.Profile, completedCourses int) float64 {
	text := strings.ToLower(profile.Bio + " " + profile.Skills + " " + profile.Interests)
	base := 0.0
	for _, kw := range softSkillKeywords {
		if strings.Contains(text, kw) {
			base += 0.05
		}
	}
	if base > 0.7 {
		base = 0.7
	}
	if completedCourses < 0 {
		completedCourses = 0
	}
	boost := float64(completedCourses) / 10 * 0.29
	ss := base + boost
	if ss > 0.99 {
		ss = 0.99
	}
	return Normalize(ss)
}

// MarketFactors holds the market layer of the score.
type MarketFactors struct {
	Factor         float64
	RoleDemand     float64
	RoleDifficulty float64
	SalaryFit      float64
}

// Market derives role demand and difficulty from the matched role. A nil role uses
// the neutral defaults (demand 0.5, difficulty 0.3).
func Market(role *models.KnowledgeBaseRow) MarketFactors {
	demand, difficulty := 0.5, 0.3
	if role != nil {
		name := strings.ToLower(role.JobRole)
		switch {
		case containsAny(name, highDemandRoles):
			demand = 0.8
		case strings.Contains(name, "analyst"):
			demand = 0.7
		}

		level := strings.ToLower(role.Level)
		switch {
		case strings.Contains(level, "senior"):
			difficulty = 0.8
		case strings.Contains(level, "mid"):
			difficulty = 0.6
		case strings.Contains(level, "entry"), strings.Contains(level, "junior"):
			difficulty = 0.4
		}
	}
	return MarketFactors{
		Factor:         Normalize(0.6*demand + 0.4*(1.0-difficulty)),
		RoleDemand:     demand,
		RoleDifficulty: difficulty,
		SalaryFit:      0.6,
	}
}

// MetaFactors holds the evidence layer of the score.
type MetaFactors struct {
	Factor             float64
	EvidenceConfidence float64
	DataCompleteness   float64
}

// Meta blends document evidence confidence with profile completeness.
func Meta(profile *models.Profile, docs []models.Document) MetaFactors {
	ec := 0.5
	if len(docs) > 0 {
		sum, n, verified := 0.0, 0, false
		for _, d := range docs {
			if d.OCRConfidence != nil {
				sum += *d.OCRConfidence
				n++
			}
			if d.IsVerified() {
				verified = true
			}
		}
		if n > 0 {
			ec = sum / float64(n)
			if verified {
				ec += 0.2
			}
		}
	}
	ec = Normalize(ec)

	dc := 0.0
	if profile.EducationLevel != "" {
		dc += 0.1
	}
	if utf8.RuneCountInString(profile.Skills) > 10 {
		dc += 0.1
	}
	if profile.Interests != "" {
		dc += 0.1
	}
	if utf8.RuneCountInString(profile.Bio) > 50 {
		dc += 0.1
	}
	if profile.Name != "" {
		dc += 0.1
	}
	if profile.ContactEmail != "" {
		dc += 0.1
	}
	if profile.CareerDirection != "" {
		dc += 0.1
	}
	if profile.LinkedInURL != "" {
		dc += 0.1
	}
	if len(docs) > 0 {
		dc += 0.2
	}
	dc = Normalize(dc)

	return MetaFactors{
		Factor:             Normalize(0.8*ec + 0.2*dc),
		EvidenceConfidence: ec,
		DataCompleteness:   dc,
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
