// internal/scoring/recommend.go
package scoring

import (
	"context"
	"sort"
	"strings"

	"career-workers/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	maxRecommendedRoles = 5
	maxSkillsToLearn    = 10
	minRoleMatchScore   = 0.1
)

// Returned instead of an empty list when no role clears the threshold.
var fallbackRoles = []string{
	"Software Developer Intern",
	"Data Analyst Intern",
	"Business Analyst Intern",
}

// Suggested whenever the profile does not already show them.
var baselineSkills = []string{"SQL", "Python", "Git", "Communication", "Problem Solving"}

// RoleMatch is a KB row with its recommendation score.
type RoleMatch struct {
	Row   models.KnowledgeBaseRow
	Score float64
}

// Recommend ranks KB roles for the profile and lists skills to learn. KB failures
// degrade to the fallback role list.
func (e *Engine) Recommend(ctx context.Context, profile *models.Profile) (*models.RecommendationResult, error) {
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	ctx, span := e.tracer.Start(ctx, "scoring.Recommend")
	defer span.End()

	rows := e.loadRoles(ctx)
	return RankRoles(e.extractor, profile, rows), nil
}

// ScoreRoles scores every row against the profile and keeps those above the
// threshold, best first. Equal scores keep KB order.
func ScoreRoles(ex SkillExtractor, profile *models.Profile, rows []models.KnowledgeBaseRow) ([]RoleMatch, []string) {
	profileText := strings.ToLower(profile.Text())
	profileSkills := ex.Extract(profileText)
	profileWords := wordSet(profileText)

	matches := make([]RoleMatch, 0, len(rows))
	for _, row := range rows {
		roleText := strings.ToLower(row.MatchText())
		roleSkills := ex.Extract(roleText)

		var score float64
		if len(roleSkills) > 0 {
			matched := 0
			for _, s := range roleSkills {
				if mutualMatch(s, profileSkills) {
					matched++
				}
			}
			score = float64(matched) / float64(len(roleSkills))
		} else {
			score = overlapRatio(profileWords, wordSet(roleText))
		}

		if score > minRoleMatchScore {
			matches = append(matches, RoleMatch{Row: row, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, profileSkills
}

// RankRoles is the pure part of Recommend.
func RankRoles(ex SkillExtractor, profile *models.Profile, rows []models.KnowledgeBaseRow) *models.RecommendationResult {
	matches, profileSkills := ScoreRoles(ex, profile, rows)
	if len(matches) > maxRecommendedRoles {
		matches = matches[:maxRecommendedRoles]
	}

	roles := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSpace(m.Row.JobRole)
		if name == "" {
			name = "Unknown Role"
		}
		roles = append(roles, name)
	}

	gaps := newOrderedSet()
	title := cases.Title(language.English)
	for _, m := range matches {
		for _, skill := range splitSkills(m.Row.TechnicalSkills) {
			if !mutualMatch(skill, profileSkills) {
				gaps.add(title.String(skill))
			}
		}
	}
	for _, skill := range baselineSkills {
		if !containedInAny(strings.ToLower(skill), profileSkills) {
			gaps.add(skill)
		}
	}

	skills := gaps.items
	if len(skills) > maxSkillsToLearn {
		skills = skills[:maxSkillsToLearn]
	}

	res := &models.RecommendationResult{
		JobRoles:      roles,
		SkillsToLearn: skills,
	}
	if len(roles) == 0 {
		res.JobRoles = append([]string(nil), fallbackRoles...)
		res.UsedFallback = true
	}
	return res
}

func containedInAny(skill string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(t, skill) {
			return true
		}
	}
	return false
}

// orderedSet dedupes case-insensitively and keeps insertion order.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), items: []string{}}
}

func (s *orderedSet) add(v string) {
	key := strings.ToLower(v)
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.items = append(s.items, v)
}
