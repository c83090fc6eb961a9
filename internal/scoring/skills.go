// internal/scoring/skills.go
package scoring

import (
	"regexp"
	"strings"
)

// SkillExtractor turns free text into a deduplicated list of lower-case skill tokens.
type SkillExtractor interface {
	Extract(text string) []string
}

// Token families matched by RegexSkillExtractor, in match order.
var defaultSkillPatterns = []string{
	`\b(python|java|javascript|react|angular|vue|node\.?js|sql|mysql|postgresql|mongodb|docker|kubernetes|aws|azure|gcp|git|github|html|css|bootstrap|tailwind)\b`,
	`\b(machine learning|ml|artificial intelligence|ai|data science|data analysis|deep learning|tensorflow|pytorch|pandas|numpy|scikit-learn)\b`,
	`\b(project management|agile|scrum|kanban|jira|confluence|slack|teams|communication|leadership|problem solving)\b`,
}

// RegexSkillExtractor matches a closed vocabulary. Safe for concurrent use.
type RegexSkillExtractor struct {
	patterns []*regexp.Regexp
}

func NewRegexSkillExtractor() *RegexSkillExtractor {
	patterns := make([]*regexp.Regexp, 0, len(defaultSkillPatterns))
	for _, p := range defaultSkillPatterns {
		patterns = append(patterns, regexp.MustCompile(p))
	}
	return &RegexSkillExtractor{patterns: patterns}
}

// Extract returns tokens in first-seen order. Empty input gives an empty slice.
func (x *RegexSkillExtractor) Extract(text string) []string {
	found := []string{}
	if strings.TrimSpace(text) == "" {
		return found
	}
	lower := strings.ToLower(text)
	seen := make(map[string]struct{})
	for _, re := range x.patterns {
		for _, m := range re.FindAllString(lower, -1) {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			found = append(found, m)
		}
	}
	return found
}

// mutualMatch reports whether any token contains skill or is contained by it.
func mutualMatch(skill string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(skill, t) || strings.Contains(t, skill) {
			return true
		}
	}
	return false
}

// splitSkills splits a comma or semicolon delimited list into trimmed lower-case entries.
func splitSkills(list string) []string {
	parts := strings.FieldsFunc(list, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func wordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func overlapRatio(profileWords, roleWords map[string]struct{}) float64 {
	n := 0
	for w := range roleWords {
		if _, ok := profileWords[w]; ok {
			n++
		}
	}
	d := len(roleWords)
	if d < 1 {
		d = 1
	}
	return float64(n) / float64(d)
}
