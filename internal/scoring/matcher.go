// internal/scoring/matcher.go
package scoring

import "career-workers/internal/models"

// BestMatch picks the row whose skill/role words overlap the profile text most,
// scored as overlap / role word count. Ties keep the earliest row. Returns false
// when the KB is empty or nothing overlaps.
func BestMatch(profile *models.Profile, rows []models.KnowledgeBaseRow) (models.KnowledgeBaseRow, bool) {
	if profile == nil || len(rows) == 0 {
		return models.KnowledgeBaseRow{}, false
	}
	profileWords := wordSet(profile.Text())

	bestIdx, bestScore := -1, 0.0
	for i := range rows {
		score := overlapRatio(profileWords, wordSet(rows[i].MatchText()))
		if score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	if bestIdx < 0 {
		return models.KnowledgeBaseRow{}, false
	}
	return rows[bestIdx], true
}
