// internal/knowledgebase/search.go
package knowledgebase

import (
	"strings"

	"career-workers/internal/models"
)

// DefaultSearchLimit applies when a caller passes limit <= 0.
const DefaultSearchLimit = 5

// Columns searched first. Other columns, Extra included, are only searched when no
// row matches here.
var priorityColumns = []string{
	ColJobRole, ColTechnicalSkills, ColSoftSkills, ColDomainSkills,
	ColDescription, ColJobFamily, ColCluster, ColQualifications,
}

// SearchRoles does a case-insensitive substring search over rows. Results keep KB
// order and are truncated to limit.
func SearchRoles(rows []models.KnowledgeBaseRow, query string, limit int) []models.KnowledgeBaseRow {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := strings.ToLower(strings.TrimSpace(query))

	hits := filterRows(rows, limit, func(r models.KnowledgeBaseRow) bool {
		cols := r.Columns()
		for _, c := range priorityColumns {
			if strings.Contains(strings.ToLower(cols[c]), q) {
				return true
			}
		}
		return false
	})
	if len(hits) > 0 {
		return hits
	}

	return filterRows(rows, limit, func(r models.KnowledgeBaseRow) bool {
		for name, v := range r.Columns() {
			if isPriority(name) {
				continue
			}
			if strings.Contains(strings.ToLower(v), q) {
				return true
			}
		}
		for _, v := range r.Extra {
			if strings.Contains(strings.ToLower(v), q) {
				return true
			}
		}
		return false
	})
}

func filterRows(rows []models.KnowledgeBaseRow, limit int, match func(models.KnowledgeBaseRow) bool) []models.KnowledgeBaseRow {
	out := []models.KnowledgeBaseRow{}
	for _, r := range rows {
		if match(r) {
			out = append(out, r)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func isPriority(name string) bool {
	for _, c := range priorityColumns {
		if c == name {
			return true
		}
	}
	return false
}
