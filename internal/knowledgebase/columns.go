// internal/knowledgebase/columns.go
package knowledgebase

import (
	"sort"
	"strings"

	"career-workers/internal/models"
)

// Canonical column names.
const (
	ColJobRole         = "job_role"
	ColJobFamily       = "job_family"
	ColCluster         = "cluster"
	ColLevel           = "level"
	ColTechnicalSkills = "technical_skills"
	ColSoftSkills      = "soft_skills"
	ColDomainSkills    = "domain_skills"
	ColExperienceRange = "experience_range"
	ColJobIndex        = "job_index"
	ColDescription     = "description"
	ColAverageSalary   = "average_salary"
	ColSources         = "sources"
	ColQualifications  = "qualifications"
)

type column struct {
	name    string
	header  string // header written when exporting
	aliases []string
}

// Known columns in export order.
var knownColumns = []column{
	{ColJobIndex, "Job Index / ID", []string{"job_index_id", "job_id", "index", "id"}},
	{ColJobRole, "Job Role", []string{"role", "job_title", "title", "role_name"}},
	{ColJobFamily, "Job Family", []string{"family"}},
	{ColCluster, "Cluster", []string{"career_cluster"}},
	{ColLevel, "Level", []string{"seniority", "job_level"}},
	{ColTechnicalSkills, "Technical Skills", []string{"tech_skills", "skills"}},
	{ColSoftSkills, "Soft Skills", nil},
	{ColDomainSkills, "Domain / Functional Skills", []string{"domain_functional_skills", "functional_skills"}},
	{ColExperienceRange, "Experience Range", []string{"experience"}},
	{ColDescription, "Job Description Summary", []string{"job_description_summary", "job_description", "summary"}},
	{ColAverageSalary, "Average Salary (India / Global)", []string{"average_salary_india_global", "salary", "avg_salary"}},
	{ColSources, "Primary Data Sources (with URLs)", []string{"primary_data_sources_with_urls", "primary_data_sources", "data_sources"}},
	{ColQualifications, "Qualifications / Degrees", []string{"qualifications_degrees", "degrees", "education"}},
}

var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]string {
	idx := make(map[string]string)
	for _, c := range knownColumns {
		idx[c.name] = c.name
		idx[NormalizeHeader(c.header)] = c.name
		for _, a := range c.aliases {
			idx[a] = c.name
		}
	}
	return idx
}

// NormalizeHeader lower-cases a header and collapses every run of
// non-alphanumerics into a single underscore.
func NormalizeHeader(header string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(header)) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ResolveColumn maps a raw header to its canonical column. ok is false for unknown headers.
func ResolveColumn(header string) (string, bool) {
	name, ok := aliasIndex[NormalizeHeader(header)]
	return name, ok
}

// RowFromRecord builds a row from raw header → value pairs. Unknown headers are kept
// in Extra under their trimmed original name. When two headers alias the same column
// the first non-empty one in sorted header order wins.
func RowFromRecord(record map[string]string) models.KnowledgeBaseRow {
	headers := make([]string, 0, len(record))
	for h := range record {
		headers = append(headers, h)
	}
	sort.Strings(headers)

	var row models.KnowledgeBaseRow
	for _, header := range headers {
		value := strings.TrimSpace(record[header])
		name, ok := ResolveColumn(header)
		if !ok {
			key := strings.TrimSpace(header)
			if key == "" || value == "" {
				continue
			}
			if row.Extra == nil {
				row.Extra = make(map[string]string)
			}
			row.Extra[key] = value
			continue
		}
		setColumn(&row, name, value)
	}
	return row
}

func setColumn(row *models.KnowledgeBaseRow, name, value string) {
	if current := columnValue(*row, name); current != "" {
		return
	}
	switch name {
	case ColJobRole:
		row.JobRole = value
	case ColJobFamily:
		row.JobFamily = value
	case ColCluster:
		row.Cluster = value
	case ColLevel:
		row.Level = value
	case ColTechnicalSkills:
		row.TechnicalSkills = value
	case ColSoftSkills:
		row.SoftSkills = value
	case ColDomainSkills:
		row.DomainSkills = value
	case ColExperienceRange:
		row.ExperienceRange = value
	case ColJobIndex:
		row.JobIndex = value
	case ColDescription:
		row.Description = value
	case ColAverageSalary:
		row.AverageSalary = value
	case ColSources:
		row.Sources = value
	case ColQualifications:
		row.Qualifications = value
	}
}

func columnValue(row models.KnowledgeBaseRow, name string) string {
	return row.Columns()[name]
}

// exportHeaders returns the header line used when writing rows back to disk: every
// known column followed by the sorted union of Extra keys.
func exportHeaders(rows []models.KnowledgeBaseRow) ([]string, []string) {
	headers := make([]string, 0, len(knownColumns))
	keys := make([]string, 0, len(knownColumns))
	for _, c := range knownColumns {
		headers = append(headers, c.header)
		keys = append(keys, c.name)
	}

	extra := map[string]struct{}{}
	for _, r := range rows {
		for k := range r.Extra {
			extra[k] = struct{}{}
		}
	}
	extraKeys := make([]string, 0, len(extra))
	for k := range extra {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)

	headers = append(headers, extraKeys...)
	keys = append(keys, extraKeys...)
	return headers, keys
}

// recordValues lines a row up with the keys from exportHeaders.
func recordValues(row models.KnowledgeBaseRow, keys []string) []string {
	cols := row.Columns()
	out := make([]string, len(keys))
	for i, k := range keys {
		if v, ok := cols[k]; ok {
			out[i] = v
			continue
		}
		out[i] = row.Extra[k]
	}
	return out
}
