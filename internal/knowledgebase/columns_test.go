// internal/knowledgebase/columns_test.go
package knowledgebase

import (
	"testing"

	"career-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Job Role", "job_role"},
		{"  Domain / Functional Skills ", "domain_functional_skills"},
		{"Average Salary (India / Global)", "average_salary_india_global"},
		{"job_role", "job_role"},
		{"__weird--Header__", "weird_header"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeHeader(tt.in))
		})
	}
}

func TestResolveColumn(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Job Role", ColJobRole, true},
		{"role", ColJobRole, true},
		{"Technical Skills", ColTechnicalSkills, true},
		{"Domain / Functional Skills", ColDomainSkills, true},
		{"Job Description Summary", ColDescription, true},
		{"Average Salary (India / Global)", ColAverageSalary, true},
		{"salary", ColAverageSalary, true},
		{"Primary Data Sources (with URLs)", ColSources, true},
		{"Qualifications / Degrees", ColQualifications, true},
		{"Job Index / ID", ColJobIndex, true},
		{"Team Size", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := ResolveColumn(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRowFromRecord(t *testing.T) {
	row := RowFromRecord(map[string]string{
		"Job Role":         " Data Analyst ",
		"Technical Skills": "SQL, Excel",
		"Level":            "Entry",
		"Team Size":        "8",
		"Blank Extra":      "  ",
	})

	assert.Equal(t, models.KnowledgeBaseRow{
		JobRole:         "Data Analyst",
		TechnicalSkills: "SQL, Excel",
		Level:           "Entry",
		Extra:           map[string]string{"Team Size": "8"},
	}, row)
}

func TestRowFromRecord_DuplicateAliases(t *testing.T) {
	// "Job Role" sorts before "role", so it wins
	row := RowFromRecord(map[string]string{
		"role":     "Second",
		"Job Role": "First",
	})
	assert.Equal(t, "First", row.JobRole)

	row = RowFromRecord(map[string]string{
		"role":     "Only Value",
		"Job Role": "",
	})
	assert.Equal(t, "Only Value", row.JobRole)
}
