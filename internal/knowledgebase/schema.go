// internal/knowledgebase/schema.go
package knowledgebase

import (
	"fmt"

	"career-workers/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// rowSchema describes a well-formed row. Rows that miss it are reported, never
// dropped: a workbook with an unrecognised role header still feeds the scorer.
const rowSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["job_role"],
  "properties": {
    "job_role":         {"type": "string", "minLength": 1, "pattern": "\\S"},
    "level":            {"type": "string", "maxLength": 64},
    "technical_skills": {"type": "string"},
    "domain_skills":    {"type": "string"},
    "extra":            {"type": "object", "additionalProperties": {"type": "string"}}
  }
}`

// InvalidRow reports a row that failed rowSchema. The row itself stays in the
// knowledge base. Index is the row's position in the ingested file, zero based.
type InvalidRow struct {
	Index   int      `json:"index"`
	JobRole string   `json:"jobRole,omitempty"`
	Errors  []string `json:"errors"`
}

// RowValidator checks rows against rowSchema.
type RowValidator struct {
	schema *gojsonschema.Schema
}

func NewRowValidator() (*RowValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(rowSchema))
	if err != nil {
		return nil, fmt.Errorf("compile row schema: %w", err)
	}
	return &RowValidator{schema: schema}, nil
}

// Check returns a report for every row that fails rowSchema, in file order.
func (v *RowValidator) Check(rows []models.KnowledgeBaseRow) []InvalidRow {
	invalid := []InvalidRow{}
	for i, row := range rows {
		result, err := v.schema.Validate(gojsonschema.NewGoLoader(row))
		if err != nil {
			invalid = append(invalid, InvalidRow{Index: i, JobRole: row.JobRole, Errors: []string{err.Error()}})
			continue
		}
		if result.Valid() {
			continue
		}
		errs := make([]string, len(result.Errors()))
		for j, desc := range result.Errors() {
			errs[j] = desc.String()
		}
		invalid = append(invalid, InvalidRow{Index: i, JobRole: row.JobRole, Errors: errs})
	}
	return invalid
}
