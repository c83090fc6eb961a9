// internal/workers/knowledge-base/refresh-kb/models.go
package refreshkb

import "career-workers/internal/knowledgebase"

type Input struct {
	FilePath string `json:"filePath,omitempty"`
}

type Output struct {
	RowCount    int                        `json:"rowCount"`
	InvalidRows []knowledgebase.InvalidRow `json:"invalidRows"`
	Indexed     int                        `json:"indexed"`
	Source      string                     `json:"source"`
	RefreshedAt string                     `json:"refreshedAt"`
}
