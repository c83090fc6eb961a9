// internal/knowledgebase/schema_test.go
package knowledgebase

import (
	"testing"

	"career-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowValidator_Check(t *testing.T) {
	v, err := NewRowValidator()
	require.NoError(t, err)

	rows := []models.KnowledgeBaseRow{
		{JobRole: "Data Analyst"},
		{JobRole: "", Level: "Senior"},
		{JobRole: "   "},
		{JobRole: "Cloud Engineer", Extra: map[string]string{"Region": "EU"}},
	}

	invalid := v.Check(rows)

	require.Len(t, invalid, 2)
	assert.Equal(t, 1, invalid[0].Index)
	assert.Equal(t, 2, invalid[1].Index)
	assert.NotEmpty(t, invalid[0].Errors)
}

func TestRowValidator_EmptyInput(t *testing.T) {
	v, err := NewRowValidator()
	require.NoError(t, err)

	invalid := v.Check(nil)
	assert.NotNil(t, invalid)
	assert.Empty(t, invalid)
}
