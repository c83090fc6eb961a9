// internal/scoring/skills_test.go
package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegexSkillExtractor_Extract(t *testing.T) {
	ex := NewRegexSkillExtractor()

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "empty text",
			text:     "",
			expected: []string{},
		},
		{
			name:     "whitespace only",
			text:     "   \n\t",
			expected: []string{},
		},
		{
			name:     "comma separated stack is case folded",
			text:     "Python, React, SQL, Git",
			expected: []string{"python", "react", "sql", "git"},
		},
		{
			name:     "node variants are distinct tokens",
			text:     "nodejs and Node.js",
			expected: []string{"nodejs", "node.js"},
		},
		{
			name:     "families are reported in family order",
			text:     "leadership in machine learning with docker",
			expected: []string{"docker", "machine learning", "leadership"},
		},
		{
			name:     "duplicates collapse",
			text:     "SQL sql Sql",
			expected: []string{"sql"},
		},
		{
			name:     "words inside other words do not match",
			text:     "javanese gitlab",
			expected: []string{},
		},
		{
			name:     "multi word soft skill",
			text:     "strong Problem Solving",
			expected: []string{"problem solving"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ex.Extract(tt.text))
		})
	}
}

func TestSplitSkills(t *testing.T) {
	assert.Equal(t, []string{"python", "django", "sql"}, splitSkills("Python, Django, SQL"))
	assert.Equal(t, []string{"excel", "power bi", "sql"}, splitSkills("Excel; Power BI,SQL ,"))
	assert.Empty(t, splitSkills(""))
	assert.Empty(t, splitSkills(" , ; "))
}

func TestMutualMatch(t *testing.T) {
	tokens := []string{"sql", "react"}

	assert.True(t, mutualMatch("sql", tokens))
	assert.True(t, mutualMatch("mysql", tokens), "token inside skill")
	assert.True(t, mutualMatch("re", tokens), "skill inside token")
	assert.False(t, mutualMatch("docker", tokens))
	assert.False(t, mutualMatch("docker", nil))
}
