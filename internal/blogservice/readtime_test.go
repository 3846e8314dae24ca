package blogservice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeReadTime(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected int
	}{
		{
			name:     "empty content",
			content:  "",
			expected: 1,
		},
		{
			name:     "single word",
			content:  "hello",
			expected: 1,
		},
		{
			name:     "exactly one minute",
			content:  strings.Repeat("word ", 200),
			expected: 1,
		},
		{
			name:     "just over one minute",
			content:  strings.Repeat("word ", 201),
			expected: 2,
		},
		{
			name:     "four hundred words",
			content:  strings.Repeat("word ", 400),
			expected: 2,
		},
		{
			name:     "whitespace only",
			content:  "   \n\t  ",
			expected: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, computeReadTime(tc.content))
		})
	}
}
