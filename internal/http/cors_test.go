package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateCORSMiddleware(t *testing.T) {
	t.Run("NilWhenNoOrigins", func(t *testing.T) {
		middleware := createCORSMiddleware("", testLogger())
		assert.Nil(t, middleware)
	})

	t.Run("NilWhenOnlyWhitespace", func(t *testing.T) {
		middleware := createCORSMiddleware(" , ,", testLogger())
		assert.Nil(t, middleware)
	})

	t.Run("CreatedForValidOrigins", func(t *testing.T) {
		middleware := createCORSMiddleware("https://example.com,https://www.example.com", testLogger())
		assert.NotNil(t, middleware)
	})
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "single origin",
			input:    "https://example.com",
			expected: []string{"https://example.com"},
		},
		{
			name:     "multiple origins with whitespace",
			input:    " https://example.com , https://www.example.com ",
			expected: []string{"https://example.com", "https://www.example.com"},
		},
		{
			name:     "skips empty entries",
			input:    "https://example.com,,https://www.example.com",
			expected: []string{"https://example.com", "https://www.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseOrigins(tt.input)
			if tt.expected == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}
