package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISOTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "RFC3339",
			input:    "2025-10-13T09:30:00Z",
			expected: time.Date(2025, 10, 13, 9, 30, 0, 0, time.UTC),
		},
		{
			name:     "Local without zone",
			input:    "2025-10-13T09:30:00",
			expected: time.Date(2025, 10, 13, 9, 30, 0, 0, time.UTC),
		},
		{
			name:     "Space separated",
			input:    "2025-10-13 09:30:00",
			expected: time.Date(2025, 10, 13, 9, 30, 0, 0, time.UTC),
		},
		{
			name:     "Date only",
			input:    "2025-10-13",
			expected: time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "Empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "Garbage",
			input:   "next tuesday",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseISOTime(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.expected), "got %v", got)
		})
	}
}

func TestMustParseDate(t *testing.T) {
	assert.Equal(t, time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC), MustParseDate("2025-08-30"))
}
