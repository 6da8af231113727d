package timeparser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstant(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-01-06T08:30:00Z", time.Date(2025, 1, 6, 8, 30, 0, 0, time.UTC)},
		{"2025-01-06T08:30:00.123Z", time.Date(2025, 1, 6, 8, 30, 0, 123000000, time.UTC)},
		{"2025-01-06T10:30:00+02:00", time.Date(2025, 1, 6, 8, 30, 0, 0, time.UTC)},
		{"2025-01-06T08:30:00", time.Date(2025, 1, 6, 8, 30, 0, 0, time.UTC)},
		{"2025-01-06T08:30", time.Date(2025, 1, 6, 8, 30, 0, 0, time.UTC)},
		{"2025-01-06", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)},
		{"  2025-01-06  ", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInstant(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseInstant_Invalid(t *testing.T) {
	for _, in := range []string{"", "yesterday", "06/01/2025", "2025-13-01"} {
		_, err := ParseInstant(in)
		assert.Error(t, err, in)
	}
}

func TestParseOptionalInstant(t *testing.T) {
	got, err := ParseOptionalInstant("   ")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptionalInstant("2025-01-06T08:30:00Z")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 8, got.Hour())

	_, err = ParseOptionalInstant("nope")
	assert.Error(t, err)
}
