package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTime(t *testing.T) {
	now := time.Date(2024, 3, 10, 14, 30, 15, 0, time.UTC)

	tests := []struct {
		name  string
		date  string
		clock string
		want  time.Time
	}{
		{"neither", "", "", time.Time{}},
		{"date only keeps clock", "2024-03-09", "", time.Date(2024, 3, 9, 14, 30, 15, 0, time.UTC)},
		{"clock only is today", "", "08:15", time.Date(2024, 3, 10, 8, 15, 0, 0, time.UTC)},
		{"both", "2024-03-01", "23:59", time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveTime(tt.date, tt.clock, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "expected %s, got %s", tt.want, got)
		})
	}
}

func TestResolveTimeRejectsFuture(t *testing.T) {
	now := time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)

	_, err := resolveTime("", "15:00", now)
	assert.ErrorIs(t, err, errFutureTime)

	_, err = resolveTime("2024-03-11", "", now)
	assert.ErrorIs(t, err, errFutureTime)
}

func TestResolveTimeRejectsMalformed(t *testing.T) {
	now := time.Now()

	_, err := resolveTime("10/03/2024", "", now)
	assert.Error(t, err)

	_, err = resolveTime("", "2pm", now)
	assert.Error(t, err)

	_, err = resolveTime("2024-03-01", "25:00", now)
	assert.Error(t, err)
}
