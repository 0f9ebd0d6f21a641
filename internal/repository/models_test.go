package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionDuration(t *testing.T) {
	start := time.Date(2025, 10, 2, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		s    Session
		want int64
	}{
		{
			"derived from instants",
			Session{StartTime: start, EndTime: start.Add(45 * time.Minute)},
			45,
		},
		{
			"rounded to nearest minute",
			Session{StartTime: start, EndTime: start.Add(45*time.Minute + 40*time.Second)},
			46,
		},
		{
			"explicit override trusted as-is",
			Session{StartTime: start, EndTime: start.Add(45 * time.Minute), DurationMinutes: ptr[int64](90)},
			90,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.Duration())
		})
	}
}

func TestSessionStatus(t *testing.T) {
	start := time.Date(2025, 10, 2, 12, 0, 0, 0, time.UTC)
	s := Session{StartTime: start, EndTime: start.Add(time.Hour)}

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"well before start", start.Add(-2 * time.Hour), "Upcoming"},
		{"within 30 minutes of start", start.Add(-15 * time.Minute), "Starting soon"},
		{"at start", start, "In progress"},
		{"mid-session", start.Add(30 * time.Minute), "In progress"},
		{"at end", start.Add(time.Hour), "In progress"},
		{"after end", start.Add(2 * time.Hour), "Ended"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Status(tt.now))
		})
	}
}
