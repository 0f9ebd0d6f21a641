package dateparse

import (
	"testing"
	"time"
)

// Wednesday, 15 October 2025, 14:30 UTC.
var wednesday = time.Date(2025, 10, 15, 14, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		now    time.Time
		want   time.Time
		wantOK bool
	}{
		{"empty", "", wednesday, time.Time{}, false},
		{"whitespace only", "   ", wednesday, time.Time{}, false},
		{"garbage", "someday soon", wednesday, time.Time{}, false},
		{"misspelled weekday", "mondey", wednesday, time.Time{}, false},
		{
			"rfc3339",
			"2025-10-02T09:00:00Z",
			wednesday,
			time.Date(2025, 10, 2, 9, 0, 0, 0, time.UTC),
			true,
		},
		{"date only", "2025-10-02", wednesday, date(2025, 10, 2), true},
		{"today", "today", wednesday, date(2025, 10, 15), true},
		{"Today mixed case", "ToDaY", wednesday, date(2025, 10, 15), true},
		{"yesterday", "yesterday", wednesday, date(2025, 10, 14), true},
		{"tomorrow", "tomorrow", wednesday, date(2025, 10, 16), true},
		// weekday still ahead this week
		{"friday from wednesday", "friday", wednesday, date(2025, 10, 17), true},
		{"this friday", "this friday", wednesday, date(2025, 10, 17), true},
		// weekday already passed rolls forward to the next occurrence
		{"monday from wednesday", "monday", wednesday, date(2025, 10, 20), true},
		// same weekday as today resolves to today
		{"wednesday on wednesday", "wednesday", wednesday, date(2025, 10, 15), true},
		// "next" always lands at least 7 days out
		{"next friday", "next friday", wednesday, date(2025, 10, 24), true},
		{"next wednesday on wednesday", "next wednesday", wednesday, date(2025, 10, 22), true},
		{"this week", "this week", wednesday, date(2025, 10, 13), true},
		{"next week", "next week", wednesday, date(2025, 10, 20), true},
		{"last week", "last week", wednesday, date(2025, 10, 6), true},
		{"this month", "this month", wednesday, date(2025, 10, 1), true},
		{"next month", "next month", wednesday, date(2025, 11, 1), true},
		{"last month", "last month", wednesday, date(2025, 9, 1), true},
		{
			"next month across year boundary",
			"next month",
			time.Date(2025, 12, 20, 10, 0, 0, 0, time.UTC),
			date(2026, 1, 1),
			true,
		},
		{"surrounding whitespace", "  tomorrow  ", wednesday, date(2025, 10, 16), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input, tt.now)
			if ok != tt.wantOK {
				t.Fatalf("Parse(%q) ok = %v; want %v", tt.input, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v; want %v", tt.input, got, tt.want)
			}
		})
	}
}

// "next monday" must always be at least 7 days out, even when today is a
// Monday; bare "monday" on a Monday is today.
func TestParse_nextWeekdayDistance(t *testing.T) {
	monday := time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC)

	got, ok := Parse("next monday", monday)
	if !ok {
		t.Fatal("Parse(next monday) not ok")
	}
	if days := int(got.Sub(StartOfDay(monday)).Hours() / 24); days < 7 {
		t.Errorf("next monday is %d days out; want >= 7", days)
	}

	got, ok = Parse("monday", monday)
	if !ok {
		t.Fatal("Parse(monday) not ok")
	}
	if want := date(2025, 10, 13); !got.Equal(want) {
		t.Errorf("monday on a Monday = %v; want %v", got, want)
	}
}

func TestStartEndOfDay(t *testing.T) {
	if got, want := StartOfDay(wednesday), date(2025, 10, 15); !got.Equal(want) {
		t.Errorf("StartOfDay = %v; want %v", got, want)
	}
	if got, want := EndOfDay(wednesday), time.Date(2025, 10, 15, 23, 59, 59, 0, time.UTC); !got.Equal(want) {
		t.Errorf("EndOfDay = %v; want %v", got, want)
	}
}
