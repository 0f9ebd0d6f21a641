// Copyright (c) 2025-2026 TechConf MCP Authors and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package dateparse resolves free-form date expressions into instants.
//
// The grammar is deliberately closed: absolute RFC 3339 timestamps,
// YYYY-MM-DD dates, and a fixed set of relative keywords ("today",
// "tomorrow", weekday names, "next friday", "this week", "last month" and
// so on).  Anything outside the grammar is reported as unparseable rather
// than guessed at.  All relative expressions resolve to start-of-day (or
// start-of-week/month) granularity.  Weeks start on Monday.
package dateparse

import (
	"strings"
	"time"
)

const dateOnly = "2006-01-02"

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Parse resolves s relative to now.  It returns the resolved instant and
// true on success, or the zero time and false if s is empty or outside the
// supported grammar.  Callers decide whether "unparseable" is an error or
// simply the absence of a filter.
func Parse(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, ok := parseAbsolute(s, now.Location()); ok {
		return t, true
	}

	switch expr := strings.ToLower(s); expr {
	case "today":
		return startOfDay(now), true
	case "yesterday":
		return startOfDay(now.AddDate(0, 0, -1)), true
	case "tomorrow":
		return startOfDay(now.AddDate(0, 0, 1)), true
	case "this week":
		return startOfWeek(now), true
	case "next week":
		return startOfWeek(now.AddDate(0, 0, 7)), true
	case "last week":
		return startOfWeek(now.AddDate(0, 0, -7)), true
	case "this month":
		return startOfMonth(now), true
	case "next month":
		return startOfMonth(now).AddDate(0, 1, 0), true
	case "last month":
		return startOfMonth(now).AddDate(0, -1, 0), true
	default:
		return parseWeekday(expr, now)
	}
}

// parseAbsolute recognises RFC 3339 timestamps and date-only strings.  A
// date-only string is interpreted in loc at start of day.
func parseAbsolute(s string, loc *time.Location) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(dateOnly, s, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// parseWeekday handles "monday", "this monday" and "next monday" forms.
// A bare or "this" weekday is the occurrence in the current week: today if
// the weekday is today, later this week if it is still ahead, and only a
// weekday that has already passed rolls forward.  "next" always lands at
// least seven days out.
func parseWeekday(expr string, now time.Time) (time.Time, bool) {
	name, next := expr, false
	if after, ok := strings.CutPrefix(expr, "next "); ok {
		name, next = after, true
	} else if after, ok := strings.CutPrefix(expr, "this "); ok {
		name = after
	}
	wd, ok := weekdays[name]
	if !ok {
		return time.Time{}, false
	}
	days := (int(wd) - int(now.Weekday()) + 7) % 7
	if next {
		days += 7
	}
	return startOfDay(now.AddDate(0, 0, days)), true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last whole second of t's day (23:59:59).
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	return startOfDay(t)
}

func startOfWeek(t time.Time) time.Time {
	// ISO weeks: Monday is day 0.
	days := (int(t.Weekday()) + 6) % 7
	return startOfDay(t.AddDate(0, 0, -days))
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
