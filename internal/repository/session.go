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
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rusq/tagops"
)

var (
	sessionCols    = tagops.Tags(Session{}, dbTag)
	sessionColList = strings.Join(sessionCols, ",")
)

// SessionFilter is the conjunctive filter set for List: every non-nil
// field must match.
type SessionFilter struct {
	ConferenceID *uuid.UUID
	Track        *string
	Day          *time.Time
	SpeakerID    *uuid.UUID
	Difficulty   *DifficultyLevel
	Format       *SessionFormat
}

type SessionRepository interface {
	Insert(ctx context.Context, conn sqlx.ExtContext, s *Session) error
	Get(ctx context.Context, conn sqlx.ExtContext, id uuid.UUID) (*Session, error)
	List(ctx context.Context, conn sqlx.ExtContext, f SessionFilter) ([]Session, error)
	// Search matches query case-insensitively against title and
	// description.  Title matches rank above description-only matches;
	// within a tier, sessions order by start time.  limit is applied
	// literally.
	Search(ctx context.Context, conn sqlx.ExtContext, query string, limit int) ([]Session, error)
	ForSpeaker(ctx context.Context, conn sqlx.ExtContext, speakerID uuid.UUID) ([]Session, error)
	ForVenue(ctx context.Context, conn sqlx.ExtContext, venueID uuid.UUID) ([]Session, error)
	// ScheduleForTimeRange returns every session overlapping [start, end):
	// starting inside it, ending inside it, or spanning it entirely.
	ScheduleForTimeRange(ctx context.Context, conn sqlx.ExtContext, start, end time.Time, conferenceID *uuid.UUID) ([]Session, error)
	ScheduleForDay(ctx context.Context, conn sqlx.ExtContext, date time.Time, conferenceID *uuid.UUID) ([]Session, error)
	Ongoing(ctx context.Context, conn sqlx.ExtContext, now time.Time, conferenceID *uuid.UUID) ([]Session, error)
	Favorited(ctx context.Context, conn sqlx.ExtContext, conferenceID *uuid.UUID) ([]Session, error)
	ByTrack(ctx context.Context, conn sqlx.ExtContext, track string, conferenceID uuid.UUID) ([]Session, error)
	// Tracks returns the distinct non-null track names of a conference,
	// ascending, case-sensitive as stored.
	Tracks(ctx context.Context, conn sqlx.ExtContext, conferenceID uuid.UUID) ([]string, error)
}

type sessionRepository struct{}

func NewSessionRepository() SessionRepository {
	return sessionRepository{}
}

func (sessionRepository) Insert(ctx context.Context, conn sqlx.ExtContext, s *Session) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}
	s.StartTime = s.StartTime.UTC()
	s.EndTime = s.EndTime.UTC()
	stmt := "INSERT INTO session (" + sessionColList + ") VALUES (:" + strings.Join(sessionCols, ",:") + ")"
	if _, err := sqlx.NamedExecContext(ctx, conn, stmt, s); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (sessionRepository) Get(ctx context.Context, conn sqlx.ExtContext, id uuid.UUID) (*Session, error) {
	stmt := "SELECT " + sessionColList + " FROM session WHERE id = ?"
	return fetchOne[Session](ctx, conn, stmt, id.String())
}

func (sessionRepository) List(ctx context.Context, conn sqlx.ExtContext, f SessionFilter) ([]Session, error) {
	var stmt strings.Builder
	var binds []any
	addbind := newBindAddFn(&stmt, &binds)

	stmt.WriteString("SELECT " + sessionColList + " FROM session WHERE 1=1")
	addbind(f.ConferenceID != nil, " AND conferenceId = ?", derefStr(f.ConferenceID))
	addbind(f.Track != nil, " AND track = ?", deref(f.Track))
	if f.Day != nil {
		start, end, err := dayWindow(*f.Day)
		if err != nil {
			return nil, err
		}
		addbind(true, " AND startTime >= ?", start.UTC())
		addbind(true, " AND startTime < ?", end.UTC())
	}
	if f.SpeakerID != nil {
		addbind(true, " AND speakerIds LIKE ?", like(f.SpeakerID.String()))
	}
	addbind(f.Difficulty != nil, " AND difficultyLevel = ?", deref(f.Difficulty))
	addbind(f.Format != nil, " AND format = ?", deref(f.Format))
	stmt.WriteString(" ORDER BY startTime ASC")

	return fetchAll[Session](ctx, conn, stmt.String(), binds...)
}

func (sessionRepository) Search(ctx context.Context, conn sqlx.ExtContext, query string, limit int) ([]Session, error) {
	pattern := like(query)
	stmt := `SELECT ` + sessionColList + ` FROM session
		WHERE title LIKE ? OR description LIKE ?
		ORDER BY CASE WHEN title LIKE ? THEN 1 WHEN description LIKE ? THEN 2 ELSE 3 END,
			startTime ASC
		LIMIT ?`
	return fetchAll[Session](ctx, conn, stmt, pattern, pattern, pattern, pattern, limit)
}

func (sessionRepository) ForSpeaker(ctx context.Context, conn sqlx.ExtContext, speakerID uuid.UUID) ([]Session, error) {
	stmt := "SELECT " + sessionColList + " FROM session WHERE speakerIds LIKE ? ORDER BY startTime ASC"
	return fetchAll[Session](ctx, conn, stmt, like(speakerID.String()))
}

func (sessionRepository) ForVenue(ctx context.Context, conn sqlx.ExtContext, venueID uuid.UUID) ([]Session, error) {
	stmt := "SELECT " + sessionColList + " FROM session WHERE venueId = ? ORDER BY startTime ASC"
	return fetchAll[Session](ctx, conn, stmt, venueID.String())
}

func (sessionRepository) ScheduleForTimeRange(ctx context.Context, conn sqlx.ExtContext, start, end time.Time, conferenceID *uuid.UUID) ([]Session, error) {
	var stmt strings.Builder
	var binds []any
	addbind := newBindAddFn(&stmt, &binds)

	stmt.WriteString("SELECT " + sessionColList + ` FROM session
		WHERE ((startTime >= ? AND startTime < ?)
			OR (endTime > ? AND endTime <= ?)
			OR (startTime <= ? AND endTime >= ?))`)
	su, eu := start.UTC(), end.UTC()
	binds = append(binds, su, eu, su, eu, su, eu)
	addbind(conferenceID != nil, " AND conferenceId = ?", derefStr(conferenceID))
	stmt.WriteString(" ORDER BY startTime ASC")

	return fetchAll[Session](ctx, conn, stmt.String(), binds...)
}

func (r sessionRepository) ScheduleForDay(ctx context.Context, conn sqlx.ExtContext, date time.Time, conferenceID *uuid.UUID) ([]Session, error) {
	start, end, err := dayWindow(date)
	if err != nil {
		return nil, err
	}
	return r.ScheduleForTimeRange(ctx, conn, start, end, conferenceID)
}

func (sessionRepository) Ongoing(ctx context.Context, conn sqlx.ExtContext, now time.Time, conferenceID *uuid.UUID) ([]Session, error) {
	var stmt strings.Builder
	var binds []any
	addbind := newBindAddFn(&stmt, &binds)

	stmt.WriteString("SELECT " + sessionColList + " FROM session WHERE startTime <= ? AND endTime >= ?")
	binds = append(binds, now.UTC(), now.UTC())
	addbind(conferenceID != nil, " AND conferenceId = ?", derefStr(conferenceID))
	stmt.WriteString(" ORDER BY startTime ASC")

	return fetchAll[Session](ctx, conn, stmt.String(), binds...)
}

func (sessionRepository) Favorited(ctx context.Context, conn sqlx.ExtContext, conferenceID *uuid.UUID) ([]Session, error) {
	var stmt strings.Builder
	var binds []any
	addbind := newBindAddFn(&stmt, &binds)

	stmt.WriteString("SELECT " + sessionColList + " FROM session WHERE isFavorited = 1")
	addbind(conferenceID != nil, " AND conferenceId = ?", derefStr(conferenceID))
	stmt.WriteString(" ORDER BY startTime ASC")

	return fetchAll[Session](ctx, conn, stmt.String(), binds...)
}

func (r sessionRepository) ByTrack(ctx context.Context, conn sqlx.ExtContext, track string, conferenceID uuid.UUID) ([]Session, error) {
	return r.List(ctx, conn, SessionFilter{ConferenceID: &conferenceID, Track: &track})
}

func (sessionRepository) Tracks(ctx context.Context, conn sqlx.ExtContext, conferenceID uuid.UUID) ([]string, error) {
	stmt := `SELECT DISTINCT track FROM session
		WHERE conferenceId = ? AND track IS NOT NULL
		ORDER BY track ASC`
	return fetchAll[string](ctx, conn, stmt, conferenceID.String())
}

// dayWindow returns the [start of day, start of next day) window for t.
func dayWindow(t time.Time) (time.Time, time.Time, error) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 1)
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: day of %v", ErrInvalidDateRange, t)
	}
	return start, end, nil
}

func like(s string) string {
	return "%" + s + "%"
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// derefStr is deref for fmt.Stringer-valued pointers bound as text.
func derefStr[T fmt.Stringer](p *T) any {
	if p == nil {
		return nil
	}
	return (*p).String()
}
