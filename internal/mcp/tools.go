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

package mcp

// In this file: MCP tool definitions and handler implementations.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/techconf/techconf-mcp/internal/dateparse"
	"github.com/techconf/techconf-mcp/internal/repository"
)

// maxUpcomingPerRoom bounds the upcoming-session list in find_room results.
const maxUpcomingPerRoom = 3

// ─── list_sessions ────────────────────────────────────────────────────────────

func (s *Server) toolListSessions() mcpsrv.ServerTool {
	tool := mcplib.NewTool("list_sessions",
		mcplib.WithDescription(`List conference sessions, optionally filtered.

All filters combine with AND.  The speaker, isFavorited and isUpcoming
filters are applied after the primary query.`),
		mcplib.WithString("track",
			mcplib.Description("Only sessions on this track (exact match, e.g. \"Server\")"),
		),
		mcplib.WithString("day",
			mcplib.Description("Only sessions starting on this day. Accepts YYYY-MM-DD, RFC3339, or expressions like \"today\", \"tomorrow\", \"next monday\"."),
		),
		mcplib.WithString("speaker",
			mcplib.Description("Only sessions presented by a speaker whose name contains this text (case-insensitive)"),
		),
		mcplib.WithString("difficulty",
			mcplib.Description("Only sessions at this difficulty level: beginner, intermediate, advanced, all"),
		),
		mcplib.WithString("format",
			mcplib.Description("Only sessions of this format: talk, workshop, panel, keynote, lightning, roundtable, networking"),
		),
		mcplib.WithBoolean("isFavorited",
			mcplib.Description("Only favorited sessions"),
		),
		mcplib.WithBoolean("isUpcoming",
			mcplib.Description("Only sessions that have not started yet"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleListSessions}
}

func (s *Server) handleListSessions(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	s.ensureData(ctx)

	now := s.now()
	p, err := parseListSessionsArgs(req, now)
	if err != nil {
		return resultErr(fmt.Errorf("list_sessions: %w", err)), nil
	}

	var sessions []repository.Session
	err = s.store.Read(ctx, func(conn sqlx.ExtContext) error {
		f := repository.SessionFilter{
			Track:      p.Track,
			Day:        p.Day,
			Difficulty: p.Difficulty,
			Format:     p.Format,
		}
		var err error
		if sessions, err = s.sessions.List(ctx, conn, f); err != nil {
			return err
		}
		if p.SpeakerName != nil {
			speakers, err := s.speakers.Find(ctx, conn, *p.SpeakerName)
			if err != nil {
				return err
			}
			sessions = filterBySpeakers(sessions, speakers)
		}
		return nil
	})
	if err != nil {
		return resultErr(fmt.Errorf("list_sessions: %w", err)), nil
	}

	if p.IsFavorited != nil {
		sessions = filterSessions(sessions, func(x *repository.Session) bool {
			return x.IsFavorited == *p.IsFavorited
		})
	}
	if p.IsUpcoming != nil {
		sessions = filterSessions(sessions, func(x *repository.Session) bool {
			return x.IsUpcoming(now) == *p.IsUpcoming
		})
	}

	result, err := resultJSON(map[string]any{
		"totalSessions": len(sessions),
		"sessions":      renderSessions(sessions, now),
	})
	if err != nil {
		return resultErr(fmt.Errorf("list_sessions: serialise: %w", err)), nil
	}
	return result, nil
}

// filterBySpeakers keeps the sessions that reference at least one of the
// given speakers.
func filterBySpeakers(sessions []repository.Session, speakers []repository.Speaker) []repository.Session {
	ids := make(map[string]bool, len(speakers))
	for _, sp := range speakers {
		ids[sp.ID] = true
	}
	return filterSessions(sessions, func(x *repository.Session) bool {
		if x.SpeakerID != nil && ids[*x.SpeakerID] {
			return true
		}
		for _, id := range x.SpeakerIDList() {
			if ids[id] {
				return true
			}
		}
		return false
	})
}

func filterSessions(ss []repository.Session, keep func(*repository.Session) bool) []repository.Session {
	out := ss[:0:0]
	for i := range ss {
		if keep(&ss[i]) {
			out = append(out, ss[i])
		}
	}
	return out
}

// ─── search_sessions ──────────────────────────────────────────────────────────

func (s *Server) toolSearchSessions() mcpsrv.ServerTool {
	tool := mcplib.NewTool("search_sessions",
		mcplib.WithDescription(`Search sessions by keyword in title or description (case-insensitive substring).

Title matches rank above description-only matches; within a tier, results
order by start time ascending.`),
		mcplib.WithString("query",
			mcplib.Description("Text to search for"),
			mcplib.Required(),
		),
		mcplib.WithNumber("limit",
			mcplib.Description("Maximum number of results (1-100, default 20)"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleSearchSessions}
}

func (s *Server) handleSearchSessions(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	s.ensureData(ctx)

	p, err := parseSearchSessionsArgs(req)
	if err != nil {
		return resultErr(fmt.Errorf("search_sessions: %w", err)), nil
	}

	var sessions []repository.Session
	err = s.store.Read(ctx, func(conn sqlx.ExtContext) error {
		var err error
		sessions, err = s.sessions.Search(ctx, conn, p.Query, p.Limit)
		return err
	})
	if err != nil {
		return resultErr(fmt.Errorf("search_sessions: %w", err)), nil
	}

	result, err := resultJSON(map[string]any{
		"query":         p.Query,
		"totalSessions": len(sessions),
		"sessions":      renderSessions(sessions, s.now()),
	})
	if err != nil {
		return resultErr(fmt.Errorf("search_sessions: serialise: %w", err)), nil
	}
	return result, nil
}

// ─── get_speaker ──────────────────────────────────────────────────────────────

func (s *Server) toolGetSpeaker() mcpsrv.ServerTool {
	tool := mcplib.NewTool("get_speaker",
		mcplib.WithDescription(`Look up a speaker and the sessions they present.

One of speakerId or speakerName is required; when both are given speakerId
wins.  Name lookup is a case-insensitive substring match and returns the
first match by name order.`),
		mcplib.WithString("speakerId",
			mcplib.Description("The speaker's UUID"),
		),
		mcplib.WithString("speakerName",
			mcplib.Description("Full or partial speaker name"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleGetSpeaker}
}

func (s *Server) handleGetSpeaker(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	s.ensureData(ctx)

	p, err := parseGetSpeakerArgs(req)
	if err != nil {
		return resultErr(fmt.Errorf("get_speaker: %w", err)), nil
	}

	var (
		speaker  *repository.Speaker
		sessions []repository.Session
	)
	err = s.store.Read(ctx, func(conn sqlx.ExtContext) error {
		var err error
		if p.SpeakerID != nil {
			speaker, err = s.speakers.Get(ctx, conn, *p.SpeakerID)
		} else {
			var matches []repository.Speaker
			if matches, err = s.speakers.Find(ctx, conn, p.SpeakerName); err == nil && len(matches) > 0 {
				speaker = &matches[0]
			}
		}
		if err != nil || speaker == nil {
			return err
		}
		id, err := uuid.Parse(speaker.ID)
		if err != nil {
			return fmt.Errorf("stored speaker id %q: %w", speaker.ID, err)
		}
		sessions, err = s.sessions.ForSpeaker(ctx, conn, id)
		return err
	})
	if err != nil {
		return resultErr(fmt.Errorf("get_speaker: %w", err)), nil
	}
	if speaker == nil {
		return resultErr(errors.New("get_speaker: speaker not found")), nil
	}

	result, err := resultJSON(map[string]any{
		"speaker":       renderSpeaker(speaker),
		"totalSessions": len(sessions),
		"sessions":      renderSessions(sessions, s.now()),
	})
	if err != nil {
		return resultErr(fmt.Errorf("get_speaker: serialise: %w", err)), nil
	}
	return result, nil
}

// ─── get_schedule ─────────────────────────────────────────────────────────────

func (s *Server) toolGetSchedule() mcpsrv.ServerTool {
	tool := mcplib.NewTool("get_schedule",
		mcplib.WithDescription(`Get every session overlapping a date or time window.

Without arguments, returns today's schedule.  A session is included if any
part of it falls inside the window.`),
		mcplib.WithString("date",
			mcplib.Description("The day to query. Accepts YYYY-MM-DD, RFC3339, or expressions like \"today\", \"tomorrow\", \"next monday\". Defaults to today."),
		),
		mcplib.WithString("startTime",
			mcplib.Description("Window start as HH:MM within the date (default: start of day)"),
		),
		mcplib.WithString("endTime",
			mcplib.Description("Window end as HH:MM within the date (default: end of day)"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleGetSchedule}
}

func (s *Server) handleGetSchedule(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	s.ensureData(ctx)

	now := s.now()
	p, err := parseGetScheduleArgs(req, now)
	if err != nil {
		return resultErr(fmt.Errorf("get_schedule: %w", err)), nil
	}

	start := dateparse.StartOfDay(p.Date)
	if p.StartTime != nil {
		start = atClock(p.Date, p.StartTime.hour, p.StartTime.min, 0)
	}
	end := dateparse.EndOfDay(p.Date)
	if p.EndTime != nil {
		end = atClock(p.Date, p.EndTime.hour, p.EndTime.min, 59)
	}
	if !end.After(start) {
		return resultErr(errors.New("get_schedule: endTime must be after startTime")), nil
	}

	var sessions []repository.Session
	err = s.store.Read(ctx, func(conn sqlx.ExtContext) error {
		var err error
		sessions, err = s.sessions.ScheduleForTimeRange(ctx, conn, start, end, nil)
		return err
	})
	if err != nil {
		return resultErr(fmt.Errorf("get_schedule: %w", err)), nil
	}

	desc := p.DateInput
	if desc == "" {
		desc = p.Date.Format("Monday, January 2, 2006")
	}
	result, err := resultJSON(map[string]any{
		"date":            p.Date.Format("2006-01-02"),
		"dateDescription": desc,
		"startTime":       start.Format("15:04"),
		"endTime":         end.Format("15:04"),
		"totalSessions":   len(sessions),
		"sessions":        renderSessions(sessions, now),
	})
	if err != nil {
		return resultErr(fmt.Errorf("get_schedule: serialise: %w", err)), nil
	}
	return result, nil
}

// atClock pins a time-of-day onto the calendar day of t.
func atClock(t time.Time, hour, min, sec int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, min, sec, 0, t.Location())
}

// ─── find_room ────────────────────────────────────────────────────────────────

func (s *Server) toolFindRoom() mcpsrv.ServerTool {
	tool := mcplib.NewTool("find_room",
		mcplib.WithDescription(`Find a room by name or via a session held in it.

One of roomName or sessionId is required; when both are given roomName
wins.  Returns the room details, the session currently in progress there
(if any), and up to 3 upcoming sessions by start time.`),
		mcplib.WithString("roomName",
			mcplib.Description("Exact room name (case-insensitive)"),
		),
		mcplib.WithString("sessionId",
			mcplib.Description("UUID of a session; resolves to the room the session is held in"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleFindRoom}
}

func (s *Server) handleFindRoom(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	s.ensureData(ctx)

	p, err := parseFindRoomArgs(req)
	if err != nil {
		return resultErr(fmt.Errorf("find_room: %w", err)), nil
	}

	now := s.now()
	var (
		venue    *repository.Venue
		sessions []repository.Session
	)
	err = s.store.Read(ctx, func(conn sqlx.ExtContext) error {
		var err error
		if p.RoomName != "" {
			venue, err = s.venues.FindByName(ctx, conn, p.RoomName)
		} else {
			var sess *repository.Session
			if sess, err = s.sessions.Get(ctx, conn, *p.SessionID); err != nil {
				return err
			}
			if sess == nil {
				return errors.New("session not found")
			}
			if sess.VenueID == nil {
				// Session exists but has no room assigned.
				return nil
			}
			venueID, perr := uuid.Parse(*sess.VenueID)
			if perr != nil {
				return fmt.Errorf("stored venue id %q: %w", *sess.VenueID, perr)
			}
			venue, err = s.venues.Get(ctx, conn, venueID)
		}
		if err != nil || venue == nil {
			return err
		}
		id, perr := uuid.Parse(venue.ID)
		if perr != nil {
			return fmt.Errorf("stored venue id %q: %w", venue.ID, perr)
		}
		sessions, err = s.sessions.ForVenue(ctx, conn, id)
		return err
	})
	if err != nil {
		return resultErr(fmt.Errorf("find_room: %w", err)), nil
	}
	if venue == nil {
		return resultErr(errors.New("find_room: venue not found")), nil
	}

	var current *sessionPayload
	var upcoming []sessionPayload
	for i := range sessions {
		sess := &sessions[i]
		switch {
		case sess.IsOngoing(now) && current == nil:
			pl := renderSession(sess, now)
			current = &pl
		case sess.IsUpcoming(now) && len(upcoming) < maxUpcomingPerRoom:
			upcoming = append(upcoming, renderSession(sess, now))
		}
	}
	if upcoming == nil {
		upcoming = []sessionPayload{}
	}

	result, err := resultJSON(map[string]any{
		"venue":            renderVenue(venue),
		"currentSession":   current,
		"upcomingSessions": upcoming,
		"totalSessions":    len(sessions),
	})
	if err != nil {
		return resultErr(fmt.Errorf("find_room: serialise: %w", err)), nil
	}
	return result, nil
}

// ─── get_session_details ──────────────────────────────────────────────────────

func (s *Server) toolGetSessionDetails() mcpsrv.ServerTool {
	tool := mcplib.NewTool("get_session_details",
		mcplib.WithDescription("Get full details of a single session, including its conference, room and speakers."),
		mcplib.WithString("sessionId",
			mcplib.Description("The session's UUID"),
			mcplib.Required(),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleGetSessionDetails}
}

func (s *Server) handleGetSessionDetails(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	s.ensureData(ctx)

	p, err := parseSessionDetailsArgs(req)
	if err != nil {
		return resultErr(fmt.Errorf("get_session_details: %w", err)), nil
	}

	var (
		session  *repository.Session
		conf     *repository.Conference
		venue    *repository.Venue
		speakers []repository.Speaker
	)
	err = s.store.Read(ctx, func(conn sqlx.ExtContext) error {
		var err error
		if session, err = s.sessions.Get(ctx, conn, p.SessionID); err != nil || session == nil {
			return err
		}
		if confID, perr := uuid.Parse(session.ConferenceID); perr == nil {
			if conf, err = s.conferences.Get(ctx, conn, confID); err != nil {
				return err
			}
		}
		if session.VenueID != nil {
			venueID, perr := uuid.Parse(*session.VenueID)
			if perr != nil {
				return fmt.Errorf("stored venue id %q: %w", *session.VenueID, perr)
			}
			if venue, err = s.venues.Get(ctx, conn, venueID); err != nil {
				return err
			}
		}
		for _, sid := range session.SpeakerIDList() {
			speakerID, perr := uuid.Parse(sid)
			if perr != nil {
				continue
			}
			sp, err := s.speakers.Get(ctx, conn, speakerID)
			if err != nil {
				return err
			}
			if sp != nil {
				speakers = append(speakers, *sp)
			}
		}
		return nil
	})
	if err != nil {
		return resultErr(fmt.Errorf("get_session_details: %w", err)), nil
	}
	if session == nil {
		return resultErr(errors.New("get_session_details: session not found")), nil
	}

	var confPL *conferencePayload
	if conf != nil {
		pl := renderConference(conf)
		confPL = &pl
	}
	var venuePL *venuePayload
	if venue != nil {
		pl := renderVenue(venue)
		venuePL = &pl
	}
	speakerPLs := make([]speakerPayload, len(speakers))
	for i := range speakers {
		speakerPLs[i] = renderSpeaker(&speakers[i])
	}

	result, err := resultJSON(map[string]any{
		"session":    renderSession(session, s.now()),
		"conference": confPL,
		"venue":      venuePL,
		"speakers":   speakerPLs,
	})
	if err != nil {
		return resultErr(fmt.Errorf("get_session_details: serialise: %w", err)), nil
	}
	return result, nil
}
