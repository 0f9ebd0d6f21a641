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

// In this file: conversion of untyped tool arguments into typed, validated
// per-tool parameter bundles.  Unknown arguments are ignored; anything
// present but malformed fails the call naming the offending field.

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/techconf/techconf-mcp/internal/dateparse"
	"github.com/techconf/techconf-mcp/internal/repository"
)

const (
	defSearchLimit = 20
	minLimit       = 1
	maxLimit       = 100
)

// stringArg extracts a named string argument.  Absent values return
// ("", false, nil); present non-string values are an error naming the field.
func stringArg(req mcplib.CallToolRequest, name string) (string, bool, error) {
	args := req.GetArguments()
	v, ok := args[name]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("%s must be a string", name)
	}
	return s, true, nil
}

// boolArg extracts a named bool argument, nil when absent.
func boolArg(req mcplib.CallToolRequest, name string) (*bool, error) {
	args := req.GetArguments()
	v, ok := args[name]
	if !ok || v == nil {
		return nil, nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("%s must be a boolean", name)
	}
	return &b, nil
}

// limitArg extracts a numeric limit argument, enforcing [minLimit, maxLimit].
// JSON numbers arrive as float64.
func limitArg(req mcplib.CallToolRequest, name string, defaultVal int) (int, error) {
	args := req.GetArguments()
	v, ok := args[name]
	if !ok || v == nil {
		return defaultVal, nil
	}
	var n int
	switch x := v.(type) {
	case float64:
		n = int(x)
	case int:
		n = x
	default:
		return 0, fmt.Errorf("%s must be a number", name)
	}
	if n < minLimit || n > maxLimit {
		return 0, fmt.Errorf("%s must be between %d and %d", name, minLimit, maxLimit)
	}
	return n, nil
}

// uuidArg extracts a UUID-shaped identifier argument, nil when absent.
func uuidArg(req mcplib.CallToolRequest, name string) (*uuid.UUID, error) {
	s, ok, err := stringArg(req, name)
	if err != nil {
		return nil, err
	}
	if !ok || s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%s must be a valid UUID", name)
	}
	return &id, nil
}

// dateArg extracts a date-bearing argument through the date expression
// parser, nil when absent or empty.  An unparseable non-empty value is an
// error.
func dateArg(req mcplib.CallToolRequest, name string, now time.Time) (*time.Time, error) {
	s, ok, err := stringArg(req, name)
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, ok := dateparse.Parse(s, now)
	if !ok {
		return nil, fmt.Errorf("%s: unrecognized date expression %q", name, s)
	}
	return &t, nil
}

// clockArg extracts an HH:MM time-of-day argument, nil when absent.
func clockArg(req mcplib.CallToolRequest, name string) (*clockTime, error) {
	s, ok, err := stringArg(req, name)
	if err != nil {
		return nil, err
	}
	if !ok || s == "" {
		return nil, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return nil, fmt.Errorf("%s must be in HH:MM format", name)
	}
	return &clockTime{hour: t.Hour(), min: t.Minute()}, nil
}

type clockTime struct {
	hour, min int
}

func formatArg(req mcplib.CallToolRequest, name string) (*repository.SessionFormat, error) {
	s, ok, err := stringArg(req, name)
	if err != nil {
		return nil, err
	}
	if !ok || s == "" {
		return nil, nil
	}
	f := repository.SessionFormat(s)
	if !f.Valid() {
		return nil, fmt.Errorf("%s must be one of: %s", name, joinFormats())
	}
	return &f, nil
}

func difficultyArg(req mcplib.CallToolRequest, name string) (*repository.DifficultyLevel, error) {
	s, ok, err := stringArg(req, name)
	if err != nil {
		return nil, err
	}
	if !ok || s == "" {
		return nil, nil
	}
	d := repository.DifficultyLevel(s)
	if !d.Valid() {
		return nil, fmt.Errorf("%s must be one of: %s", name, joinDifficulties())
	}
	return &d, nil
}

func joinFormats() string {
	names := make([]string, len(repository.Formats))
	for i, f := range repository.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func joinDifficulties() string {
	names := make([]string, len(repository.Difficulties))
	for i, d := range repository.Difficulties {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}

// ─── per-tool parameter bundles ───────────────────────────────────────────────

type listSessionsParams struct {
	Track       *string
	Day         *time.Time
	SpeakerName *string
	Difficulty  *repository.DifficultyLevel
	Format      *repository.SessionFormat
	IsFavorited *bool
	IsUpcoming  *bool
}

func parseListSessionsArgs(req mcplib.CallToolRequest, now time.Time) (p listSessionsParams, err error) {
	if track, ok, err := stringArg(req, "track"); err != nil {
		return p, err
	} else if ok && track != "" {
		p.Track = &track
	}
	if p.Day, err = dateArg(req, "day", now); err != nil {
		return p, err
	}
	if name, ok, err := stringArg(req, "speaker"); err != nil {
		return p, err
	} else if ok && name != "" {
		p.SpeakerName = &name
	}
	if p.Difficulty, err = difficultyArg(req, "difficulty"); err != nil {
		return p, err
	}
	if p.Format, err = formatArg(req, "format"); err != nil {
		return p, err
	}
	if p.IsFavorited, err = boolArg(req, "isFavorited"); err != nil {
		return p, err
	}
	if p.IsUpcoming, err = boolArg(req, "isUpcoming"); err != nil {
		return p, err
	}
	return p, nil
}

type searchSessionsParams struct {
	Query string
	Limit int
}

func parseSearchSessionsArgs(req mcplib.CallToolRequest) (p searchSessionsParams, err error) {
	query, ok, err := stringArg(req, "query")
	if err != nil {
		return p, err
	}
	p.Query = strings.TrimSpace(query)
	if !ok || p.Query == "" {
		return p, fmt.Errorf("query is required")
	}
	if p.Limit, err = limitArg(req, "limit", defSearchLimit); err != nil {
		return p, err
	}
	return p, nil
}

type getSpeakerParams struct {
	SpeakerID   *uuid.UUID // takes precedence over SpeakerName
	SpeakerName string
}

func parseGetSpeakerArgs(req mcplib.CallToolRequest) (p getSpeakerParams, err error) {
	if p.SpeakerID, err = uuidArg(req, "speakerId"); err != nil {
		return p, err
	}
	name, _, err := stringArg(req, "speakerName")
	if err != nil {
		return p, err
	}
	p.SpeakerName = strings.TrimSpace(name)
	if p.SpeakerID == nil && p.SpeakerName == "" {
		return p, fmt.Errorf("either speakerId or speakerName is required")
	}
	return p, nil
}

type getScheduleParams struct {
	Date      time.Time
	DateInput string // original expression, empty when defaulted to now
	StartTime *clockTime
	EndTime   *clockTime
}

func parseGetScheduleArgs(req mcplib.CallToolRequest, now time.Time) (p getScheduleParams, err error) {
	raw, _, err := stringArg(req, "date")
	if err != nil {
		return p, err
	}
	date, err := dateArg(req, "date", now)
	if err != nil {
		return p, err
	}
	if date != nil {
		p.Date = *date
		p.DateInput = strings.TrimSpace(raw)
	} else {
		p.Date = now
	}
	if p.StartTime, err = clockArg(req, "startTime"); err != nil {
		return p, err
	}
	if p.EndTime, err = clockArg(req, "endTime"); err != nil {
		return p, err
	}
	return p, nil
}

type findRoomParams struct {
	RoomName  string // takes precedence over SessionID
	SessionID *uuid.UUID
}

func parseFindRoomArgs(req mcplib.CallToolRequest) (p findRoomParams, err error) {
	name, _, err := stringArg(req, "roomName")
	if err != nil {
		return p, err
	}
	p.RoomName = strings.TrimSpace(name)
	if p.SessionID, err = uuidArg(req, "sessionId"); err != nil {
		return p, err
	}
	if p.RoomName == "" && p.SessionID == nil {
		return p, fmt.Errorf("either roomName or sessionId is required")
	}
	return p, nil
}

type sessionDetailsParams struct {
	SessionID uuid.UUID
}

func parseSessionDetailsArgs(req mcplib.CallToolRequest) (p sessionDetailsParams, err error) {
	id, err := uuidArg(req, "sessionId")
	if err != nil {
		return p, err
	}
	if id == nil {
		return p, fmt.Errorf("sessionId is required")
	}
	p.SessionID = *id
	return p, nil
}
