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

// In this file: conversion of store records into wire payloads.  Every
// declared field is always present; absent optional values serialise as
// explicit nulls, never omitted keys.  Derived display fields are computed
// fresh at render time.  Rendering never fails: an encoded list or mapping
// column that does not decode degrades to its empty value.

import (
	"fmt"
	"time"

	"github.com/techconf/techconf-mcp/internal/repository"
)

// sessionPayload is the wire shape of a session.
type sessionPayload struct {
	ID                 string   `json:"id"`
	ConferenceID       string   `json:"conferenceId"`
	Title              string   `json:"title"`
	Description        *string  `json:"description"`
	Abstract           *string  `json:"abstract"`
	StartTime          string   `json:"startTime"`
	EndTime            string   `json:"endTime"`
	DurationMinutes    int64    `json:"durationMinutes"`
	VenueID            *string  `json:"venueId"`
	SpeakerID          *string  `json:"speakerId"`
	SpeakerIDs         []string `json:"speakerIds"`
	Track              *string  `json:"track"`
	Format             string   `json:"format"`
	DifficultyLevel    string   `json:"difficultyLevel"`
	DifficultyLabel    string   `json:"difficultyLabel"`
	Tags               []string `json:"tags"`
	Capacity           *int64   `json:"capacity"`
	IsRecorded         bool     `json:"isRecorded"`
	RecordingURL       *string  `json:"recordingURL"`
	SlidesURL          *string  `json:"slidesURL"`
	IsFavorited        bool     `json:"isFavorited"`
	DidAttend          bool     `json:"didAttend"`
	Notes              *string  `json:"notes"`
	Rating             *int64   `json:"rating"`
	Status             string   `json:"status"`
	IsUpcoming         bool     `json:"isUpcoming"`
	IsOngoing          bool     `json:"isOngoing"`
	IsPast             bool     `json:"isPast"`
	FormattedDuration  string   `json:"formattedDuration"`
	FormattedStartTime string   `json:"formattedStartTime"`
	FormattedTimeRange string   `json:"formattedTimeRange"`
}

func renderSession(s *repository.Session, now time.Time) sessionPayload {
	return sessionPayload{
		ID:                 s.ID,
		ConferenceID:       s.ConferenceID,
		Title:              s.Title,
		Description:        s.Description,
		Abstract:           s.Abstract,
		StartTime:          s.StartTime.Format(time.RFC3339),
		EndTime:            s.EndTime.Format(time.RFC3339),
		DurationMinutes:    s.Duration(),
		VenueID:            s.VenueID,
		SpeakerID:          s.SpeakerID,
		SpeakerIDs:         s.SpeakerIDList(),
		Track:              s.Track,
		Format:             string(s.Format),
		DifficultyLevel:    string(s.DifficultyLevel),
		DifficultyLabel:    s.DifficultyLevel.Label(),
		Tags:               s.TagList(),
		Capacity:           s.Capacity,
		IsRecorded:         s.IsRecorded,
		RecordingURL:       s.RecordingURL,
		SlidesURL:          s.SlidesURL,
		IsFavorited:        s.IsFavorited,
		DidAttend:          s.DidAttend,
		Notes:              s.Notes,
		Rating:             s.Rating,
		Status:             s.Status(now),
		IsUpcoming:         s.IsUpcoming(now),
		IsOngoing:          s.IsOngoing(now),
		IsPast:             s.IsPast(now),
		FormattedDuration:  formatDuration(s.Duration()),
		FormattedStartTime: s.StartTime.Format("Mon, Jan 2 15:04"),
		FormattedTimeRange: s.StartTime.Format("15:04") + " - " + s.EndTime.Format("15:04"),
	}
}

func renderSessions(ss []repository.Session, now time.Time) []sessionPayload {
	out := make([]sessionPayload, len(ss))
	for i := range ss {
		out[i] = renderSession(&ss[i], now)
	}
	return out
}

// speakerPayload is the wire shape of a speaker.
type speakerPayload struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Title               *string           `json:"title"`
	Company             *string           `json:"company"`
	Bio                 *string           `json:"bio"`
	ShortBio            *string           `json:"shortBio"`
	Email               *string           `json:"email"`
	Twitter             *string           `json:"twitter"`
	Website             *string           `json:"website"`
	WebsiteURL          *string           `json:"websiteURL"`
	PhotoURL            *string           `json:"photoURL"`
	SocialLinks         map[string]string `json:"socialLinks"`
	Expertise           []string          `json:"expertise"`
	PreviousConferences []string          `json:"previousConferences"`
	YearsExperience     *int64            `json:"yearsExperience"`
	IsKeynoteSpeaker    bool              `json:"isKeynoteSpeaker"`
	Location            *string           `json:"location"`
	Timezone            *string           `json:"timezone"`
	IsFollowing         bool              `json:"isFollowing"`
	Notes               *string           `json:"notes"`
}

func renderSpeaker(sp *repository.Speaker) speakerPayload {
	return speakerPayload{
		ID:                  sp.ID,
		Name:                sp.Name,
		Title:               sp.Title,
		Company:             sp.Company,
		Bio:                 sp.Bio,
		ShortBio:            sp.ShortBio,
		Email:               sp.Email,
		Twitter:             sp.Twitter,
		Website:             sp.Website,
		WebsiteURL:          sp.WebsiteURL,
		PhotoURL:            sp.PhotoURL,
		SocialLinks:         sp.SocialLinkMap(),
		Expertise:           sp.ExpertiseList(),
		PreviousConferences: repository.DecodeList(sp.PreviousConferences),
		YearsExperience:     sp.YearsExperience,
		IsKeynoteSpeaker:    sp.IsKeynoteSpeaker,
		Location:            sp.Location,
		Timezone:            sp.Timezone,
		IsFollowing:         sp.IsFollowing,
		Notes:               sp.Notes,
	}
}

// venuePayload is the wire shape of a venue.
type venuePayload struct {
	ID                     string             `json:"id"`
	ConferenceID           string             `json:"conferenceId"`
	Name                   string             `json:"name"`
	Description            *string            `json:"description"`
	Capacity               *int64             `json:"capacity"`
	Floor                  *string            `json:"floor"`
	Building               *string            `json:"building"`
	RoomNumber             *string            `json:"roomNumber"`
	SeatingArrangement     *string            `json:"seatingArrangement"`
	HasStandingRoom        bool               `json:"hasStandingRoom"`
	IsWheelchairAccessible bool               `json:"isWheelchairAccessible"`
	Accessibility          map[string]bool    `json:"accessibility"`
	AccessibilityNotes     *string            `json:"accessibilityNotes"`
	Equipment              []string           `json:"equipment"`
	WifiNetwork            *string            `json:"wifiNetwork"`
	HasLiveStream          bool               `json:"hasLiveStream"`
	LiveStreamURL          *string            `json:"liveStreamURL"`
	Address                *string            `json:"address"`
	Coordinates            map[string]float64 `json:"coordinates"`
	Directions             *string            `json:"directions"`
	IsVirtual              bool               `json:"isVirtual"`
	VirtualPlatform        *string            `json:"virtualPlatform"`
	VirtualMeetingURL      *string            `json:"virtualMeetingURL"`
	VirtualMeetingID       *string            `json:"virtualMeetingId"`
	IsFavorited            bool               `json:"isFavorited"`
	Notes                  *string            `json:"notes"`
}

func renderVenue(v *repository.Venue) venuePayload {
	return venuePayload{
		ID:                     v.ID,
		ConferenceID:           v.ConferenceID,
		Name:                   v.Name,
		Description:            v.Description,
		Capacity:               v.Capacity,
		Floor:                  v.Floor,
		Building:               v.Building,
		RoomNumber:             v.RoomNumber,
		SeatingArrangement:     v.SeatingArrangement,
		HasStandingRoom:        v.HasStandingRoom,
		IsWheelchairAccessible: v.IsWheelchairAccessible,
		Accessibility:          v.AccessibilityMap(),
		AccessibilityNotes:     v.AccessibilityNotes,
		Equipment:              v.EquipmentList(),
		WifiNetwork:            v.WifiNetwork,
		HasLiveStream:          v.HasLiveStream,
		LiveStreamURL:          v.LiveStreamURL,
		Address:                v.Address,
		Coordinates:            v.CoordinateMap(),
		Directions:             v.Directions,
		IsVirtual:              v.IsVirtual,
		VirtualPlatform:        v.VirtualPlatform,
		VirtualMeetingURL:      v.VirtualMeetingURL,
		VirtualMeetingID:       v.VirtualMeetingID,
		IsFavorited:            v.IsFavorited,
		Notes:                  v.Notes,
	}
}

// conferencePayload is the wire shape of a conference.
type conferencePayload struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Tagline         *string  `json:"tagline"`
	Description     *string  `json:"description"`
	StartDate       string   `json:"startDate"`
	EndDate         string   `json:"endDate"`
	Location        *string  `json:"location"`
	Timezone        string   `json:"timezone"`
	Address         *string  `json:"address"`
	Website         *string  `json:"website"`
	RegistrationURL *string  `json:"registrationURL"`
	IsVirtual       bool     `json:"isVirtual"`
	VirtualPlatform *string  `json:"virtualPlatform"`
	Topics          []string `json:"topics"`
	MaxAttendees    *int64   `json:"maxAttendees"`
	IsAttending     bool     `json:"isAttending"`
}

func renderConference(c *repository.Conference) conferencePayload {
	return conferencePayload{
		ID:              c.ID,
		Name:            c.Name,
		Tagline:         c.Tagline,
		Description:     c.Description,
		StartDate:       c.StartDate.Format(time.RFC3339),
		EndDate:         c.EndDate.Format(time.RFC3339),
		Location:        c.Location,
		Timezone:        c.Timezone,
		Address:         c.Address,
		Website:         c.Website,
		RegistrationURL: c.RegistrationURL,
		IsVirtual:       c.IsVirtual,
		VirtualPlatform: c.VirtualPlatform,
		Topics:          c.TopicList(),
		MaxAttendees:    c.MaxAttendees,
		IsAttending:     c.IsAttending,
	}
}

func formatDuration(minutes int64) string {
	if minutes < 60 {
		return fmt.Sprintf("%dmin", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dmin", h, m)
}
