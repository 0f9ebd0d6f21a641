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

// Package importer seeds the store from a conference JSON document.  The
// document carries its own string identifiers; import generates fresh
// internal UUIDs and remaps every speaker and venue cross-reference onto
// them.
package importer

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/techconf/techconf-mcp/internal/repository"
	"github.com/techconf/techconf-mcp/internal/store"
)

//go:embed assets/*.json
var assetsFS embed.FS

const bundledDocument = "assets/serverside-swift-2025.json"

// document is the conference data file format.
type document struct {
	Conference conferenceDoc `json:"conference" validate:"required"`
	Speakers   []speakerDoc  `json:"speakers" validate:"dive"`
	Sessions   []sessionDoc  `json:"sessions" validate:"dive"`
	Venues     []venueDoc    `json:"venues" validate:"dive"`
}

type conferenceDoc struct {
	ID        string       `json:"id" validate:"required"`
	Name      string       `json:"name" validate:"required"`
	ShortName *string      `json:"shortName"`
	Tagline   *string      `json:"tagline"`
	Desc      *string      `json:"description"`
	StartDate string       `json:"startDate" validate:"required"`
	EndDate   string       `json:"endDate" validate:"required"`
	Timezone  string       `json:"timezone" validate:"required"`
	Location  *locationDoc `json:"location"`
	Website   *string      `json:"website"`
	Hashtag   *string      `json:"hashtag"`
	Topics    []string     `json:"topics"`
}

type locationDoc struct {
	City    *string `json:"city"`
	State   *string `json:"state"`
	Country *string `json:"country"`
	Venue   *string `json:"venue"`
	Address *string `json:"address"`
}

type speakerDoc struct {
	ID        string     `json:"id" validate:"required"`
	Name      string     `json:"name" validate:"required"`
	Title     *string    `json:"title"`
	Company   *string    `json:"company"`
	Bio       *string    `json:"bio"`
	Expertise []string   `json:"expertise"`
	Avatar    *string    `json:"avatar"`
	Social    *socialDoc `json:"social"`
}

type socialDoc struct {
	Twitter  *string `json:"twitter"`
	GitHub   *string `json:"github"`
	LinkedIn *string `json:"linkedin"`
	Mastodon *string `json:"mastodon"`
	Website  *string `json:"website"`
}

type sessionDoc struct {
	ID          string   `json:"id" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	Type        *string  `json:"type"` // maps to format
	Track       *string  `json:"track"`
	Difficulty  *string  `json:"difficulty"`
	Desc        *string  `json:"description"`
	Abstract    *string  `json:"abstract"`
	StartTime   string   `json:"startTime" validate:"required"`
	EndTime     string   `json:"endTime" validate:"required"`
	VenueID     *string  `json:"venueId"`
	SpeakerIDs  []string `json:"speakerIds"`
	Tags        []string `json:"tags"`
	Level       *string  `json:"level"`
	Recorded    *bool    `json:"recordingAvailable"`
	Capacity    *int64   `json:"capacity" validate:"omitempty,gte=0"`
	LearningOut []string `json:"learningOutcomes"`
}

type venueDoc struct {
	ID            string          `json:"id" validate:"required"`
	Name          string          `json:"name" validate:"required"`
	Capacity      *int64          `json:"capacity" validate:"omitempty,gte=0"`
	Floor         *string         `json:"floor"`
	Building      *string         `json:"building"`
	Type          *string         `json:"type"`
	Equipment     []string        `json:"equipment"`
	Accessibility map[string]bool `json:"accessibility"`
}

// Importer populates an empty store from a conference document.
type Importer struct {
	store    *store.Store
	logger   *slog.Logger
	validate *validator.Validate

	conferences repository.ConferenceRepository
	speakers    repository.SpeakerRepository
	venues      repository.VenueRepository
	sessions    repository.SessionRepository
}

// New creates an Importer over st.  lg may be nil.
func New(st *store.Store, lg *slog.Logger) *Importer {
	if lg == nil {
		lg = slog.Default()
	}
	return &Importer{
		store:       st,
		logger:      lg,
		validate:    validator.New(),
		conferences: repository.NewConferenceRepository(),
		speakers:    repository.NewSpeakerRepository(),
		venues:      repository.NewVenueRepository(),
		sessions:    repository.NewSessionRepository(),
	}
}

// HasData reports whether the store already contains at least one
// conference.
func (im *Importer) HasData(ctx context.Context) (bool, error) {
	var n int64
	err := im.store.Read(ctx, func(conn sqlx.ExtContext) error {
		var err error
		n, err = im.conferences.Count(ctx, conn)
		return err
	})
	return n > 0, err
}

// ImportBundled imports the conference document bundled with the binary.
func (im *Importer) ImportBundled(ctx context.Context) error {
	raw, err := assetsFS.ReadFile(bundledDocument)
	if err != nil {
		return fmt.Errorf("importer: bundled document: %w", err)
	}
	return im.ImportConference(ctx, raw)
}

// ImportConference decodes, validates and imports a conference document in
// a single write transaction.  Document identifiers are remapped to fresh
// UUIDs; speaker and venue references follow the remapping.
func (im *Importer) ImportConference(ctx context.Context, raw []byte) error {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("importer: decode document: %w", err)
	}
	if err := im.validate.Struct(&doc); err != nil {
		return fmt.Errorf("importer: invalid document: %w", err)
	}

	im.logger.InfoContext(ctx, "starting data import",
		"speakers", len(doc.Speakers),
		"sessions", len(doc.Sessions),
		"venues", len(doc.Venues),
	)

	return im.store.Write(ctx, func(conn sqlx.ExtContext) error {
		confID, err := im.importConference(ctx, conn, &doc.Conference)
		if err != nil {
			return err
		}
		speakerIDs, err := im.importSpeakers(ctx, conn, doc.Speakers)
		if err != nil {
			return err
		}
		venueIDs, err := im.importVenues(ctx, conn, doc.Venues, confID)
		if err != nil {
			return err
		}
		return im.importSessions(ctx, conn, doc.Sessions, confID, speakerIDs, venueIDs)
	})
}

func (im *Importer) importConference(ctx context.Context, conn sqlx.ExtContext, doc *conferenceDoc) (uuid.UUID, error) {
	start, err := time.Parse(time.RFC3339, doc.StartDate)
	if err != nil {
		return uuid.Nil, fmt.Errorf("importer: conference start date: %w", err)
	}
	end, err := time.Parse(time.RFC3339, doc.EndDate)
	if err != nil {
		return uuid.Nil, fmt.Errorf("importer: conference end date: %w", err)
	}

	id := uuid.New()
	c := repository.Conference{
		ID:          id.String(),
		Name:        doc.Name,
		StartDate:   start,
		EndDate:     end,
		Location:    locationString(doc.Location),
		Timezone:    doc.Timezone,
		Website:     doc.Website,
		Tagline:     doc.Tagline,
		Description: doc.Desc,
		Topics:      repository.EncodeList(doc.Topics),
	}
	if err := im.conferences.Insert(ctx, conn, &c); err != nil {
		return uuid.Nil, err
	}
	im.logger.InfoContext(ctx, "imported conference", "id", id, "name", doc.Name)
	return id, nil
}

func (im *Importer) importSpeakers(ctx context.Context, conn sqlx.ExtContext, docs []speakerDoc) (map[string]uuid.UUID, error) {
	ids := make(map[string]uuid.UUID, len(docs))
	for _, d := range docs {
		id := uuid.New()
		ids[d.ID] = id

		var twitter, website *string
		links := map[string]string{}
		if s := d.Social; s != nil {
			twitter, website = s.Twitter, s.Website
			for k, v := range map[string]*string{
				"twitter": s.Twitter, "github": s.GitHub, "linkedin": s.LinkedIn,
				"mastodon": s.Mastodon, "website": s.Website,
			} {
				if v != nil {
					links[k] = *v
				}
			}
		}

		sp := repository.Speaker{
			ID:          id.String(),
			Name:        d.Name,
			Bio:         d.Bio,
			Company:     d.Company,
			Twitter:     twitter,
			Website:     website,
			Title:       d.Title,
			PhotoURL:    d.Avatar,
			SocialLinks: repository.EncodeMap(links),
			Expertise:   repository.EncodeList(d.Expertise),
		}
		if err := im.speakers.Insert(ctx, conn, &sp); err != nil {
			return nil, err
		}
	}
	im.logger.InfoContext(ctx, "imported speakers", "count", len(docs))
	return ids, nil
}

func (im *Importer) importVenues(ctx context.Context, conn sqlx.ExtContext, docs []venueDoc, confID uuid.UUID) (map[string]uuid.UUID, error) {
	ids := make(map[string]uuid.UUID, len(docs))
	for _, d := range docs {
		id := uuid.New()
		ids[d.ID] = id

		v := repository.Venue{
			ID:            id.String(),
			ConferenceID:  confID.String(),
			Name:          d.Name,
			Capacity:      d.Capacity,
			Floor:         d.Floor,
			Building:      d.Building,
			Equipment:     repository.EncodeList(d.Equipment),
			Accessibility: repository.EncodeMap(d.Accessibility),
		}
		if err := im.venues.Insert(ctx, conn, &v); err != nil {
			return nil, err
		}
	}
	im.logger.InfoContext(ctx, "imported venues", "count", len(docs))
	return ids, nil
}

func (im *Importer) importSessions(ctx context.Context, conn sqlx.ExtContext, docs []sessionDoc, confID uuid.UUID, speakerIDs, venueIDs map[string]uuid.UUID) error {
	var imported int
	for _, d := range docs {
		start, serr := time.Parse(time.RFC3339, d.StartTime)
		end, eerr := time.Parse(time.RFC3339, d.EndTime)
		if serr != nil || eerr != nil {
			im.logger.WarnContext(ctx, "skipping session with invalid dates",
				"sessionId", d.ID, "title", d.Title)
			continue
		}

		// Remap document speaker IDs; unknown references are dropped.
		var speakers []string
		for _, sid := range d.SpeakerIDs {
			if id, ok := speakerIDs[sid]; ok {
				speakers = append(speakers, id.String())
			}
		}
		var venueID *string
		if d.VenueID != nil {
			if id, ok := venueIDs[*d.VenueID]; ok {
				s := id.String()
				venueID = &s
			}
		}

		s := repository.Session{
			ID:              uuid.NewString(),
			ConferenceID:    confID.String(),
			Title:           d.Title,
			Description:     d.Desc,
			Abstract:        d.Abstract,
			StartTime:       start,
			EndTime:         end,
			VenueID:         venueID,
			Track:           d.Track,
			Format:          format(d.Type),
			DifficultyLevel: difficulty(d.Difficulty, d.Level),
			Tags:            repository.EncodeList(d.Tags),
			Capacity:        d.Capacity,
			IsRecorded:      d.Recorded != nil && *d.Recorded,
			SpeakerIDs:      repository.EncodeList(speakers),
		}
		if len(speakers) > 0 {
			s.SpeakerID = &speakers[0]
		}
		if err := im.sessions.Insert(ctx, conn, &s); err != nil {
			return err
		}
		imported++
	}
	im.logger.InfoContext(ctx, "imported sessions", "count", imported)
	return nil
}

func format(typ *string) repository.SessionFormat {
	if typ != nil {
		if f := repository.SessionFormat(strings.ToLower(*typ)); f.Valid() {
			return f
		}
	}
	return repository.FormatTalk
}

func difficulty(vals ...*string) repository.DifficultyLevel {
	for _, v := range vals {
		if v == nil {
			continue
		}
		if d := repository.DifficultyLevel(strings.ToLower(*v)); d.Valid() {
			return d
		}
	}
	return repository.DifficultyAll
}

func locationString(loc *locationDoc) *string {
	if loc == nil {
		return nil
	}
	var parts []string
	for _, p := range []*string{loc.City, loc.State, loc.Country} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	s := strings.Join(parts, ", ")
	return &s
}
