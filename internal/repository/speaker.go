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
	speakerCols    = tagops.Tags(Speaker{}, dbTag)
	speakerColList = strings.Join(speakerCols, ",")
)

type SpeakerRepository interface {
	Insert(ctx context.Context, conn sqlx.ExtContext, s *Speaker) error
	Get(ctx context.Context, conn sqlx.ExtContext, id uuid.UUID) (*Speaker, error)
	// Find matches name as a case-insensitive substring, ordered by name.
	Find(ctx context.Context, conn sqlx.ExtContext, name string) ([]Speaker, error)
	// ListForConference returns the deduplicated speakers referenced by at
	// least one session of the conference, ordered by name.
	ListForConference(ctx context.Context, conn sqlx.ExtContext, conferenceID uuid.UUID) ([]Speaker, error)
}

type speakerRepository struct{}

func NewSpeakerRepository() SpeakerRepository {
	return speakerRepository{}
}

func (speakerRepository) Insert(ctx context.Context, conn sqlx.ExtContext, s *Speaker) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}
	stmt := "INSERT INTO speaker (" + speakerColList + ") VALUES (:" + strings.Join(speakerCols, ",:") + ")"
	if _, err := sqlx.NamedExecContext(ctx, conn, stmt, s); err != nil {
		return fmt.Errorf("insert speaker: %w", err)
	}
	return nil
}

func (speakerRepository) Get(ctx context.Context, conn sqlx.ExtContext, id uuid.UUID) (*Speaker, error) {
	stmt := "SELECT " + speakerColList + " FROM speaker WHERE id = ?"
	return fetchOne[Speaker](ctx, conn, stmt, id.String())
}

func (speakerRepository) Find(ctx context.Context, conn sqlx.ExtContext, name string) ([]Speaker, error) {
	stmt := "SELECT " + speakerColList + " FROM speaker WHERE name LIKE ? ORDER BY name ASC"
	return fetchAll[Speaker](ctx, conn, stmt, like(name))
}

func (speakerRepository) ListForConference(ctx context.Context, conn sqlx.ExtContext, conferenceID uuid.UUID) ([]Speaker, error) {
	cols := make([]string, len(speakerCols))
	for i, c := range speakerCols {
		cols[i] = "speaker." + c
	}
	stmt := `SELECT DISTINCT ` + strings.Join(cols, ",") + ` FROM speaker
		INNER JOIN session ON session.speakerIds LIKE '%' || speaker.id || '%'
		WHERE session.conferenceId = ?
		ORDER BY speaker.name ASC`
	return fetchAll[Speaker](ctx, conn, stmt, conferenceID.String())
}
