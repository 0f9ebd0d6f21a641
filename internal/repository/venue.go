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
	venueCols    = tagops.Tags(Venue{}, dbTag)
	venueColList = strings.Join(venueCols, ",")
)

type VenueRepository interface {
	Insert(ctx context.Context, conn sqlx.ExtContext, v *Venue) error
	Get(ctx context.Context, conn sqlx.ExtContext, id uuid.UUID) (*Venue, error)
	// FindByName matches the venue name exactly (not substring),
	// case-insensitively, and returns the first match; duplicates are not
	// deduplicated further.
	FindByName(ctx context.Context, conn sqlx.ExtContext, name string) (*Venue, error)
	ListForConference(ctx context.Context, conn sqlx.ExtContext, conferenceID uuid.UUID) ([]Venue, error)
}

type venueRepository struct{}

func NewVenueRepository() VenueRepository {
	return venueRepository{}
}

func (venueRepository) Insert(ctx context.Context, conn sqlx.ExtContext, v *Venue) error {
	now := time.Now().UTC()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	if v.UpdatedAt.IsZero() {
		v.UpdatedAt = now
	}
	stmt := "INSERT INTO venue (" + venueColList + ") VALUES (:" + strings.Join(venueCols, ",:") + ")"
	if _, err := sqlx.NamedExecContext(ctx, conn, stmt, v); err != nil {
		return fmt.Errorf("insert venue: %w", err)
	}
	return nil
}

func (venueRepository) Get(ctx context.Context, conn sqlx.ExtContext, id uuid.UUID) (*Venue, error) {
	stmt := "SELECT " + venueColList + " FROM venue WHERE id = ?"
	return fetchOne[Venue](ctx, conn, stmt, id.String())
}

func (venueRepository) FindByName(ctx context.Context, conn sqlx.ExtContext, name string) (*Venue, error) {
	stmt := "SELECT " + venueColList + " FROM venue WHERE name = ? COLLATE NOCASE LIMIT 1"
	return fetchOne[Venue](ctx, conn, stmt, name)
}

func (venueRepository) ListForConference(ctx context.Context, conn sqlx.ExtContext, conferenceID uuid.UUID) ([]Venue, error) {
	stmt := "SELECT " + venueColList + " FROM venue WHERE conferenceId = ? ORDER BY name ASC"
	return fetchAll[Venue](ctx, conn, stmt, conferenceID.String())
}
