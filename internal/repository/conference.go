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
	conferenceCols    = tagops.Tags(Conference{}, dbTag)
	conferenceColList = strings.Join(conferenceCols, ",")
)

// DefaultConferenceLimit bounds List when the caller does not say
// otherwise.
const DefaultConferenceLimit = 100

type ConferenceRepository interface {
	Insert(ctx context.Context, conn sqlx.ExtContext, c *Conference) error
	Get(ctx context.Context, conn sqlx.ExtContext, id uuid.UUID) (*Conference, error)
	// List returns conferences ordered by start date descending.  With
	// upcoming set, true selects startDate > now and false selects
	// endDate < now: a conference that is ongoing at now is neither
	// upcoming nor past, deliberately.
	List(ctx context.Context, conn sqlx.ExtContext, upcoming, isAttending *bool, now time.Time, limit int) ([]Conference, error)
	Count(ctx context.Context, conn sqlx.ExtContext) (int64, error)
}

type conferenceRepository struct{}

func NewConferenceRepository() ConferenceRepository {
	return conferenceRepository{}
}

func (conferenceRepository) Insert(ctx context.Context, conn sqlx.ExtContext, c *Conference) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	c.StartDate = c.StartDate.UTC()
	c.EndDate = c.EndDate.UTC()
	stmt := "INSERT INTO conference (" + conferenceColList + ") VALUES (:" + strings.Join(conferenceCols, ",:") + ")"
	if _, err := sqlx.NamedExecContext(ctx, conn, stmt, c); err != nil {
		return fmt.Errorf("insert conference: %w", err)
	}
	return nil
}

func (conferenceRepository) Get(ctx context.Context, conn sqlx.ExtContext, id uuid.UUID) (*Conference, error) {
	stmt := "SELECT " + conferenceColList + " FROM conference WHERE id = ?"
	return fetchOne[Conference](ctx, conn, stmt, id.String())
}

func (conferenceRepository) List(ctx context.Context, conn sqlx.ExtContext, upcoming, isAttending *bool, now time.Time, limit int) ([]Conference, error) {
	if limit <= 0 {
		limit = DefaultConferenceLimit
	}
	var stmt strings.Builder
	var binds []any
	addbind := newBindAddFn(&stmt, &binds)

	stmt.WriteString("SELECT " + conferenceColList + " FROM conference WHERE 1=1")
	if upcoming != nil {
		if *upcoming {
			addbind(true, " AND startDate > ?", now.UTC())
		} else {
			addbind(true, " AND endDate < ?", now.UTC())
		}
	}
	addbind(isAttending != nil, " AND isAttending = ?", derefBool(isAttending))
	addbind(true, " ORDER BY startDate DESC LIMIT ?", limit)

	return fetchAll[Conference](ctx, conn, stmt.String(), binds...)
}

func (conferenceRepository) Count(ctx context.Context, conn sqlx.ExtContext) (int64, error) {
	var n int64
	if err := sqlx.GetContext(ctx, conn, &n, "SELECT COUNT(*) FROM conference"); err != nil {
		return 0, fmt.Errorf("count conferences: %w", err)
	}
	return n, nil
}

func derefBool(p *bool) any {
	if p == nil {
		return nil
	}
	if *p {
		return 1
	}
	return 0
}
