package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/techconf/techconf-mcp/internal/testutil"
)

// ptr returns a pointer to the value.
func ptr[T any](v T) *T {
	return &v
}

func testConn(t *testing.T) *sqlx.DB {
	t.Helper()
	return testutil.TestDB(t)
}

var (
	testConfID    = uuid.New()
	testSpeakerID = uuid.New()
	testVenueID   = uuid.New()
)

// seedConference inserts the conference every session fixture hangs off.
func seedConference(t *testing.T, conn sqlx.ExtContext) {
	t.Helper()
	c := Conference{
		ID:        testConfID.String(),
		Name:      "ServerSide 2025",
		StartDate: time.Date(2025, 10, 2, 8, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 10, 3, 18, 0, 0, 0, time.UTC),
		Timezone:  "Europe/London",
	}
	if err := NewConferenceRepository().Insert(context.Background(), conn, &c); err != nil {
		t.Fatalf("seed conference: %v", err)
	}
}

// sessionFixture builds a minimal session; callers adjust fields via mod.
func sessionFixture(title string, start, end time.Time, mod func(*Session)) *Session {
	s := &Session{
		ID:              uuid.NewString(),
		ConferenceID:    testConfID.String(),
		Title:           title,
		StartTime:       start,
		EndTime:         end,
		Format:          FormatTalk,
		DifficultyLevel: DifficultyAll,
	}
	if mod != nil {
		mod(s)
	}
	return s
}

func insertSessions(t *testing.T, conn sqlx.ExtContext, ss ...*Session) {
	t.Helper()
	repo := NewSessionRepository()
	for _, s := range ss {
		if err := repo.Insert(context.Background(), conn, s); err != nil {
			t.Fatalf("insert session %q: %v", s.Title, err)
		}
	}
}

func titles(ss []Session) []string {
	out := make([]string, len(ss))
	for i := range ss {
		out[i] = ss[i].Title
	}
	return out
}
