package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day1 = time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC)

// at is a shorthand for a clock time on day1.
func at(h, m int) time.Time {
	return time.Date(2025, 10, 2, h, m, 0, 0, time.UTC)
}

func TestSessionList_filters(t *testing.T) {
	ctx := context.Background()
	conn := testConn(t)
	seedConference(t, conn)
	repo := NewSessionRepository()

	speakerIDs := EncodeList([]string{testSpeakerID.String()})
	insertSessions(t, conn,
		sessionFixture("Keynote", at(9, 0), at(10, 0), func(s *Session) {
			s.Format = FormatKeynote
			s.Track = ptr("General")
			s.SpeakerIDs = speakerIDs
		}),
		sessionFixture("Concurrency", at(10, 30), at(11, 15), func(s *Session) {
			s.Track = ptr("Server")
			s.DifficultyLevel = DifficultyIntermediate
			s.SpeakerIDs = speakerIDs
		}),
		sessionFixture("Workshop", at(13, 30), at(16, 30), func(s *Session) {
			s.Format = FormatWorkshop
			s.Track = ptr("Server")
			s.DifficultyLevel = DifficultyBeginner
		}),
		sessionFixture("Next day talk", at(9, 0).AddDate(0, 0, 1), at(10, 0).AddDate(0, 0, 1), func(s *Session) {
			s.Track = ptr("Server")
		}),
	)

	tests := []struct {
		name   string
		filter SessionFilter
		want   []string
	}{
		{"no filter", SessionFilter{}, []string{"Keynote", "Concurrency", "Workshop", "Next day talk"}},
		{"by track", SessionFilter{Track: ptr("Server")}, []string{"Concurrency", "Workshop", "Next day talk"}},
		{"by day", SessionFilter{Day: &day1}, []string{"Keynote", "Concurrency", "Workshop"}},
		{"by speaker", SessionFilter{SpeakerID: &testSpeakerID}, []string{"Keynote", "Concurrency"}},
		{"by difficulty", SessionFilter{Difficulty: ptr(DifficultyIntermediate)}, []string{"Concurrency"}},
		{"by format", SessionFilter{Format: ptr(FormatWorkshop)}, []string{"Workshop"}},
		{
			// conjunctive composition: the result is the intersection of
			// the single-filter results.
			"track and day and speaker",
			SessionFilter{Track: ptr("Server"), Day: &day1, SpeakerID: &testSpeakerID},
			[]string{"Concurrency"},
		},
		{"no match", SessionFilter{Track: ptr("Server"), Format: ptr(FormatKeynote)}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, conn, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestSessionSearch(t *testing.T) {
	ctx := context.Background()
	conn := testConn(t)
	seedConference(t, conn)
	repo := NewSessionRepository()

	insertSessions(t, conn,
		// description-only match, earliest start
		sessionFixture("Opening Keynote", at(9, 0), at(10, 0), func(s *Session) {
			s.Description = ptr("The state of Swift on the server")
		}),
		// title matches, later start
		sessionFixture("Server-Side Swift in Production", at(14, 0), at(14, 45), nil),
		// title matches, earlier start
		sessionFixture("Swift Concurrency", at(10, 30), at(11, 15), nil),
		// no match at all
		sessionFixture("Lightning Talks", at(16, 0), at(17, 0), nil),
	)

	got, err := repo.Search(ctx, conn, "swift", 50)
	require.NoError(t, err)
	// title-tier matches first (by start time), then description-only.
	assert.Equal(t, []string{
		"Swift Concurrency",
		"Server-Side Swift in Production",
		"Opening Keynote",
	}, titles(got))
}

func TestSessionSearch_limit(t *testing.T) {
	ctx := context.Background()
	conn := testConn(t)
	seedConference(t, conn)
	repo := NewSessionRepository()

	for i := range 5 {
		insertSessions(t, conn,
			sessionFixture("Swift talk", at(9+i, 0), at(9+i, 30), nil))
	}

	got, err := repo.Search(ctx, conn, "swift", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestScheduleForTimeRange_overlap(t *testing.T) {
	ctx := context.Background()
	conn := testConn(t)
	seedConference(t, conn)
	repo := NewSessionRepository()

	// the session runs 12:00-13:00
	insertSessions(t, conn, sessionFixture("Target", at(12, 0), at(13, 0), nil))

	tests := []struct {
		name       string
		start, end time.Time
		match      bool
	}{
		{"partial overlap at the front", at(11, 30), at(12, 30), true},
		{"partial overlap at the back", at(12, 30), at(13, 30), true},
		{"window inside session", at(12, 15), at(12, 45), true},
		{"session inside window", at(11, 0), at(14, 0), true},
		{"exact window", at(12, 0), at(13, 0), true},
		{"before", at(10, 0), at(11, 0), false},
		{"after", at(14, 0), at(15, 0), false},
		{"ends exactly at session start", at(11, 0), at(12, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ScheduleForTimeRange(ctx, conn, tt.start, tt.end, nil)
			require.NoError(t, err)
			if tt.match {
				assert.Equal(t, []string{"Target"}, titles(got))
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestScheduleForDay(t *testing.T) {
	ctx := context.Background()
	conn := testConn(t)
	seedConference(t, conn)
	repo := NewSessionRepository()

	insertSessions(t, conn,
		sessionFixture("On the day", at(9, 0), at(10, 0), nil),
		sessionFixture("Day after", at(9, 0).AddDate(0, 0, 1), at(10, 0).AddDate(0, 0, 1), nil),
	)

	got, err := repo.ScheduleForDay(ctx, conn, day1.Add(15*time.Hour), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"On the day"}, titles(got))
}

func TestSessionOngoing(t *testing.T) {
	ctx := context.Background()
	conn := testConn(t)
	seedConference(t, conn)
	repo := NewSessionRepository()

	insertSessions(t, conn,
		sessionFixture("Running", at(12, 0), at(13, 0), nil),
		sessionFixture("Finished", at(9, 0), at(10, 0), nil),
		sessionFixture("Later", at(15, 0), at(16, 0), nil),
	)

	got, err := repo.Ongoing(ctx, conn, at(12, 30), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Running"}, titles(got))
}

func TestSessionGet(t *testing.T) {
	ctx := context.Background()
	conn := testConn(t)
	seedConference(t, conn)
	repo := NewSessionRepository()

	s := sessionFixture("Lookup me", at(9, 0), at(10, 0), func(s *Session) {
		s.Tags = EncodeList([]string{"keynote", "ecosystem"})
	})
	insertSessions(t, conn, s)

	got, err := repo.Get(ctx, conn, uuid.MustParse(s.ID))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Lookup me", got.Title)
	assert.Equal(t, []string{"keynote", "ecosystem"}, got.TagList())

	missing, err := repo.Get(ctx, conn, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSessionTracks(t *testing.T) {
	ctx := context.Background()
	conn := testConn(t)
	seedConference(t, conn)
	repo := NewSessionRepository()

	insertSessions(t, conn,
		sessionFixture("A", at(9, 0), at(10, 0), func(s *Session) { s.Track = ptr("Server") }),
		sessionFixture("B", at(10, 0), at(11, 0), func(s *Session) { s.Track = ptr("Cloud") }),
		sessionFixture("C", at(11, 0), at(12, 0), func(s *Session) { s.Track = ptr("Server") }),
		sessionFixture("D", at(12, 0), at(13, 0), nil), // no track
	)

	got, err := repo.Tracks(ctx, conn, testConfID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cloud", "Server"}, got)
}

func TestSessionFavorited(t *testing.T) {
	ctx := context.Background()
	conn := testConn(t)
	seedConference(t, conn)
	repo := NewSessionRepository()

	otherConf := uuid.New()
	insertSessions(t, conn,
		sessionFixture("Starred late", at(14, 0), at(15, 0), func(s *Session) { s.IsFavorited = true }),
		sessionFixture("Plain", at(10, 0), at(11, 0), nil),
		sessionFixture("Starred early", at(9, 0), at(10, 0), func(s *Session) { s.IsFavorited = true }),
		sessionFixture("Starred elsewhere", at(11, 0), at(12, 0), func(s *Session) {
			s.IsFavorited = true
			s.ConferenceID = otherConf.String()
		}),
	)

	got, err := repo.Favorited(ctx, conn, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Starred early", "Starred elsewhere", "Starred late"}, titles(got))

	got, err = repo.Favorited(ctx, conn, &testConfID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Starred early", "Starred late"}, titles(got))
}

func TestSessionByTrack(t *testing.T) {
	ctx := context.Background()
	conn := testConn(t)
	seedConference(t, conn)
	repo := NewSessionRepository()

	otherConf := uuid.New()
	insertSessions(t, conn,
		sessionFixture("Server B", at(11, 0), at(12, 0), func(s *Session) { s.Track = ptr("Server") }),
		sessionFixture("Server A", at(9, 0), at(10, 0), func(s *Session) { s.Track = ptr("Server") }),
		sessionFixture("Cloud", at(10, 0), at(11, 0), func(s *Session) { s.Track = ptr("Cloud") }),
		sessionFixture("Server other conf", at(12, 0), at(13, 0), func(s *Session) {
			s.Track = ptr("Server")
			s.ConferenceID = otherConf.String()
		}),
	)

	got, err := repo.ByTrack(ctx, conn, "Server", testConfID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Server A", "Server B"}, titles(got))

	got, err = repo.ByTrack(ctx, conn, "Theatre", testConfID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
