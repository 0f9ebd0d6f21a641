package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVenueFindByName(t *testing.T) {
	ctx := context.Background()
	conn := testConn(t)
	seedConference(t, conn)
	repo := NewVenueRepository()

	for _, name := range []string{"Main Hall", "Workshop Room A"} {
		v := Venue{ID: uuid.NewString(), ConferenceID: testConfID.String(), Name: name}
		require.NoError(t, repo.Insert(ctx, conn, &v))
	}

	tests := []struct {
		name  string
		query string
		want  string // empty means no match
	}{
		{"exact", "Main Hall", "Main Hall"},
		{"case-insensitive", "main hall", "Main Hall"},
		{"substring does not match", "Main", ""},
		{"unknown", "Studio", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindByName(ctx, conn, tt.query)
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestVenueListForConference(t *testing.T) {
	ctx := context.Background()
	conn := testConn(t)
	seedConference(t, conn)
	repo := NewVenueRepository()

	for _, name := range []string{"Studio", "Main Hall", "Workshop Room A"} {
		v := Venue{ID: uuid.NewString(), ConferenceID: testConfID.String(), Name: name}
		require.NoError(t, repo.Insert(ctx, conn, &v))
	}

	got, err := repo.ListForConference(ctx, conn, testConfID)
	require.NoError(t, err)
	names := make([]string, len(got))
	for i := range got {
		names[i] = got[i].Name
	}
	assert.Equal(t, []string{"Main Hall", "Studio", "Workshop Room A"}, names)
}
