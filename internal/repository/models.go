package repository

import (
	"math"
	"time"
)

// Session is a single talk, workshop, panel or other scheduled slot.
// List-shaped fields (Tags, SpeakerIDs) are stored JSON-encoded; use the
// accessor methods for the decoded forms.
type Session struct {
	ID              string          `db:"id"`
	ConferenceID    string          `db:"conferenceId"`
	Title           string          `db:"title"`
	Description     *string         `db:"description"`
	SpeakerID       *string         `db:"speakerId"`
	StartTime       time.Time       `db:"startTime"`
	EndTime         time.Time       `db:"endTime"`
	VenueID         *string         `db:"venueId"`
	Track           *string         `db:"track"`
	Format          SessionFormat   `db:"format"`
	DifficultyLevel DifficultyLevel `db:"difficultyLevel"`
	Tags            *string         `db:"tags"`
	CreatedAt       time.Time       `db:"createdAt"`
	UpdatedAt       time.Time       `db:"updatedAt"`
	Abstract        *string         `db:"abstract"`
	DurationMinutes *int64          `db:"durationMinutes"`
	Capacity        *int64          `db:"capacity"`
	IsRecorded      bool            `db:"isRecorded"`
	RecordingURL    *string         `db:"recordingURL"`
	SlidesURL       *string         `db:"slidesURL"`
	IsFavorited     bool            `db:"isFavorited"`
	DidAttend       bool            `db:"didAttend"`
	Notes           *string         `db:"notes"`
	Rating          *int64          `db:"rating"`
	SpeakerIDs      *string         `db:"speakerIds"`
}

// Duration returns the session length in minutes.  An explicitly stored
// value is trusted as-is; otherwise it derives from the start/end instants.
func (s *Session) Duration() int64 {
	if s.DurationMinutes != nil {
		return *s.DurationMinutes
	}
	return int64(math.Round(s.EndTime.Sub(s.StartTime).Minutes()))
}

// TagList returns the decoded tags.
func (s *Session) TagList() []string {
	return DecodeList(s.Tags)
}

// SpeakerIDList returns the decoded speaker identifiers, in order.
func (s *Session) SpeakerIDList() []string {
	return DecodeList(s.SpeakerIDs)
}

// IsOngoing reports whether the session is in progress at now.
func (s *Session) IsOngoing(now time.Time) bool {
	return !now.Before(s.StartTime) && !now.After(s.EndTime)
}

// IsUpcoming reports whether the session starts after now.
func (s *Session) IsUpcoming(now time.Time) bool {
	return s.StartTime.After(now)
}

// IsPast reports whether the session ended before now.
func (s *Session) IsPast(now time.Time) bool {
	return s.EndTime.Before(now)
}

// Status is the human-readable session state at now.
func (s *Session) Status(now time.Time) string {
	switch {
	case s.IsOngoing(now):
		return "In progress"
	case s.IsUpcoming(now):
		if s.StartTime.Sub(now) <= 30*time.Minute {
			return "Starting soon"
		}
		return "Upcoming"
	default:
		return "Ended"
	}
}

// Speaker is a person presenting at least one session.
type Speaker struct {
	ID                  string    `db:"id"`
	Name                string    `db:"name"`
	Bio                 *string   `db:"bio"`
	Company             *string   `db:"company"`
	Twitter             *string   `db:"twitter"`
	Website             *string   `db:"website"`
	CreatedAt           time.Time `db:"createdAt"`
	UpdatedAt           time.Time `db:"updatedAt"`
	Title               *string   `db:"title"`
	ShortBio            *string   `db:"shortBio"`
	Email               *string   `db:"email"`
	SocialLinks         *string   `db:"socialLinks"`
	WebsiteURL          *string   `db:"websiteURL"`
	PhotoURL            *string   `db:"photoURL"`
	Expertise           *string   `db:"expertise"`
	PreviousConferences *string   `db:"previousConferences"`
	YearsExperience     *int64    `db:"yearsExperience"`
	IsKeynoteSpeaker    bool      `db:"isKeynoteSpeaker"`
	Location            *string   `db:"location"`
	Timezone            *string   `db:"timezone"`
	IsFollowing         bool      `db:"isFollowing"`
	Notes               *string   `db:"notes"`
}

// SocialLinkMap returns the decoded platform-to-handle mapping.
func (s *Speaker) SocialLinkMap() map[string]string {
	return DecodeStringMap(s.SocialLinks)
}

// ExpertiseList returns the decoded expertise areas.
func (s *Speaker) ExpertiseList() []string {
	return DecodeList(s.Expertise)
}

// Venue is a room or virtual space owned by a conference.
type Venue struct {
	ID                     string    `db:"id"`
	ConferenceID           string    `db:"conferenceId"`
	Name                   string    `db:"name"`
	Capacity               *int64    `db:"capacity"`
	Floor                  *string   `db:"floor"`
	Accessibility          *string   `db:"accessibility"`
	CreatedAt              time.Time `db:"createdAt"`
	UpdatedAt              time.Time `db:"updatedAt"`
	Description            *string   `db:"description"`
	Building               *string   `db:"building"`
	RoomNumber             *string   `db:"roomNumber"`
	SeatingArrangement     *string   `db:"seatingArrangement"`
	HasStandingRoom        bool      `db:"hasStandingRoom"`
	IsWheelchairAccessible bool      `db:"isWheelchairAccessible"`
	AccessibilityNotes     *string   `db:"accessibilityNotes"`
	Equipment              *string   `db:"equipment"`
	WifiNetwork            *string   `db:"wifiNetwork"`
	HasLiveStream          bool      `db:"hasLiveStream"`
	LiveStreamURL          *string   `db:"liveStreamURL"`
	Address                *string   `db:"address"`
	Coordinates            *string   `db:"coordinates"`
	Directions             *string   `db:"directions"`
	IsVirtual              bool      `db:"isVirtual"`
	VirtualPlatform        *string   `db:"virtualPlatform"`
	VirtualMeetingURL      *string   `db:"virtualMeetingURL"`
	VirtualMeetingID       *string   `db:"virtualMeetingId"`
	Notes                  *string   `db:"notes"`
	IsFavorited            bool      `db:"isFavorited"`
}

// AccessibilityMap returns the decoded accessibility feature flags.
func (v *Venue) AccessibilityMap() map[string]bool {
	return DecodeBoolMap(v.Accessibility)
}

// EquipmentList returns the decoded equipment list.
func (v *Venue) EquipmentList() []string {
	return DecodeList(v.Equipment)
}

// CoordinateMap returns the decoded latitude/longitude mapping.
func (v *Venue) CoordinateMap() map[string]float64 {
	return DecodeFloatMap(v.Coordinates)
}

// Conference is the root entity; venues and sessions reference it.
type Conference struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	StartDate       time.Time `db:"startDate"`
	EndDate         time.Time `db:"endDate"`
	Location        *string   `db:"location"`
	Timezone        string    `db:"timezone"`
	Website         *string   `db:"website"`
	CreatedAt       time.Time `db:"createdAt"`
	UpdatedAt       time.Time `db:"updatedAt"`
	Tagline         *string   `db:"tagline"`
	Description     *string   `db:"description"`
	Address         *string   `db:"address"`
	Coordinates     *string   `db:"coordinates"`
	RegistrationURL *string   `db:"registrationURL"`
	IsVirtual       bool      `db:"isVirtual"`
	VirtualPlatform *string   `db:"virtualPlatform"`
	Topics          *string   `db:"topics"`
	MaxAttendees    *int64    `db:"maxAttendees"`
	IsAttending     bool      `db:"isAttending"`
}

// TopicList returns the decoded conference topics.
func (c *Conference) TopicList() []string {
	return DecodeList(c.Topics)
}
