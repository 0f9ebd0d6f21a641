package repository

import (
	"database/sql/driver"
)

// SessionFormat is the canonical lowercase session format.
type SessionFormat string

const (
	FormatTalk       SessionFormat = "talk"
	FormatWorkshop   SessionFormat = "workshop"
	FormatPanel      SessionFormat = "panel"
	FormatKeynote    SessionFormat = "keynote"
	FormatLightning  SessionFormat = "lightning"
	FormatRoundtable SessionFormat = "roundtable"
	FormatNetworking SessionFormat = "networking"
)

// Formats lists all valid session formats.
var Formats = []SessionFormat{
	FormatTalk, FormatWorkshop, FormatPanel, FormatKeynote,
	FormatLightning, FormatRoundtable, FormatNetworking,
}

// Valid reports whether f is one of the closed set.
func (f SessionFormat) Valid() bool {
	for _, v := range Formats {
		if f == v {
			return true
		}
	}
	return false
}

// Scan implements sql.Scanner.  NULL and unknown stored values degrade to
// the default "talk".
func (f *SessionFormat) Scan(src any) error {
	*f = FormatTalk
	if v, ok := scanString(src); ok && SessionFormat(v).Valid() {
		*f = SessionFormat(v)
	}
	return nil
}

// Value implements driver.Valuer.
func (f SessionFormat) Value() (driver.Value, error) {
	return string(f), nil
}

// DifficultyLevel is the canonical lowercase difficulty level.
type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
	DifficultyAll          DifficultyLevel = "all"
)

// Difficulties lists all valid difficulty levels.
var Difficulties = []DifficultyLevel{
	DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyAll,
}

// Valid reports whether d is one of the closed set.
func (d DifficultyLevel) Valid() bool {
	for _, v := range Difficulties {
		if d == v {
			return true
		}
	}
	return false
}

// Label returns the display form, e.g. "All levels" for "all".
func (d DifficultyLevel) Label() string {
	switch d {
	case DifficultyBeginner:
		return "Beginner"
	case DifficultyIntermediate:
		return "Intermediate"
	case DifficultyAdvanced:
		return "Advanced"
	default:
		return "All levels"
	}
}

// Scan implements sql.Scanner.  NULL and unknown stored values degrade to
// the default "all".
func (d *DifficultyLevel) Scan(src any) error {
	*d = DifficultyAll
	if v, ok := scanString(src); ok && DifficultyLevel(v).Valid() {
		*d = DifficultyLevel(v)
	}
	return nil
}

// Value implements driver.Valuer.
func (d DifficultyLevel) Value() (driver.Value, error) {
	return string(d), nil
}

func scanString(src any) (string, bool) {
	switch v := src.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	default:
		return "", false
	}
}
