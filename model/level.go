package model

import (
	"fmt"
	"strings"
)

// Level represents the outline depth assigned to a heading (H1-H3)
type Level int

const (
	LevelNone Level = iota // Not a heading
	LevelH1                // H1 - top-level section
	LevelH2                // H2 - subsection
	LevelH3                // H3 - sub-subsection
)

// String returns the output representation of the level ("H1", "H2", "H3").
// LevelNone and out-of-range values return "none".
func (l Level) String() string {
	switch l {
	case LevelH1:
		return "H1"
	case LevelH2:
		return "H2"
	case LevelH3:
		return "H3"
	default:
		return "none"
	}
}

// Valid reports whether the level is one of H1, H2 or H3.
func (l Level) Valid() bool {
	return l >= LevelH1 && l <= LevelH3
}

// Escalate returns the next more prominent level. H1 stays H1 and
// LevelNone stays LevelNone.
func (l Level) Escalate() Level {
	switch l {
	case LevelH2:
		return LevelH1
	case LevelH3:
		return LevelH2
	default:
		return l
	}
}

// ParseLevel parses "H1", "H2" or "H3" (case-insensitive).
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "H1":
		return LevelH1, nil
	case "H2":
		return LevelH2, nil
	case "H3":
		return LevelH3, nil
	}
	return LevelNone, fmt.Errorf("invalid heading level %q", s)
}

// MarshalText implements encoding.TextMarshaler. It is used by both the JSON
// and YAML encoders.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("cannot marshal heading level %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
