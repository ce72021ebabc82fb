package deck

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidGrade is returned when a grade value or name is not one of
// Again, Hard, Good, Easy.
var ErrInvalidGrade = errors.New("invalid grade")

// Grade is the learner's self-reported recall quality for a card.
type Grade int

const (
	Again Grade = iota + 1 // Not recalled.
	Hard                   // Recalled with significant effort.
	Good                   // Recalled.
	Easy                   // Recalled effortlessly.
)

// Grades lists all grades in ascending order.
var Grades = []Grade{Again, Hard, Good, Easy}

var (
	gradeNames  = [...]string{Again: "Again", Hard: "Hard", Good: "Good", Easy: "Easy"}
	gradeByName = map[string]Grade{
		"again": Again,
		"hard":  Hard,
		"good":  Good,
		"easy":  Easy,
	}
)

var (
	_ fmt.Stringer             = Grade(0)
	_ json.Marshaler           = Grade(0)
	_ json.Unmarshaler         = (*Grade)(nil)
	_ encoding.TextMarshaler   = Grade(0)
	_ encoding.TextUnmarshaler = (*Grade)(nil)
)

// String returns the grade name. Invalid values render as "Grade(n)".
func (g Grade) String() string {
	if g.IsValid() {
		return gradeNames[g]
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}

// IsValid reports whether g is one of the four grades.
func (g Grade) IsValid() bool {
	return g >= Again && g <= Easy
}

// IsSuccess reports whether g counts as a correct recall (Good or Easy).
func (g Grade) IsSuccess() bool {
	return g == Good || g == Easy
}

// NeedsReview reports whether g marks the card as a knowledge gap (Again or Hard).
func (g Grade) NeedsReview() bool {
	return g == Again || g == Hard
}

// ParseGrade parses a grade name, case-insensitively.
func ParseGrade(s string) (Grade, error) {
	g, ok := gradeByName[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGrade, s)
	}
	return g, nil
}

// MarshalText implements encoding.TextMarshaler.
func (g Grade) MarshalText() ([]byte, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGrade, int(g))
	}
	return []byte(gradeNames[g]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Grade) UnmarshalText(text []byte) error {
	v, err := ParseGrade(string(text))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// MarshalJSON encodes the grade as its name.
func (g Grade) MarshalJSON() ([]byte, error) {
	text, err := g.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON expects a JSON string.
func (g *Grade) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidGrade, data)
	}
	return g.UnmarshalText([]byte(s))
}
