package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidInput marks user-correctable input problems. Handlers re-prompt
// the current step instead of advancing.
var ErrInvalidInput = errors.New("invalid input")

// Field identifies one of the five editable record attributes.
type Field int

const (
	FieldFood Field = iota
	FieldPlace
	FieldSpaciousness
	FieldConvo
	FieldVibe
)

// ScoredFields lists the four numeric attributes in their fixed report and
// prompt order.
var ScoredFields = []Field{FieldFood, FieldPlace, FieldSpaciousness, FieldConvo}

var fieldNames = map[Field]string{
	FieldFood:         "food",
	FieldPlace:        "place",
	FieldSpaciousness: "spaciousness",
	FieldConvo:        "convo",
	FieldVibe:         "vibe",
}

// ParseField resolves a user-typed field name, case-insensitively.
func ParseField(text string) (Field, error) {
	name := strings.ToLower(strings.TrimSpace(text))
	for f, n := range fieldNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown field %q", ErrInvalidInput, text)
}

func (f Field) String() string { return fieldNames[f] }

// Title returns the field name as shown to users.
func (f Field) Title() string {
	name := fieldNames[f]
	return strings.ToUpper(name[:1]) + name[1:]
}

// Column is the 1-based sheet column holding this attribute
// (name=1, date=2, food=3 .. vibe=7).
func (f Field) Column() int {
	return int(f) + 3
}

// IsScored reports whether the field takes a 1-5 score rather than a
// good/bad label.
func (f Field) IsScored() bool {
	return f != FieldVibe
}

// Score returns the current score of a scored field on rec.
func (f Field) Score(rec *VibeRecord) int {
	switch f {
	case FieldFood:
		return rec.Food
	case FieldPlace:
		return rec.Place
	case FieldSpaciousness:
		return rec.Spaciousness
	case FieldConvo:
		return rec.Convo
	}
	return 0
}

// FieldChange is a pending single-field modification: which attribute to
// touch and its new, already-typed value. The two variants are ScoreChange
// and VibeChange; nothing else implements it.
type FieldChange interface {
	// Column is the 1-based sheet column the change targets.
	Column() int
	// CellValue is the raw value written to the cell.
	CellValue() string
	// Summary is the short human form used in confirmation prompts.
	Summary() string
}

// ScoreChange sets a numeric attribute to a 1-5 score.
type ScoreChange struct {
	Field Field
	Score int
}

func (c ScoreChange) Column() int       { return c.Field.Column() }
func (c ScoreChange) CellValue() string { return strconv.Itoa(c.Score) }
func (c ScoreChange) Summary() string {
	return fmt.Sprintf("%s: %d", c.Field.Title(), c.Score)
}

// VibeChange relabels a record as good or bad.
type VibeChange struct {
	Label string
}

func (c VibeChange) Column() int       { return FieldVibe.Column() }
func (c VibeChange) CellValue() string { return c.Label }
func (c VibeChange) Summary() string {
	return fmt.Sprintf("%s: %s", FieldVibe.Title(), c.Label)
}

// NewFieldChange builds the right change variant for a field from the raw
// button value the user picked.
func NewFieldChange(f Field, raw string) (FieldChange, error) {
	if f == FieldVibe {
		label, err := ParseVibeLabel(raw)
		if err != nil {
			return nil, err
		}
		return VibeChange{Label: label}, nil
	}
	score, err := ParseScore(raw)
	if err != nil {
		return nil, err
	}
	return ScoreChange{Field: f, Score: score}, nil
}
