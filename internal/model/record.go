package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	VibeGood = "good"
	VibeBad  = "bad"

	// DateLayout is the canonical textual form of record dates (DD/MM/YYYY).
	DateLayout = "02/01/2006"
)

var (
	datePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	validate    = validator.New()
)

// VibeRecord is one vibe observation, stored as a single sheet row of seven
// columns: name, date, food, place, spaciousness, convo, vibe.
type VibeRecord struct {
	// RowIndex is the 1-based sheet row this record was read from.
	// Zero for drafts that have not been persisted yet.
	RowIndex int `json:"row_index" validate:"-"`

	Name         string `json:"name" validate:"required"`
	Date         string `json:"date" validate:"required"`
	Food         int    `json:"food" validate:"min=1,max=5"`
	Place        int    `json:"place" validate:"min=1,max=5"`
	Spaciousness int    `json:"spaciousness" validate:"min=1,max=5"`
	Convo        int    `json:"convo" validate:"min=1,max=5"`
	Vibe         string `json:"vibe" validate:"oneof=good bad"`
}

// ValidateDate reports whether text is a well-formed DD/MM/YYYY string that
// also denotes a real calendar date. Both checks are required: 31/02/2024
// matches the pattern but is rejected by the calendar parse.
func ValidateDate(text string) bool {
	if !datePattern.MatchString(text) {
		return false
	}
	_, err := time.Parse(DateLayout, text)
	return err == nil
}

// ParseScore parses a score button value into an integer in 1..5.
func ParseScore(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidInput, raw)
	}
	if n < 1 || n > 5 {
		return 0, fmt.Errorf("%w: score %d out of range 1-5", ErrInvalidInput, n)
	}
	return n, nil
}

// ParseVibeLabel normalizes a good/bad label, case-insensitively.
func ParseVibeLabel(raw string) (string, error) {
	label := strings.ToLower(strings.TrimSpace(raw))
	if label != VibeGood && label != VibeBad {
		return "", fmt.Errorf("%w: vibe must be good or bad, got %q", ErrInvalidInput, raw)
	}
	return label, nil
}

// ParseRow converts a raw sheet row into a VibeRecord. Rows with the wrong
// column count, an unparsable date, an out-of-range score or an unknown vibe
// label are rejected; callers skip them rather than fail.
func ParseRow(rowIndex int, row []string) (*VibeRecord, error) {
	if len(row) != 7 {
		return nil, fmt.Errorf("%w: expected 7 columns, got %d", ErrInvalidInput, len(row))
	}
	if !ValidateDate(row[1]) {
		return nil, fmt.Errorf("%w: bad date %q", ErrInvalidInput, row[1])
	}

	rec := &VibeRecord{
		RowIndex: rowIndex,
		Name:     strings.TrimSpace(row[0]),
		Date:     row[1],
	}

	scores := []*int{&rec.Food, &rec.Place, &rec.Spaciousness, &rec.Convo}
	for i, dst := range scores {
		n, err := ParseScore(row[2+i])
		if err != nil {
			return nil, err
		}
		*dst = n
	}

	label, err := ParseVibeLabel(row[6])
	if err != nil {
		return nil, err
	}
	rec.Vibe = label

	if err := validate.Struct(rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return rec, nil
}

// Validate checks a fully assembled record before it is written to the store.
func (r *VibeRecord) Validate() error {
	if !ValidateDate(r.Date) {
		return fmt.Errorf("%w: bad date %q", ErrInvalidInput, r.Date)
	}
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// ParsedDate returns the record's calendar date. Only meaningful for records
// that passed ParseRow or Validate.
func (r *VibeRecord) ParsedDate() time.Time {
	t, _ := time.Parse(DateLayout, r.Date)
	return t
}

// Row renders the record in sheet column order.
func (r *VibeRecord) Row() []string {
	return []string{
		r.Name,
		r.Date,
		strconv.Itoa(r.Food),
		strconv.Itoa(r.Place),
		strconv.Itoa(r.Spaciousness),
		strconv.Itoa(r.Convo),
		r.Vibe,
	}
}

// Summary is the one-line listing form used when records are offered for
// selection.
func (r *VibeRecord) Summary() string {
	return fmt.Sprintf("%s — %s (%s)", r.Name, r.Date, r.Vibe)
}

// Details is the multi-line field dump shown before edits and deletions and
// in the create confirmation prompt.
func (r *VibeRecord) Details() string {
	return fmt.Sprintf(
		"Name: %s\nDate: %s\nFood: %d\nPlace: %d\nSpaciousness: %d\nConvo: %d\nVibe: %s",
		r.Name, r.Date, r.Food, r.Place, r.Spaciousness, r.Convo, r.Vibe,
	)
}

// RecordRef is an opaque handle to a specific store row, captured when the
// user selects an entry from a listing. The snapshot is not re-checked
// against the store before a later write; concurrent external edits are
// last-write-wins.
type RecordRef struct {
	RowIndex int
	Snapshot VibeRecord
}
