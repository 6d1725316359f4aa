package service

import (
	"fmt"
	"sort"
	"strings"

	"goodvibes-bot/internal/model"
)

// NotEnoughDataMessage is reported when one of the two partitions is empty;
// no averaging is attempted in that case.
const NotEnoughDataMessage = "Not enough data for rankings."

type IRankingsService interface {
	// BuildReport partitions records by vibe label and renders the ranked
	// per-attribute mean differences (good minus bad).
	BuildReport(records []model.VibeRecord) string
}

type rankingsService struct{}

func NewRankingsService() IRankingsService {
	return &rankingsService{}
}

type attributeStats struct {
	field   model.Field
	goodAvg float64
	badAvg  float64
	diff    float64
}

func (s *rankingsService) BuildReport(records []model.VibeRecord) string {
	var good, bad []model.VibeRecord
	for _, rec := range records {
		switch strings.ToLower(rec.Vibe) {
		case model.VibeGood:
			good = append(good, rec)
		case model.VibeBad:
			bad = append(bad, rec)
		}
	}

	if len(good) == 0 || len(bad) == 0 {
		return NotEnoughDataMessage
	}

	stats := make([]attributeStats, 0, len(model.ScoredFields))
	for _, f := range model.ScoredFields {
		goodAvg := mean(good, f)
		badAvg := mean(bad, f)
		stats = append(stats, attributeStats{
			field:   f,
			goodAvg: goodAvg,
			badAvg:  badAvg,
			diff:    goodAvg - badAvg,
		})
	}

	// Ties keep the fixed attribute order food, place, spaciousness, convo.
	ranked := make([]attributeStats, len(stats))
	copy(ranked, stats)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].diff > ranked[j].diff
	})

	var b strings.Builder
	b.WriteString("Ranking of attributes for good vibes:\n")
	for i, st := range ranked {
		fmt.Fprintf(&b, "%d. %s (difference: %.2f)\n", i+1, st.field.Title(), st.diff)
	}

	b.WriteString("\nGood vibes averages:\n")
	for _, st := range stats {
		fmt.Fprintf(&b, "- %s: %.2f\n", st.field.Title(), st.goodAvg)
	}

	b.WriteString("\nBad vibes averages:\n")
	for _, st := range stats {
		fmt.Fprintf(&b, "- %s: %.2f\n", st.field.Title(), st.badAvg)
	}

	return strings.TrimRight(b.String(), "\n")
}

func mean(records []model.VibeRecord, f model.Field) float64 {
	sum := 0
	for i := range records {
		sum += f.Score(&records[i])
	}
	return float64(sum) / float64(len(records))
}
