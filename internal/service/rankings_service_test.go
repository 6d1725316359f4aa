package service

import (
	"strings"
	"testing"

	"goodvibes-bot/internal/model"

	"github.com/stretchr/testify/assert"
)

func rec(vibe string, food, place, spaciousness, convo int) model.VibeRecord {
	return model.VibeRecord{
		Name: "Place", Date: "01/01/2024", Vibe: vibe,
		Food: food, Place: place, Spaciousness: spaciousness, Convo: convo,
	}
}

func TestBuildReportRanksByDifference(t *testing.T) {
	svc := NewRankingsService()

	report := svc.BuildReport([]model.VibeRecord{
		rec("good", 5, 3, 3, 3),
		rec("bad", 1, 3, 3, 3),
	})

	lines := strings.Split(report, "\n")
	assert.Equal(t, "Ranking of attributes for good vibes:", lines[0])
	assert.Equal(t, "1. Food (difference: 4.00)", lines[1])

	assert.Contains(t, report, "Good vibes averages:\n- Food: 5.00")
	assert.Contains(t, report, "Bad vibes averages:\n- Food: 1.00")
	assert.Contains(t, report, "- Place: 3.00")
}

func TestBuildReportAveragesMultipleRecords(t *testing.T) {
	svc := NewRankingsService()

	report := svc.BuildReport([]model.VibeRecord{
		rec("good", 4, 2, 3, 5),
		rec("good", 2, 4, 3, 5),
		rec("bad", 1, 1, 3, 5),
	})

	// good food mean 3.00, bad 1.00 → difference 2.00
	assert.Contains(t, report, "1. Food (difference: 2.00)")
	assert.Contains(t, report, "2. Place (difference: 2.00)")
	// spaciousness and convo wash out
	assert.Contains(t, report, "(difference: 0.00)")
	assert.Contains(t, report, "- Convo: 5.00")
}

func TestBuildReportTieKeepsFixedOrder(t *testing.T) {
	svc := NewRankingsService()

	// All diffs equal; ties keep food, place, spaciousness, convo order.
	report := svc.BuildReport([]model.VibeRecord{
		rec("good", 4, 4, 4, 4),
		rec("bad", 2, 2, 2, 2),
	})

	lines := strings.Split(report, "\n")
	assert.Equal(t, "1. Food (difference: 2.00)", lines[1])
	assert.Equal(t, "2. Place (difference: 2.00)", lines[2])
	assert.Equal(t, "3. Spaciousness (difference: 2.00)", lines[3])
	assert.Equal(t, "4. Convo (difference: 2.00)", lines[4])
}

func TestBuildReportNotEnoughData(t *testing.T) {
	svc := NewRankingsService()

	assert.Equal(t, NotEnoughDataMessage, svc.BuildReport(nil))
	assert.Equal(t, NotEnoughDataMessage, svc.BuildReport([]model.VibeRecord{
		rec("good", 5, 5, 5, 5),
	}))
	assert.Equal(t, NotEnoughDataMessage, svc.BuildReport([]model.VibeRecord{
		rec("bad", 1, 1, 1, 1),
	}))
}

func TestBuildReportIgnoresUnknownLabels(t *testing.T) {
	svc := NewRankingsService()

	// The "meh" record belongs to neither partition.
	report := svc.BuildReport([]model.VibeRecord{
		rec("good", 5, 3, 3, 3),
		rec("bad", 1, 3, 3, 3),
		rec("meh", 1, 1, 1, 1),
	})
	assert.Contains(t, report, "- Food: 5.00")
	assert.NotContains(t, report, "1.67")
}
