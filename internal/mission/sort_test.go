package mission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func view(title string, kind Kind, minLevel int, locked bool) *MissionWithStatus {
	return &MissionWithStatus{
		Mission:  Mission{Title: title, Type: kind, MinLevel: minLevel},
		IsLocked: locked,
	}
}

func titles(views []*MissionWithStatus) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Title
	}
	return out
}

func TestOrderMissionViews(t *testing.T) {
	views := []*MissionWithStatus{
		view("Locked High", KindChallenge, 91, true),
		view("Drink Water", KindDaily, 1, false),
		view("Locked Low", KindChallenge, 11, true),
		view("Step Count", KindDaily, 1, false),
		view("Unlocked High", KindChallenge, 21, false),
		view("Unlocked Low", KindChallenge, 1, false),
	}

	got := OrderMissionViews(views)

	assert.Equal(t, []string{
		"Drink Water",
		"Step Count",
		"Unlocked Low",
		"Unlocked High",
		"Locked Low",
		"Locked High",
	}, titles(got))
}

func TestOrderMissionViewsDailyKeepsCatalogOrder(t *testing.T) {
	views := []*MissionWithStatus{
		view("C", KindDaily, 1, false),
		view("A", KindDaily, 1, false),
		view("B", KindDaily, 1, false),
	}

	got := OrderMissionViews(views)
	assert.Equal(t, []string{"C", "A", "B"}, titles(got))
}

func TestOrderMissionViewsStableWithinMinLevel(t *testing.T) {
	views := []*MissionWithStatus{
		view("First", KindChallenge, 11, false),
		view("Second", KindChallenge, 11, false),
		view("Third", KindChallenge, 11, false),
	}

	got := OrderMissionViews(views)
	assert.Equal(t, []string{"First", "Second", "Third"}, titles(got))
}

func TestOrderMissionViewsEmpty(t *testing.T) {
	assert.Empty(t, OrderMissionViews(nil))
}
