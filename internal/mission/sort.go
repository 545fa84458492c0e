package mission

import "sort"

// OrderMissionViews arranges the joined view for display: daily missions
// first in catalog order, then challenge missions with unlocked ones before
// locked ones and each group ascending by min_level. The sort is stable so
// catalog order breaks ties.
func OrderMissionViews(views []*MissionWithStatus) []*MissionWithStatus {
	daily := make([]*MissionWithStatus, 0, len(views))
	challenges := make([]*MissionWithStatus, 0, len(views))

	for _, v := range views {
		if v.Type == KindChallenge {
			challenges = append(challenges, v)
		} else {
			daily = append(daily, v)
		}
	}

	sort.SliceStable(challenges, func(i, j int) bool {
		if challenges[i].IsLocked != challenges[j].IsLocked {
			return !challenges[i].IsLocked
		}
		return challenges[i].MinLevel < challenges[j].MinLevel
	})

	return append(daily, challenges...)
}
