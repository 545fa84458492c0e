package mission

import "fmt"

type CreateMissionRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Type         Kind    `json:"type"`
	RewardExp    int     `json:"reward_exp"`
	RewardPoints int     `json:"reward_points"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	MinLevel     int     `json:"min_level"`
	TargetValue  float64 `json:"target_value"`
	TargetUnit   string  `json:"target_unit"`
	Icon         string  `json:"icon"`
}

func (r *CreateMissionRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.Type != KindDaily && r.Type != KindChallenge {
		return fmt.Errorf("type must be %q or %q", KindDaily, KindChallenge)
	}
	if r.RewardExp < 0 || r.RewardPoints < 0 {
		return fmt.Errorf("rewards must be non-negative")
	}
	if r.TargetValue <= 0 {
		return fmt.Errorf("target_value must be positive")
	}
	// Zero min_level means "use the default"; the service fills in 1.
	if r.MinLevel < 0 {
		return fmt.Errorf("min_level must not be negative")
	}
	return nil
}

type UpdateMissionRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Type         *Kind    `json:"type"`
	RewardExp    *int     `json:"reward_exp"`
	RewardPoints *int     `json:"reward_points"`
	StartTime    *string  `json:"start_time"`
	EndTime      *string  `json:"end_time"`
	MinLevel     *int     `json:"min_level"`
	TargetValue  *float64 `json:"target_value"`
	TargetUnit   *string  `json:"target_unit"`
	Icon         *string  `json:"icon"`
	IsActive     *bool    `json:"is_active"`
}

// UpdateProgressRequest carries the wire-format progress string. The optional
// mission_status field is accepted for client compatibility but a progress
// update never transitions status; completion has its own endpoint so the
// reward grant stays on a single code path.
type UpdateProgressRequest struct {
	Progress Progress `json:"progress"`
	Status   *Status  `json:"mission_status,omitempty"`
}
