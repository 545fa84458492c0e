package healthtrack

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HealthTrack is one record per user per day. Metric fields are pointers so
// a partial upsert leaves unset metrics untouched.
type HealthTrack struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Date       time.Time `json:"date" db:"date"`
	Weight     *float64  `json:"weight" db:"weight"`
	Height     *float64  `json:"height" db:"height"`
	WaterGlass *int      `json:"water_glass" db:"water_glass"`
	Mood       *int      `json:"mood" db:"mood"` // 1-5
	SleepHours *float64  `json:"sleep_hours" db:"sleep_hours"`
	Steps      *int      `json:"steps" db:"steps"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type UpsertHealthTrackRequest struct {
	Date       string   `json:"date"` // YYYY-MM-DD, defaults to today
	Weight     *float64 `json:"weight"`
	Height     *float64 `json:"height"`
	WaterGlass *int     `json:"water_glass"`
	Mood       *int     `json:"mood"`
	SleepHours *float64 `json:"sleep_hours"`
	Steps      *int     `json:"steps"`
}

func (r *UpsertHealthTrackRequest) Validate() error {
	if r.Mood != nil && (*r.Mood < 1 || *r.Mood > 5) {
		return fmt.Errorf("mood must be between 1 and 5")
	}
	if r.WaterGlass != nil && *r.WaterGlass < 0 {
		return fmt.Errorf("water_glass must be non-negative")
	}
	if r.Steps != nil && *r.Steps < 0 {
		return fmt.Errorf("steps must be non-negative")
	}
	return nil
}

type AddWaterRequest struct {
	Glasses int `json:"glasses"`
}
