package mission

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindDaily     Kind = "daily"
	KindChallenge Kind = "challenge"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Mission is a catalog entry. Catalog rows are admin-managed and effectively
// immutable from the engine's point of view: attempts snapshot target_value
// at creation, so later catalog edits never touch existing attempts.
type Mission struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	Type         Kind      `json:"type" db:"type"`
	RewardExp    int       `json:"reward_exp" db:"reward_exp"`
	RewardPoints int       `json:"reward_points" db:"reward_points"`
	StartTime    string    `json:"start_time" db:"start_time"` // "HH:MM", informational
	EndTime      string    `json:"end_time" db:"end_time"`
	MinLevel     int       `json:"min_level" db:"min_level"`
	TargetValue  float64   `json:"target_value" db:"target_value"`
	TargetUnit   string    `json:"target_unit" db:"target_unit"`
	Icon         string    `json:"icon" db:"icon"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserMission is one attempt: one user, one mission, one epoch day.
type UserMission struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	MissionID   uuid.UUID  `json:"mission_id" db:"mission_id"`
	EpochDay    Epoch      `json:"epoch_day" db:"epoch_day"`
	Progress    Progress   `json:"progress"`
	Status      Status     `json:"mission_status" db:"mission_status"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// UserStatus is the per-user slice of the mission view. Status is nil when no
// attempt exists for the epoch.
type UserStatus struct {
	Status      *Status    `json:"mission_status"`
	Progress    Progress   `json:"progress"`
	CompletedAt *time.Time `json:"completed_at"`
}

type MissionWithStatus struct {
	Mission
	IsLocked   bool       `json:"is_locked"`
	UserStatus UserStatus `json:"user_status"`
}

// Rewards is what a completion actually granted, echoed back for display.
type Rewards struct {
	Exp    int `json:"exp"`
	Points int `json:"points"`
}
