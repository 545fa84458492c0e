package routine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Routine struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	Title         string    `json:"title" db:"title"`
	ScheduledTime string    `json:"scheduled_time" db:"scheduled_time"` // "HH:MM"
	ScheduledDate time.Time `json:"scheduled_date" db:"scheduled_date"`
	Completed     bool      `json:"completed" db:"completed"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type CreateRoutineRequest struct {
	UserID        string `json:"user_id"`
	Title         string `json:"title"`
	ScheduledTime string `json:"scheduled_time"`
	ScheduledDate string `json:"scheduled_date"` // YYYY-MM-DD, defaults to today
}

func (r *CreateRoutineRequest) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.ScheduledTime == "" {
		return fmt.Errorf("scheduled_time is required")
	}
	return nil
}

type UpdateRoutineRequest struct {
	Title         *string `json:"title"`
	ScheduledTime *string `json:"scheduled_time"`
	ScheduledDate *string `json:"scheduled_date"`
	Completed     *bool   `json:"completed"`
}
