package dailygoal

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type DailyGoal struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	GoalDate  time.Time `json:"goal_date" db:"goal_date"`
	Title     string    `json:"title" db:"title"`
	Completed bool      `json:"completed" db:"completed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateDailyGoalRequest struct {
	UserID   string `json:"user_id"`
	Title    string `json:"title"`
	GoalDate string `json:"goal_date"` // YYYY-MM-DD, defaults to today
}

func (r *CreateDailyGoalRequest) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

type UpdateDailyGoalRequest struct {
	Title     *string `json:"title"`
	GoalDate  *string `json:"goal_date"`
	Completed *bool   `json:"completed"`
}
