package exercise

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeCardio Type = "cardio"
	TypeWeight Type = "weight"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func ValidType(t Type) bool {
	return t == TypeCardio || t == TypeWeight
}

func ValidDifficulty(d Difficulty) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

type Exercise struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Type        Type       `json:"type" db:"type"`
	Difficulty  Difficulty `json:"difficulty" db:"difficulty"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	VideoURL    string     `json:"video_url,omitempty" db:"video_url"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateExerciseRequest struct {
	Type        Type       `json:"type"`
	Difficulty  Difficulty `json:"difficulty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	VideoURL    string     `json:"video_url"`
}

func (r *CreateExerciseRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if !ValidType(r.Type) {
		return fmt.Errorf("type must be %q or %q", TypeCardio, TypeWeight)
	}
	if !ValidDifficulty(r.Difficulty) {
		return fmt.Errorf("difficulty must be easy, medium or hard")
	}
	return nil
}

type UpdateExerciseRequest struct {
	Type        *Type       `json:"type"`
	Difficulty  *Difficulty `json:"difficulty"`
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	VideoURL    *string     `json:"video_url"`
}
