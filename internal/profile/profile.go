package profile

import (
	"time"

	"github.com/google/uuid"
)

// ExpPerLevel is the flat level-up step used by the progression engine:
// level = exp/1000 + 1. The seeded levels table carries its own per-tier exp
// bands for display; the engine deliberately does not consult it (the two
// disagree, see DESIGN.md).
const ExpPerLevel = 1000

// LevelForExp computes the level the engine's formula assigns to an exp
// total.
func LevelForExp(exp int) int {
	if exp < 0 {
		return 1
	}
	return exp/ExpPerLevel + 1
}

type Profile struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	LevelID    int       `json:"level_id" db:"level_id"`
	Exp        int       `json:"exp" db:"exp"`
	Points     int       `json:"points" db:"points"`
	ProfileImg string    `json:"profile_img" db:"profile_img"`
	Bio        string    `json:"bio" db:"bio"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type UpdateProfileRequest struct {
	LevelID    *int    `json:"level_id"`
	Exp        *int    `json:"exp"`
	Points     *int    `json:"points"`
	ProfileImg *string `json:"profile_img"`
	Bio        *string `json:"bio"`
}

type AmountRequest struct {
	Amount int `json:"amount"`
}
