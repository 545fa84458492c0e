package level

import (
	"time"

	"github.com/google/uuid"
)

// Level is a display tier (name, colors, exp band). The progression engine
// does not read this table; see internal/profile.LevelForExp.
type Level struct {
	ID          uuid.UUID `json:"id" db:"id"`
	LevelID     int       `json:"level_id" db:"level_id"`
	Name        string    `json:"name" db:"name"`
	Title       string    `json:"title" db:"title"`
	Color       string    `json:"color" db:"color"`
	HexCode     string    `json:"hex_code" db:"hex_code"`
	MinExp      int       `json:"min_exp" db:"min_exp"`
	MaxExp      int       `json:"max_exp" db:"max_exp"`
	RequiredExp int       `json:"required_exp" db:"required_exp"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type CreateLevelRequest struct {
	LevelID     int    `json:"level_id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Color       string `json:"color"`
	HexCode     string `json:"hex_code"`
	MinExp      int    `json:"min_exp"`
	MaxExp      int    `json:"max_exp"`
	RequiredExp int    `json:"required_exp"`
}

type UpdateLevelRequest struct {
	Name        *string `json:"name"`
	Title       *string `json:"title"`
	Color       *string `json:"color"`
	HexCode     *string `json:"hex_code"`
	MinExp      *int    `json:"min_exp"`
	MaxExp      *int    `json:"max_exp"`
	RequiredExp *int    `json:"required_exp"`
}
