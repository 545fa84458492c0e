package user

import "time"

type User struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"` // public id: u000001, u000002, ...
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
