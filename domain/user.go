package domain

import (
	"strings"
	"time"
)

// User is a team member; both the name and the email are unique.
type User struct {
	Name      string    `json:"name" validate:"required,max=100"`
	Email     string    `json:"email" validate:"required,email"`
	CreatedAt time.Time `json:"created_at"`
}

// Normalize trims the name and lowercases the email.
func (u *User) Normalize() {
	if u == nil {
		return
	}
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
}
