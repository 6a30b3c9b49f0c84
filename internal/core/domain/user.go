package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Identity is the authenticated caller, resolved from a verified bearer token.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Email: u.Email}
}

const TokenTypeBearer = "bearer"

type AccessToken struct {
	Value     string
	Type      string
	ExpiresAt time.Time
}
