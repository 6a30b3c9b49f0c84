package factory

import (
	"fmt"
	"time"

	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tasktracker/internal/core/domain"
)

const DefaultPassword = "12345678"

// NewUser builds a user whose PasswordHash matches DefaultPassword unless overridden.
func NewUser(customData ...map[string]any) domain.User {
	instance := fab.New(domain.User{})
	now := time.Now().UTC()
	id := uuid.New()

	defaults := map[string]any{
		"ID":        id,
		"Email":     fmt.Sprintf("user-%s@example.com", id.String()[:8]),
		"CreatedAt": now,
		"UpdatedAt": now,
	}

	data := merge(defaults, customData)

	if _, exists := data["PasswordHash"]; !exists {
		hash, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
		data["PasswordHash"] = string(hash)
	}

	return instance.Build(data)
}
