package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"

	"tasktracker/internal/core/domain"
)

// NewTask builds an open MEDIUM task for owner.
func NewTask(owner uuid.UUID, customData ...map[string]any) domain.Task {
	instance := fab.New(domain.Task{})
	now := time.Now().UTC()

	defaults := map[string]any{
		"ID":        uuid.New(),
		"OwnerID":   owner,
		"Priority":  domain.PriorityMedium,
		"Completed": false,
		"CreatedAt": now,
		"UpdatedAt": now,
	}

	data := merge(defaults, customData)
	task := instance.Build(data)

	if _, exists := data["CompletedAt"]; !exists {
		task.CompletedAt = nil
	}

	return task
}
