package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (p Priority) String() string {
	return string(p)
}

// ParsePriority accepts any casing and falls back to MEDIUM for an empty value.
func ParsePriority(value string) (Priority, error) {
	if strings.TrimSpace(value) == "" {
		return PriorityMedium, nil
	}

	priority := Priority(strings.ToUpper(strings.TrimSpace(value)))

	if !priority.IsValid() {
		return "", fmt.Errorf("invalid priority: %s", value)
	}

	return priority, nil
}

type Task struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID `db:"owner_id"`
	Title       string
	Description string
	Priority    Priority
	Completed   bool
	CompletedAt *time.Time `db:"completed_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// IsCompleted reports whether completed_at has been stamped.
func (t *Task) IsCompleted() bool {
	return t.Completed && t.CompletedAt != nil
}

// TaskPatch carries a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *Priority
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil
}

func (p TaskPatch) ToMap() map[string]interface{} {
	fields := make(map[string]interface{})

	if p.Title != nil {
		fields["title"] = *p.Title
	}

	if p.Description != nil {
		fields["description"] = *p.Description
	}

	if p.Priority != nil {
		fields["priority"] = string(*p.Priority)
	}

	return fields
}
