package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePriority(t *testing.T) {
	t.Run("should default to medium when empty", func(t *testing.T) {
		priority, err := ParsePriority("")

		assert.NoError(t, err)
		assert.Equal(t, PriorityMedium, priority)
	})

	t.Run("should accept any casing", func(t *testing.T) {
		priority, err := ParsePriority("high")

		assert.NoError(t, err)
		assert.Equal(t, PriorityHigh, priority)
	})

	t.Run("should reject unknown values", func(t *testing.T) {
		_, err := ParsePriority("urgent")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid priority")
	})
}

func TestTask_IsCompleted(t *testing.T) {
	t.Run("should be false for a fresh task", func(t *testing.T) {
		task := Task{}

		assert.False(t, task.IsCompleted())
	})

	t.Run("should be true once completed_at is set", func(t *testing.T) {
		now := time.Now()
		task := Task{Completed: true, CompletedAt: &now}

		assert.True(t, task.IsCompleted())
	})
}

func TestTaskPatch(t *testing.T) {
	t.Run("should be empty with no fields", func(t *testing.T) {
		assert.True(t, TaskPatch{}.IsEmpty())
		assert.Empty(t, TaskPatch{}.ToMap())
	})

	t.Run("should only map supplied fields", func(t *testing.T) {
		title := "buy bread"
		patch := TaskPatch{Title: &title}

		fields := patch.ToMap()

		assert.False(t, patch.IsEmpty())
		assert.Equal(t, map[string]interface{}{"title": "buy bread"}, fields)
	})

	t.Run("should map priority as its string value", func(t *testing.T) {
		priority := PriorityLow
		patch := TaskPatch{Priority: &priority}

		assert.Equal(t, "LOW", patch.ToMap()["priority"])
	})
}
