package test

import (
	"log"
	"sync"
	"time"

	"tasktracker/internal/adapter/database/sqlite"
)

// InitTestDB opens a migrated in-memory database. Each call gets a fresh one.
func InitTestDB() *sqlite.DB {
	db, err := sqlite.Open(sqlite.Options{
		Path:     sqlite.MemoryPath,
		LogLevel: "disabled",
	})

	if err != nil {
		log.Fatal(err)
	}

	return db
}

// FixedClock only moves when told to.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now.UTC()}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}
