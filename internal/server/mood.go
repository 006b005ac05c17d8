package server

import (
	"sync"
	"time"

	"github.com/zenalyze/zenalyze/internal/models"
)

// MoodStore keeps the last reported mood in memory. Writes are last-wins.
type MoodStore struct {
	mu   sync.Mutex
	last *models.MoodRecord
}

// Get returns the last reported mood. The first read on an empty store
// records a default "bien" reported two hours before now.
func (m *MoodStore) Get(now time.Time) models.MoodRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.last == nil {
		m.last = &models.MoodRecord{
			ID:        1,
			Estado:    models.MoodGood,
			Timestamp: now.Add(-2 * time.Hour),
		}
	}
	return *m.last
}

// Set replaces the stored mood. The record id is the report time in milliseconds.
func (m *MoodStore) Set(mood models.Mood, now time.Time) models.MoodRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.last = &models.MoodRecord{
		ID:        now.UnixMilli(),
		Estado:    mood,
		Timestamp: now,
	}
	return *m.last
}
