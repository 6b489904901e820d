package state

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"
)

var validDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// InMemoryManager computes daily challenges on demand and caches the
// current one. Rotation is implicit, the first Current call after UTC
// midnight returns the new challenge.
type InMemoryManager struct {
	lock  sync.RWMutex
	daily *Daily
	now   func() time.Time
}

func NewInMemoryManager() *InMemoryManager {
	return &InMemoryManager{
		now: time.Now,
	}
}

func (m *InMemoryManager) Current(ctx context.Context) (*Daily, error) {
	date := Today(m.now())

	m.lock.RLock()
	if m.daily != nil && m.daily.Date == date {
		daily := *m.daily
		m.lock.RUnlock()
		return &daily, nil
	}
	m.lock.RUnlock()

	m.lock.Lock()
	defer m.lock.Unlock()
	if m.daily == nil || m.daily.Date != date {
		m.daily = &Daily{
			Date: date,
			Seed: SeedFor(date),
		}
	}
	daily := *m.daily
	return &daily, nil
}

func (m *InMemoryManager) For(ctx context.Context, date string) (*Daily, error) {
	if !validDate.MatchString(date) {
		return nil, fmt.Errorf("invalid date %q", date)
	}
	return &Daily{
		Date: date,
		Seed: SeedFor(date),
	}, nil
}
