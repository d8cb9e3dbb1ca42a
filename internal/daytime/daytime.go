// Package daytime deals with calendar days as seen on the user's device:
// daily progress resets and streaks are all compared at day granularity.
package daytime

import (
	"fmt"
	"sync"
	"time"
)

// DayLayout mirrors the JS Date.toDateString() format used by the mobile app,
// e.g. "Mon Dec 25 2025", so stored markers stay compatible
const DayLayout = "Mon Jan 02 2006"

type Clock interface {
	Now() time.Time
}

type SystemClock struct {
	Location *time.Location
}

func NewSystemClock(location *time.Location) *SystemClock {
	if location == nil {
		location = time.Local
	}
	return &SystemClock{Location: location}
}

func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.Location)
}

// LoadLocation resolves the configured timezone name, empty means device local
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load location %s: %w", name, err)
	}
	return loc, nil
}

func DayString(t time.Time) string {
	return t.Format(DayLayout)
}

func Today(clock Clock) string {
	return DayString(clock.Now())
}

// Days reads the clock once and returns today and yesterday from that instant,
// so the pair never straddles midnight. Yesterday is one calendar day back
// (not 24h, so DST changes are fine).
func Days(clock Clock) (today, yesterday string) {
	now := clock.Now()
	return DayString(now), DayString(now.AddDate(0, 0, -1))
}

// FixedClock is a settable clock, used in tests and dev tooling
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// AddDays moves the clock by whole calendar days
func (c *FixedClock) AddDays(days int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, days)
}
