// Package biztime separates storage time (always UTC) from the business
// timezone used for day boundaries in statistics.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const DefaultTimezone = "Asia/Seoul"

// DateKeyLayout is the compact date used in ticket numbers and counter keys.
const DateKeyLayout = "20060102"

var (
	mu          sync.RWMutex
	bizLocation *time.Location
)

// Init sets the business timezone. Empty tz selects DefaultTimezone.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", tz, err)
	}
	mu.Lock()
	bizLocation = loc
	mu.Unlock()
	return nil
}

// Location returns the business timezone, initializing the default lazily.
func Location() *time.Location {
	mu.RLock()
	loc := bizLocation
	mu.RUnlock()
	if loc != nil {
		return loc
	}
	if err := Init(""); err != nil {
		panic(fmt.Sprintf("biztime: %v", err))
	}
	return Location()
}

func NowUTC() time.Time {
	return time.Now().UTC()
}

// DateKeyUTC formats the UTC calendar date of t as YYYYMMDD.
func DateKeyUTC(t time.Time) string {
	return t.UTC().Format(DateKeyLayout)
}

// StartOfDayUTC returns the start of t's business day, expressed in UTC.
func StartOfDayUTC(t time.Time) time.Time {
	b := t.In(Location())
	return time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, Location()).UTC()
}

// EndOfDayUTC returns the exclusive end of t's business day in UTC.
func EndOfDayUTC(t time.Time) time.Time {
	return StartOfDayUTC(t).AddDate(0, 0, 1)
}
