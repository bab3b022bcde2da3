package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKeyUTC(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	// 2026-03-02 08:30 in Seoul is still 2026-03-01 in UTC.
	ts := time.Date(2026, 3, 2, 8, 30, 0, 0, seoul)
	assert.Equal(t, "20260301", DateKeyUTC(ts))
	assert.Equal(t, "20260302", DateKeyUTC(ts.Add(time.Hour)))
}

func TestBusinessDayBounds(t *testing.T) {
	require.NoError(t, Init("Asia/Seoul"))

	ts := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC) // 2026-03-02 05:00 KST
	start := StartOfDayUTC(ts)
	end := EndOfDayUTC(ts)

	assert.Equal(t, time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC), end)
	assert.Equal(t, time.UTC, start.Location())
}

func TestInit_InvalidTimezone(t *testing.T) {
	assert.Error(t, Init("Mars/Olympus"))
}
