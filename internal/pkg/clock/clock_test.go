package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClock_NowIsUTCAndTruncated(t *testing.T) {
	now := RealClock{}.Now()

	assert.Equal(t, time.UTC, now.Location())
	assert.Equal(t, now, now.Truncate(Resolution))
	assert.WithinDuration(t, time.Now(), now, time.Second)
}

func TestPackageNow(t *testing.T) {
	now := Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond()%int(Resolution))
}

func TestFakeClock(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	fc := NewFake(start)

	assert.Equal(t, start, fc.Now())

	fc.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), fc.Now())

	later := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	fc.Set(later)
	assert.Equal(t, later, fc.Now())
}
