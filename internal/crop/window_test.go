package crop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("start later today", func(t *testing.T) {
		start, end, err := bulkWindow(now, "14:30", 0)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC), start)
		assert.Equal(t, 8*time.Hour, end.Sub(start), "default duration is 8 hours")
	})

	t.Run("start already past rolls to tomorrow", func(t *testing.T) {
		start, _, err := bulkWindow(now, "08:00", 0)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC), start)
	})

	t.Run("start equal to now rolls to tomorrow", func(t *testing.T) {
		start, _, err := bulkWindow(now, "09:00", 0)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC), start)
	})

	t.Run("explicit duration", func(t *testing.T) {
		start, end, err := bulkWindow(now, "10:00", 120)
		require.NoError(t, err)
		assert.Equal(t, 2*time.Hour, end.Sub(start))
	})

	t.Run("duration at the 10 hour cap", func(t *testing.T) {
		_, _, err := bulkWindow(now, "10:00", 600)
		assert.NoError(t, err)
	})

	t.Run("duration over the cap rejected", func(t *testing.T) {
		_, _, err := bulkWindow(now, "10:00", 601)
		assert.Error(t, err)
	})

	t.Run("malformed start time", func(t *testing.T) {
		for _, bad := range []string{"", "14", "25:00", "12:60", "ab:cd", "14:30:00"} {
			_, _, err := bulkWindow(now, bad, 0)
			assert.Error(t, err, "expected %q to be rejected", bad)
		}
	})
}

func TestMiniWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	start, end := miniWindow(now)

	assert.Equal(t, now.Add(2*time.Hour), start)
	assert.Equal(t, now.Add(6*time.Hour), end)
}
