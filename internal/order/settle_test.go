package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
)

func TestSettleStock(t *testing.T) {
	t.Run("partial acceptance leaves stock", func(t *testing.T) {
		remaining, sold, err := settleStock(1000, 250)
		require.NoError(t, err)
		assert.Equal(t, int64(750), remaining)
		assert.False(t, sold)
	})

	t.Run("exact acceptance sells out", func(t *testing.T) {
		remaining, sold, err := settleStock(500, 500)
		require.NoError(t, err)
		assert.Equal(t, int64(0), remaining)
		assert.True(t, sold)
	})

	t.Run("over-acceptance rejected", func(t *testing.T) {
		_, _, err := settleStock(200, 250)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("sequential acceptances drain to zero", func(t *testing.T) {
		available := int64(1000)
		for _, qty := range []int64{250, 500, 250} {
			remaining, _, err := settleStock(available, qty)
			require.NoError(t, err)
			available = remaining
		}
		assert.Equal(t, int64(0), available)

		_, _, err := settleStock(available, 100)
		assert.Error(t, err, "a sold-out listing accepts nothing further")
	})
}
