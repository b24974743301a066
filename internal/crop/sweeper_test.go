package crop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSweepTransition(t *testing.T) {
	tests := []struct {
		name          string
		attemptNumber int
		bidCount      int64
		want          sweepAction
	}{
		{"bids on first attempt close the window", 1, 3, sweepCloseWindow},
		{"bids on second attempt close the window", 2, 1, sweepCloseWindow},
		{"no bids on first attempt reschedules", 1, 0, sweepReschedule},
		{"no bids on second attempt retires", 2, 0, sweepRetire},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sweepTransition(tt.attemptNumber, tt.bidCount))
		})
	}
}
