package crop

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/pkg/constants"
)

// bulkWindow computes the bidding window for a BULK listing from a wall-clock
// "HH:MM" start. A start time already past today rolls over to the same time
// tomorrow.
func bulkWindow(now time.Time, startHHMM string, durationMinutes int) (time.Time, time.Time, error) {
	hour, minute, err := parseWallClock(startHHMM)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	duration := constants.BulkDefaultDuration
	if durationMinutes > 0 {
		duration = time.Duration(durationMinutes) * time.Minute
	}
	if duration > constants.BulkMaxDuration {
		return time.Time{}, time.Time{}, apperr.Validation("bidding duration cannot exceed 10 hours")
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !start.After(now) {
		start = start.Add(24 * time.Hour)
	}

	return start, start.Add(duration), nil
}

// miniWindow is fixed: opens two hours after creation, stays open for four.
func miniWindow(now time.Time) (time.Time, time.Time) {
	start := now.Add(constants.MiniStartDelay)
	return start, start.Add(constants.MiniWindow)
}

func parseWallClock(s string) (int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, apperr.Validation("start_time must be in HH:MM format")
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, apperr.Validation(fmt.Sprintf("invalid start_time %q", s))
	}
	return hour, minute, nil
}
