package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const zeroTimespan = "0000:00:00.00"

// parseTimespan разбирает CMITimespan (HHHH:MM:SS.SS)
func parseTimespan(v string) (time.Duration, bool) {
	if !timespan(v) {
		return 0, false
	}
	parts := strings.Split(v, ":")
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	seconds, _ := strconv.ParseFloat(parts[2], 64)

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(math.Round(seconds*100))*10*time.Millisecond, true
}

func formatTimespan(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hundredths := int64(d / (10 * time.Millisecond))
	seconds := hundredths / 100
	hundredths %= 100
	minutes := seconds / 60
	seconds %= 60
	hours := minutes / 60
	minutes %= 60

	return fmt.Sprintf("%04d:%02d:%02d.%02d", hours, minutes, seconds, hundredths)
}

// addTimespan складывает total_time и session_time
func addTimespan(total, session string) string {
	t, ok := parseTimespan(total)
	if !ok {
		t = 0
	}
	s, ok := parseTimespan(session)
	if !ok {
		return formatTimespan(t)
	}

	return formatTimespan(t + s)
}
