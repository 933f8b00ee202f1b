package timespan

import (
	"fmt"
	"time"
)

// TimeSpan is an elapsed duration split into display fields.
type TimeSpan struct {
	Hours      int
	Minutes    int
	Seconds    int
	Hundredths int
}

// Format converts an elapsed millisecond count into a TimeSpan.
// Negative input is treated as zero.
func Format(ms int64) TimeSpan {
	if ms < 0 {
		ms = 0
	}
	totalSeconds := ms / 1000
	return TimeSpan{
		Hours:      int(totalSeconds / 3600),
		Minutes:    int(totalSeconds/60) % 60,
		Seconds:    int(totalSeconds % 60),
		Hundredths: int((ms % 1000) / 10),
	}
}

// FromDuration formats a time.Duration with millisecond precision.
func FromDuration(value time.Duration) TimeSpan {
	return Format(value.Milliseconds())
}

// Milliseconds reconstructs the millisecond count represented by the span.
func (span TimeSpan) Milliseconds() int64 {
	seconds := int64(span.Hours)*3600 + int64(span.Minutes)*60 + int64(span.Seconds)
	return seconds*1000 + int64(span.Hundredths)*10
}

// Stopwatch renders the span as [H:]MM:SS.hh. Hours are shown only when set.
func (span TimeSpan) Stopwatch() string {
	if span.Hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%02d", span.Hours, span.Minutes, span.Seconds, span.Hundredths)
	}
	return fmt.Sprintf("%02d:%02d.%02d", span.Minutes, span.Seconds, span.Hundredths)
}

// Split breaks whole seconds into hours, minutes and seconds.
func Split(totalSeconds int) (hours, minutes, seconds int) {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return totalSeconds / 3600, (totalSeconds % 3600) / 60, totalSeconds % 60
}

// Clock renders whole seconds as [HH:]MM:SS for countdown display.
func Clock(totalSeconds int) string {
	hours, minutes, seconds := Split(totalSeconds)
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
