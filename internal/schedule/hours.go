package schedule

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar format appointment requests use.
const DateLayout = "2006-01-02"

// window is a closed range of minutes since midnight.
type window struct {
	start int
	end   int
}

func (w window) contains(minute int) bool {
	return minute >= w.start && minute <= w.end
}

func (w window) String() string {
	return fmt.Sprintf("%s-%s", formatMinute(w.start), formatMinute(w.end))
}

// openHours maps each weekday to its accepted clock-time windows.
// Weekdays keep the evening block plus the small-hours spillover of the
// previous night; only the time of day is checked, never the date rollover.
var openHours = map[time.Weekday][]window{
	time.Monday:    {{18 * 60, 23*60 + 59}, {0, 3 * 60}},
	time.Tuesday:   {{18 * 60, 23*60 + 59}, {0, 3 * 60}},
	time.Wednesday: {{18 * 60, 23*60 + 59}, {0, 3 * 60}},
	time.Thursday:  {{18 * 60, 23*60 + 59}, {0, 3 * 60}},
	time.Friday:    {{18 * 60, 23*60 + 59}, {0, 3 * 60}},
	time.Saturday:  {{18 * 60, 22 * 60}},
	time.Sunday:    nil,
}

// slotLabels are pre-approved shorthand ranges accepted on any weekday,
// Sundays included.
var slotLabels = []string{"6pm-9pm", "9pm-12am", "12am-3am"}

// AllowedSlotLabels returns the shorthand labels callers may book directly.
func AllowedSlotLabels() []string {
	out := make([]string, len(slotLabels))
	copy(out, slotLabels)
	return out
}

// IsSlotLabel reports whether the value matches a named slot label,
// ignoring case and internal spaces.
func IsSlotLabel(value string) bool {
	normalized := normalizeLabel(value)
	for _, label := range slotLabels {
		if normalized == label {
			return true
		}
	}
	return false
}

func normalizeLabel(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, " ", "")
	value = strings.ReplaceAll(value, "\t", "")
	return value
}

// WindowDescription renders the open windows for a weekday, e.g.
// "18:00-23:59, 00:00-03:00". Sundays render as "closed".
func WindowDescription(day time.Weekday) string {
	windows := openHours[day]
	if len(windows) == 0 {
		return "closed"
	}
	parts := make([]string, 0, len(windows))
	for _, w := range windows {
		parts = append(parts, w.String())
	}
	return strings.Join(parts, ", ")
}

func formatMinute(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
