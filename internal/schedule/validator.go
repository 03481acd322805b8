package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Violation explains why a requested slot was rejected and what the caller
// may book instead.
type Violation struct {
	Reason        string   `json:"reason"`
	Weekday       string   `json:"weekday,omitempty"`
	OpenWindows   string   `json:"open_windows,omitempty"`
	AllowedLabels []string `json:"allowed_labels"`
}

func (v *Violation) Error() string {
	if v.Weekday == "" {
		return fmt.Sprintf("schedule: %s", v.Reason)
	}
	return fmt.Sprintf("schedule: %s (%s: %s)", v.Reason, v.Weekday, v.OpenWindows)
}

// Validator decides whether a (date, time) pair falls inside open hours.
// All checks happen in one fixed business timezone; caller-reported
// timezones are display metadata only.
type Validator struct {
	loc *time.Location
}

// NewValidator anchors a validator to the business timezone. An unknown
// zone name falls back to UTC.
func NewValidator(timezone string) *Validator {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return &Validator{loc: loc}
}

// Location exposes the business timezone for callers that format times.
func (v *Validator) Location() *time.Location {
	return v.loc
}

// Validate returns nil when the requested slot is bookable, or a
// *Violation when it is not. Empty or unparseable input rejects.
func (v *Validator) Validate(date, timeValue string) error {
	timeValue = strings.TrimSpace(timeValue)
	if timeValue == "" {
		return &Violation{
			Reason:        "time is required",
			AllowedLabels: AllowedSlotLabels(),
		}
	}

	// Named labels are pre-approved shorthand and bypass weekday rules.
	if IsSlotLabel(timeValue) {
		return nil
	}

	day, err := v.parseDate(date)
	if err != nil {
		return &Violation{
			Reason:        fmt.Sprintf("invalid date %q, expected %s", date, DateLayout),
			AllowedLabels: AllowedSlotLabels(),
		}
	}

	minute, ok := ParseClock(timeValue)
	if !ok {
		return &Violation{
			Reason:        fmt.Sprintf("invalid time %q, expected HH:MM", timeValue),
			AllowedLabels: AllowedSlotLabels(),
		}
	}

	weekday := day.Weekday()
	windows := openHours[weekday]
	for _, w := range windows {
		if w.contains(minute) {
			return nil
		}
	}

	reason := "requested time is outside open hours"
	if weekday == time.Sunday {
		reason = "closed on Sundays"
	}
	return &Violation{
		Reason:        reason,
		Weekday:       weekday.String(),
		OpenWindows:   WindowDescription(weekday),
		AllowedLabels: AllowedSlotLabels(),
	}
}

func (v *Validator) parseDate(date string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(date), v.loc)
}

// ParseClock converts a clock string to minutes since midnight. It accepts
// 24-hour "15:04" and 12-hour forms like "8pm" or "8:30 PM".
func ParseClock(value string) (int, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"15:04", "3:04pm", "3:04 pm", "3pm", "3 pm"} {
		if t, err := time.Parse(layout, strings.ToLower(value)); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}
