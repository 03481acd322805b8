package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoSlot is returned when no bookable slot exists inside the search horizon.
var ErrNoSlot = errors.New("schedule: no available slot within search horizon")

// Slot is a concrete (calendar date, clock time) pair.
type Slot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

func (s Slot) String() string {
	return fmt.Sprintf("%s %s", s.Date, s.Time)
}

const (
	// openingMinute is where every forward jump lands: the start of the
	// evening block. The finder never proposes times in the small-hours
	// spillover, so its candidates are unambiguous about which night
	// they belong to.
	openingMinute = 18 * 60

	// horizonDays bounds the forward scan.
	horizonDays = 7

	// stepMinutes advances within an open window before jumping days.
	stepMinutes = 60
)

// Finder proposes the next bookable slot after a rejected or occupied one.
type Finder struct {
	validator *Validator
}

// NewFinder builds a finder that only returns validator-approved slots.
func NewFinder(validator *Validator) *Finder {
	if validator == nil {
		panic("schedule: validator required")
	}
	return &Finder{validator: validator}
}

// NextAvailable walks forward from the given slot to the next candidate the
// validator accepts. The scan is bounded: after horizonDays it reports
// ErrNoSlot rather than continuing.
func (f *Finder) NextAvailable(from Slot) (Slot, error) {
	day, err := time.ParseInLocation(DateLayout, from.Date, f.validator.Location())
	if err != nil {
		return Slot{}, fmt.Errorf("schedule: invalid date %q: %w", from.Date, err)
	}

	minute, ok := ParseClock(from.Time)
	if !ok {
		// Labels and unparseable times both restart from the evening boundary.
		minute = openingMinute - 1
	}

	candidate := f.firstCandidate(day, minute)
	deadline := day.AddDate(0, 0, horizonDays)

	for !candidate.After(deadline) {
		slot := Slot{
			Date: candidate.Format(DateLayout),
			Time: formatMinute(candidate.Hour()*60 + candidate.Minute()),
		}
		if f.validator.Validate(slot.Date, slot.Time) == nil {
			return slot, nil
		}
		candidate = f.advance(candidate)
	}

	return Slot{}, ErrNoSlot
}

// firstCandidate jumps to the nearest business-hours boundary:
// before opening on the same day means opening that day, anything later
// means opening on the next day.
func (f *Finder) firstCandidate(day time.Time, minute int) time.Time {
	if minute < openingMinute {
		return atMinute(day, openingMinute)
	}
	next := minute + stepMinutes
	if next <= 23*60+59 {
		return atMinute(day, next)
	}
	return atMinute(day.AddDate(0, 0, 1), openingMinute)
}

// advance moves one step inside the evening block, then jumps to the next
// day's opening once the block is exhausted.
func (f *Finder) advance(candidate time.Time) time.Time {
	minute := candidate.Hour()*60 + candidate.Minute()
	next := minute + stepMinutes
	if next <= 23*60+59 {
		return atMinute(candidate, next)
	}
	return atMinute(candidate.AddDate(0, 0, 1), openingMinute)
}

func atMinute(day time.Time, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minute/60, minute%60, 0, 0, day.Location())
}
