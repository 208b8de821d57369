package extract

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const isoDate = "2006-01-02"

// normalizeDate turns a model answer (and, failing that, the raw user
// message) into a YYYY-MM-DD string. Relative words resolve against the
// injected clock so tests can pin "yesterday" to an exact date.
func (e *Extractor) normalizeDate(clean, original string) (string, bool) {
	if t, err := time.Parse(isoDate, clean); err == nil {
		return t.Format(isoDate), true
	}
	if t, ok := e.parseNatural(clean); ok {
		return t.Format(isoDate), true
	}
	if t, ok := e.parseNatural(original); ok {
		return t.Format(isoDate), true
	}
	return "", false
}

func (e *Extractor) parseNatural(s string) (time.Time, bool) {
	lower := strings.ToLower(strings.TrimSpace(s))
	now := e.now()
	switch lower {
	case "today", "اليوم":
		return now, true
	case "yesterday", "أمس", "امس":
		return now.AddDate(0, 0, -1), true
	case "tomorrow", "غدا", "غداً":
		return now.AddDate(0, 0, 1), true
	}
	if t, ok := lastWeekday(lower, now); ok {
		return t, true
	}
	if t, err := dateparse.ParseAny(s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// lastWeekday resolves "last tuesday" to the most recent such day strictly
// before now.
func lastWeekday(lower string, now time.Time) (time.Time, bool) {
	name, ok := strings.CutPrefix(lower, "last ")
	if !ok {
		return time.Time{}, false
	}
	wd, ok := weekdays[strings.TrimSpace(name)]
	if !ok {
		return time.Time{}, false
	}
	delta := int(now.Weekday() - wd)
	if delta <= 0 {
		delta += 7
	}
	return now.AddDate(0, 0, -delta), true
}
