package event

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const monthNames = `(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sept|Sep|Oct|Nov|Dec)`

// datePattern is one entry in the ordered list ExtractDate walks through.
// resolve turns a submatch into a rendered date and the last calendar day it covers.
type datePattern struct {
	name    string
	re      *regexp.Regexp
	resolve func(m []string, now time.Time) (text string, last time.Time, ok bool)
}

// The order is significant: the first pattern with an upcoming match wins,
// even if a later pattern would match an earlier position in the text.
var datePatterns = []datePattern{
	{
		name:    "month-day-year",
		re:      regexp.MustCompile(`(?i)\b` + monthNames + `\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,\s*|\s+)(\d{4})\b`),
		resolve: resolveMonthDayYear,
	},
	{
		name:    "day-month-year",
		re:      regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+` + monthNames + `\.?,?\s+(\d{4})\b`),
		resolve: resolveDayMonthYear,
	},
	{
		name:    "month-day-range",
		re:      regexp.MustCompile(`(?i)\b` + monthNames + `\.?\s+(\d{1,2})\s*[-–—]\s*(\d{1,2})(?:,?\s+(\d{4}))?\b`),
		resolve: resolveMonthRange,
	},
	{
		name:    "iso",
		re:      regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})(?:\b|T)`),
		resolve: resolveISO,
	},
}

// ExtractDate finds the first upcoming date in free text.
// It returns the date rendered as "January 2" (or "January 2-5" for a range)
// and true, or DateUnscheduled and false when nothing upcoming is found.
// A date on the same calendar day as now counts as upcoming.
func ExtractDate(text string, now time.Time) (string, bool) {
	today := startOfDay(now)

	for _, p := range datePatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			rendered, last, ok := p.resolve(m, now)
			if !ok {
				continue
			}
			if last.Before(today) {
				continue
			}
			return rendered, true
		}
	}

	return DateUnscheduled, false
}

func resolveMonthDayYear(m []string, now time.Time) (string, time.Time, bool) {
	return resolveDate(m[1], m[2], m[3], now)
}

func resolveDayMonthYear(m []string, now time.Time) (string, time.Time, bool) {
	return resolveDate(m[2], m[1], m[3], now)
}

func resolveISO(m []string, now time.Time) (string, time.Time, bool) {
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 {
		return "", time.Time{}, false
	}
	d, ok := calendarDate(year, time.Month(month), day, now.Location())
	if !ok {
		return "", time.Time{}, false
	}
	return d.Format("January 2"), d, true
}

func resolveMonthRange(m []string, now time.Time) (string, time.Time, bool) {
	month, ok := parseMonth(m[1])
	if !ok {
		return "", time.Time{}, false
	}
	first, _ := strconv.Atoi(m[2])
	last, _ := strconv.Atoi(m[3])
	if last < first {
		return "", time.Time{}, false
	}
	year := now.Year()
	if m[4] != "" {
		year, _ = strconv.Atoi(m[4])
	}
	start, ok := calendarDate(year, month, first, now.Location())
	if !ok {
		return "", time.Time{}, false
	}
	end, ok := calendarDate(year, month, last, now.Location())
	if !ok {
		return "", time.Time{}, false
	}
	return fmt.Sprintf("%s-%d", start.Format("January 2"), end.Day()), end, true
}

func resolveDate(monthText, dayText, yearText string, now time.Time) (string, time.Time, bool) {
	month, ok := parseMonth(monthText)
	if !ok {
		return "", time.Time{}, false
	}
	day, _ := strconv.Atoi(dayText)
	year, _ := strconv.Atoi(yearText)
	d, ok := calendarDate(year, month, day, now.Location())
	if !ok {
		return "", time.Time{}, false
	}
	return d.Format("January 2"), d, true
}

// calendarDate rejects days that time.Date would silently roll over, like February 30.
func calendarDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if day < 1 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func parseMonth(name string) (time.Month, bool) {
	name = strings.ToLower(strings.TrimSuffix(name, "."))
	if len(name) < 3 {
		return 0, false
	}
	for m := time.January; m <= time.December; m++ {
		if strings.HasPrefix(strings.ToLower(m.String()), name[:3]) {
			return m, true
		}
	}
	return 0, false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate turns a rendered date ("March 15", "Mar 15", "March 15-17") back
// into a time, using the first day of a range. Rendered dates are always
// upcoming, so a month and day already past in now's year belong to the next.
// Returns time.Time{} (zero value) for DateUnscheduled or unrecognized text.
func ParseDate(dateText string, now time.Time) time.Time {
	dateText = strings.TrimSpace(dateText)
	if dateText == "" || dateText == DateUnscheduled {
		return time.Time{}
	}

	if i := strings.IndexAny(dateText, "-–—"); i > 0 {
		dateText = strings.TrimSpace(dateText[:i])
	}

	for _, layout := range []string{"January 2", "Jan 2"} {
		t, err := time.Parse(layout, dateText)
		if err == nil {
			parsed := time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
			if parsed.Before(startOfDay(now)) {
				parsed = parsed.AddDate(1, 0, 0)
			}
			return parsed
		}
	}

	return time.Time{}
}
