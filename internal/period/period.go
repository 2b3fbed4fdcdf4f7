// Package period turns textual period tokens into half-open time ranges.
package period

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrUnknownPeriod is returned for tokens outside the vocabulary.
	ErrUnknownPeriod = errors.New("unknown period")
	// ErrInvalidRange is returned for a custom range whose start is after its end.
	ErrInvalidRange = errors.New("invalid period range")
)

const (
	dateLayout    = "2006-01-02"
	rangeSep      = ".."
	maxDaysWindow = 3650
)

// Kind identifies the family of a period.
type Kind int

const (
	KindToday Kind = iota
	KindYesterday
	KindWeek
	KindMonth
	KindYear
	KindAll
	KindDays
	KindCustom
)

var namedKinds = map[string]Kind{
	"today":     KindToday,
	"yesterday": KindYesterday,
	"week":      KindWeek,
	"month":     KindMonth,
	"year":      KindYear,
	"all":       KindAll,
}

// Tokens lists the fixed vocabulary, in display order.
func Tokens() []string {
	return []string{"today", "yesterday", "week", "7d", "month", "year", "all"}
}

// TimeRange is the half-open interval [Start, End).
// A zero Start or End leaves that side unbounded.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && !t.Before(r.End) {
		return false
	}
	return true
}

// Before reports whether t is older than the lower bound.
func (r TimeRange) Before(t time.Time) bool {
	return !r.Start.IsZero() && t.Before(r.Start)
}

// Unbounded reports whether the range matches every timestamp.
func (r TimeRange) Unbounded() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Equal reports whether both bounds are the same instants.
func (r TimeRange) Equal(other TimeRange) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}

func (r TimeRange) String() string {
	start, end := "-inf", "+inf"
	if !r.Start.IsZero() {
		start = r.Start.Format(time.RFC3339)
	}
	if !r.End.IsZero() {
		end = r.End.Format(time.RFC3339)
	}
	return "[" + start + ", " + end + ")"
}

// Period is a parsed, immutable period token.
type Period struct {
	kind  Kind
	days  int
	from  civilDate
	to    civilDate
	token string
}

type civilDate struct {
	year  int
	month time.Month
	day   int
}

func (d civilDate) in(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

func (d civilDate) after(other civilDate) bool {
	if d.year != other.year {
		return d.year > other.year
	}
	if d.month != other.month {
		return d.month > other.month
	}
	return d.day > other.day
}

// Parse parses a period token. Tokens are case-insensitive.
func Parse(token string) (Period, error) {
	normalized := strings.ToLower(strings.TrimSpace(token))

	if kind, ok := namedKinds[normalized]; ok {
		return Period{kind: kind, token: normalized}, nil
	}

	if strings.HasSuffix(normalized, "d") {
		n, err := strconv.Atoi(strings.TrimSuffix(normalized, "d"))
		if err == nil && n >= 1 && n <= maxDaysWindow {
			return Period{kind: KindDays, days: n, token: normalized}, nil
		}
	}

	if from, to, ok := strings.Cut(normalized, rangeSep); ok {
		start, err := parseDate(from)
		if err != nil {
			return Period{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, token)
		}
		end, err := parseDate(to)
		if err != nil {
			return Period{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, token)
		}
		if start.after(end) {
			return Period{}, fmt.Errorf("%w: %q starts after it ends", ErrInvalidRange, token)
		}
		return Period{kind: KindCustom, from: start, to: end, token: normalized}, nil
	}

	return Period{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, token)
}

func parseDate(s string) (civilDate, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return civilDate{}, err
	}
	return civilDate{year: t.Year(), month: t.Month(), day: t.Day()}, nil
}

// Kind returns the period family.
func (p Period) Kind() Kind {
	return p.kind
}

func (p Period) String() string {
	return p.token
}

// Range resolves the period against now, using now's location for
// calendar boundaries. The upper bound of a relative period is the end of
// the current calendar unit, so it is never earlier than now.
func (p Period) Range(now time.Time) TimeRange {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	tomorrow := today.AddDate(0, 0, 1)

	switch p.kind {
	case KindToday:
		return TimeRange{Start: today, End: tomorrow}
	case KindYesterday:
		return TimeRange{Start: today.AddDate(0, 0, -1), End: today}
	case KindWeek:
		// Weeks start on Monday.
		offset := (int(now.Weekday()) + 6) % 7
		return TimeRange{Start: today.AddDate(0, 0, -offset), End: tomorrow}
	case KindMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return TimeRange{Start: start, End: start.AddDate(0, 1, 0)}
	case KindYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return TimeRange{Start: start, End: start.AddDate(1, 0, 0)}
	case KindDays:
		return TimeRange{Start: today.AddDate(0, 0, -(p.days - 1)), End: tomorrow}
	case KindCustom:
		return TimeRange{Start: p.from.in(loc), End: p.to.in(loc).AddDate(0, 0, 1)}
	default:
		return TimeRange{}
	}
}

// Resolve parses token and resolves it against now.
func Resolve(token string, now time.Time) (TimeRange, error) {
	p, err := Parse(token)
	if err != nil {
		return TimeRange{}, err
	}
	return p.Range(now), nil
}
