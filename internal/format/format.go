// Package format holds the small pure helpers used to turn feed values into
// display strings: party abbreviations, percentages, locale-aware counts and
// update timestamps.
package format

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jpalmerr/electionboard/results"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "fr-CA"

// Unavailable is displayed in place of a rate the feed has not published yet.
const Unavailable = "—"

// partyAbbreviations maps the feed's historical multi-variant abbreviations
// (bilingual or merged-party names) to a single short form. Keys are upper-case.
var partyAbbreviations = map[string]string{
	"P.L.Q./Q.L.P.":   "P.L.Q.",
	"C.A.Q.-É.F.L.":   "C.A.Q.",
	"P.C.Q./C.P.Q.":   "P.C.Q.",
	"É.A.P. - P.C.Q.": "P.C.Q.",
	"P.V.Q./G.P.Q.":   "P.V.Q.",
	"U.C.Q./Q.C.U.":   "U.C.Q.",
	"O.N. - P.I.Q.":   "O.N.",
}

// SanitizePartyAbbreviation returns the canonical short form of a party
// abbreviation. The lookup is case-insensitive; unknown abbreviations are
// returned upper-cased. Applying it twice yields the same result as once.
func SanitizePartyAbbreviation(raw string) string {
	upper := strings.ToUpper(raw)
	if short, ok := partyAbbreviations[upper]; ok {
		return short
	}
	return upper
}

// Percent formats v with a fixed number of decimals followed by "%".
func Percent(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64) + "%"
}

// RateLabel formats a feed rate as a percentage, or [Unavailable] when the
// feed has not published it. A negative decimals value prints the shortest
// representation.
func RateLabel(r results.Rate, decimals int) string {
	if !r.Known {
		return Unavailable
	}
	return Percent(r.Value, decimals)
}

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses the feed's iso8601DateMAJ field. The feed may use a
// decimal comma for fractional seconds. Values without a zone are read in loc
// (UTC when loc is nil).
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if loc == nil {
		loc = time.UTC
	}

	s = strings.Replace(s, ",", ".", 1)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// Formatter renders counts and dates for one locale.
type Formatter struct {
	printer  *message.Printer
	location *time.Location
}

// New creates a [Formatter] for the given BCP 47 locale (e.g. "fr-CA", "en").
// Dates are shown in loc; a nil loc keeps each timestamp's own offset.
func New(locale string, loc *time.Location) (*Formatter, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return &Formatter{
		printer:  message.NewPrinter(tag),
		location: loc,
	}, nil
}

// Int formats n with the locale's digit grouping.
func (f *Formatter) Int(n int) string {
	return f.printer.Sprintf("%d", n)
}

// Date formats the calendar date of t.
func (f *Formatter) Date(t time.Time) string {
	return f.in(t).Format("2006-01-02")
}

// Clock formats the time of day of t.
func (f *Formatter) Clock(t time.Time) string {
	return f.in(t).Format("15:04:05")
}

func (f *Formatter) in(t time.Time) time.Time {
	if f.location == nil {
		return t
	}
	return t.In(f.location)
}
