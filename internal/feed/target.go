package feed

import (
	"strconv"
	"strings"
	"time"
)

// cacheBustParam is the query parameter carrying the request time.
const cacheBustParam = "_"

// Target picks the URL to poll.
//
// Before the polls close the live file does not exist yet, so the archive of
// a past election is shown instead.
type Target struct {
	LiveURL    string
	ArchiveURL string
	PollClose  time.Time
}

// Live reports whether now is strictly after the poll-close cutoff.
func (t Target) Live(now time.Time) bool {
	return now.After(t.PollClose)
}

// URLAt returns the URL to request at now, with a cache-busting parameter
// holding now in Unix milliseconds.
func (t Target) URLAt(now time.Time) string {
	base := t.ArchiveURL
	if t.Live(now) {
		base = t.LiveURL
	}

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + cacheBustParam + "=" + strconv.FormatInt(now.UnixMilli(), 10)
}
