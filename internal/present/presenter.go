package present

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jpalmerr/electionboard/internal/format"
	"github.com/jpalmerr/electionboard/results"
)

// NoRiding is the selected riding id before any riding has been shown.
const NoRiding = -1

const defaultCards = 4

// ErrRidingNotFound is returned by [Presenter.Select] for an id that is not
// part of the latest payload.
var ErrRidingNotFound = errors.New("riding not found")

// Sink receives every view the presenter renders.
//
// Publish is called with the presenter's lock held and must not block.
type Sink interface {
	Publish(View)
}

// Options tunes a [Presenter]. Zero fields use the defaults.
type Options struct {
	// TotalSeats is the legislature size used by the seats chart. Default 125.
	TotalSeats int

	// Cards is the number of per-party summary cards. Default 4.
	Cards int

	// Location is used to read feed timestamps that carry no zone.
	Location *time.Location

	// Now returns the current time. Default time.Now.
	Now func() time.Time
}

// Presenter turns results payloads into views.
//
// Presenter owns the dashboard's UI state: the selected riding, the riding
// list of the latest payload and the last rendered view. It is safe for
// concurrent use; the poll loop and user selections are serialised.
type Presenter struct {
	sink       Sink
	formatter  *format.Formatter
	logger     *slog.Logger
	totalSeats int
	location   *time.Location
	now        func() time.Time

	mu       sync.Mutex
	selected int
	ridings  []results.Riding
	cards    []Card
	view     View
	rendered bool
}

// New creates a [Presenter] that publishes into sink.
func New(sink Sink, formatter *format.Formatter, opts Options, logger *slog.Logger) *Presenter {
	if opts.TotalSeats <= 0 {
		opts.TotalSeats = DefaultTotalSeats
	}
	if opts.Cards <= 0 {
		opts.Cards = defaultCards
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Presenter{
		sink:       sink,
		formatter:  formatter,
		logger:     logger,
		totalSeats: opts.TotalSeats,
		location:   opts.Location,
		now:        opts.Now,
		selected:   NoRiding,
		cards:      make([]Card, opts.Cards),
	}
}

// OnResultsLoaded renders a freshly fetched payload and publishes the view.
//
// The payload replaces the previous one wholesale. Steps run in order:
// party ranking and standings, riding list, overview widgets and cards,
// chart series, riding selector and detail.
func (p *Presenter) OnResultsLoaded(r results.Results) View {
	p.mu.Lock()
	defer p.mu.Unlock()

	stats := r.Statistics
	previous := p.view

	view := View{
		Standings:  p.standings(RankParties(stats.Parties)),
		Final:      stats.Final,
		RenderedAt: p.now(),
	}

	p.ridings = r.Ridings

	view.Overview = p.overview(stats, previous.Overview)
	view.Cards = p.updateCards(stats.Parties)

	view.Seats = SeatSeries(stats.Parties, p.totalSeats)
	view.Votes = VoteSeries(stats.Parties)

	view.Detail = previous.Detail
	if riding, ok := p.defaultRiding(); ok {
		p.selected = riding.ID
		detail := p.detail(riding)
		view.Detail = &detail
	}
	view.Ridings = p.options()

	p.view = view
	p.rendered = true
	if p.sink != nil {
		p.sink.Publish(view)
	}
	return view
}

// Select shows the riding with the given id and records it as the selection.
// The updated view is published when a payload has already been rendered.
func (p *Presenter) Select(id int) (Detail, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := slices.IndexFunc(p.ridings, func(r results.Riding) bool { return r.ID == id })
	if idx < 0 {
		return Detail{}, fmt.Errorf("riding %d: %w", id, ErrRidingNotFound)
	}

	p.selected = id
	detail := p.detail(p.ridings[idx])

	if p.rendered {
		p.view.Detail = &detail
		p.view.Ridings = p.options()
		if p.sink != nil {
			p.sink.Publish(p.view)
		}
	}
	return detail, nil
}

// Selected returns the selected riding id, or [NoRiding].
func (p *Presenter) Selected() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

// View returns the last rendered view. ok is false before the first payload.
func (p *Presenter) View() (view View, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view, p.rendered
}

// defaultRiding picks the riding to display: the selected one while it is
// still in the payload, otherwise the first riding. ok is false when the
// payload has no ridings.
func (p *Presenter) defaultRiding() (results.Riding, bool) {
	if p.selected != NoRiding {
		for _, r := range p.ridings {
			if r.ID == p.selected {
				return r, true
			}
		}
	}
	if len(p.ridings) == 0 {
		return results.Riding{}, false
	}
	return p.ridings[0], true
}

func (p *Presenter) standings(ranked []results.Party) []Standing {
	rows := make([]Standing, len(ranked))
	for i, party := range ranked {
		rows[i] = Standing{
			Rank:         i + 1,
			Name:         party.Name,
			Abbreviation: format.SanitizePartyAbbreviation(party.Abbreviation),
			VoteShare:    format.Percent(party.VoteShare, 4),
			Seats:        party.Leading,
		}
	}
	return rows
}

// updateCards rewrites card i from party i (feed order) when that party leads
// somewhere. Other cards keep their previous content.
func (p *Presenter) updateCards(parties []results.Party) []Card {
	n := min(len(p.cards), len(parties))
	for i := 0; i < n; i++ {
		party := parties[i]
		if party.LeadingRate <= 0 {
			continue
		}
		p.cards[i] = Card{
			Set:          true,
			Abbreviation: format.SanitizePartyAbbreviation(party.Abbreviation),
			Seats:        party.Leading,
			VoteBarWidth: party.VoteShare,
		}
	}
	return slices.Clone(p.cards)
}

func (p *Presenter) overview(stats results.Statistics, previous Overview) Overview {
	o := Overview{
		Stations: Progress{
			Count: p.formatter.Int(stats.StationsReported),
			Width: stats.StationsReportedRate,
		},
		Ridings: Progress{
			Count: p.formatter.Int(stats.RidingsWithResults),
			Width: 100 - stats.RidingsWithoutRate,
		},
		VotesCast: Progress{
			Count: p.formatter.Int(stats.VotesCast),
		},
		ValidVotes: Progress{
			Count: p.formatter.Int(stats.ValidVotes),
			Width: shareOf(stats.ValidVotes, stats.VotesCast),
		},
		RejectedVotes: Progress{
			Count: p.formatter.Int(stats.RejectedVotes),
			Width: shareOf(stats.RejectedVotes, stats.VotesCast),
		},
		Participation: format.RateLabel(stats.Turnout, -1),
		UpdatedDate:   previous.UpdatedDate,
		UpdatedTime:   previous.UpdatedTime,
	}
	if stats.Turnout.Known {
		o.VotesCast.Width = stats.Turnout.Value
	}

	updated, err := format.ParseTimestamp(stats.UpdatedAt, p.location)
	if err != nil {
		p.logger.Debug("keeping previous update time", "value", stats.UpdatedAt, "error", err)
		return o
	}
	o.UpdatedDate = p.formatter.Date(updated)
	o.UpdatedTime = p.formatter.Clock(updated)
	return o
}

// shareOf returns part as a percentage of whole, or 0 when whole is 0.
func shareOf(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) * 100 / float64(whole)
}

func (p *Presenter) options() []RidingOption {
	opts := make([]RidingOption, len(p.ridings))
	for i, r := range p.ridings {
		opts[i] = RidingOption{
			ID:       r.ID,
			Name:     r.Name,
			Selected: r.ID == p.selected,
		}
	}
	return opts
}

func (p *Presenter) detail(r results.Riding) Detail {
	rows := make([]CandidateRow, len(r.Candidates))
	for i, c := range r.Candidates {
		row := CandidateRow{
			Rank:      i + 1,
			Party:     format.SanitizePartyAbbreviation(c.PartyAbbreviation),
			Name:      c.FirstName + " " + c.LastName,
			Votes:     p.formatter.Int(c.Votes),
			VoteShare: format.Percent(c.VoteShare, 2),
		}
		if c.Lead > 0 {
			row.Lead = p.formatter.Int(c.Lead)
		}
		rows[i] = row
	}

	return Detail{
		RidingID:           r.ID,
		Name:               r.Name,
		Candidates:         rows,
		StationsComplete:   p.formatter.Int(r.StationsComplete),
		StationsTotal:      p.formatter.Int(r.StationsTotal),
		RegisteredElectors: p.formatter.Int(r.RegisteredElectors),
		Participation:      format.RateLabel(r.Turnout, 2),
		Final:              r.Final,
	}
}
