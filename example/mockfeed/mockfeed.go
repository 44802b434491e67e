// Package mockfeed serves a simulated election night as a JSONP results feed.
//
// Counting progresses with wall-clock time: ridings start reporting at
// staggered moments, vote counts grow and the vote split drifts from an
// early to a late trend so that leads change during the night.
package mockfeed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/jpalmerr/electionboard/results"
)

// timestampLayout mimics the feed's decimal-comma timestamps.
const timestampLayout = "2006-01-02T15:04:05,000-07:00"

type party struct {
	id           int
	abbreviation string
	name         string
}

var parties = []party{
	{1, "P.L.Q./Q.L.P.", "Parti libéral du Québec/Quebec Liberal Party"},
	{2, "C.A.Q.-É.F.L.", "Coalition avenir Québec - L'équipe François Legault"},
	{3, "Q.S.", "Québec solidaire"},
	{4, "P.Q.", "Parti québécois"},
	{5, "P.V.Q./G.P.Q.", "Parti vert du Québec/Green Party of Québec"},
}

var ridingNames = []string{
	"Abitibi-Est", "Abitibi-Ouest", "Acadie", "Anjou-Louis-Riel", "Argenteuil",
	"Arthabaska", "Beauce-Nord", "Beauce-Sud", "Beauharnois", "Bellechasse",
	"Berthier", "Bertrand", "Blainville", "Bonaventure", "Borduas",
	"Bourassa-Sauvé", "Bourget", "Brome-Missisquoi", "Chambly", "Champlain",
}

var (
	firstNames = []string{"Marie", "Pierre", "Sophie", "Guy", "Julie", "Marc", "Isabelle", "Luc"}
	lastNames  = []string{"Tremblay", "Gagnon", "Roy", "Côté", "Bouchard", "Gauthier", "Morin", "Lavoie", "Fortin", "Dufour"}
)

type candidate struct {
	id        int
	party     party
	firstName string
	lastName  string
	early     float64
	late      float64
}

type riding struct {
	id         int
	name       string
	stations   int
	electors   int
	turnout    float64
	offset     float64
	candidates []candidate
}

// Simulation is a deterministic election night.
type Simulation struct {
	mu       sync.Mutex
	start    time.Time
	duration time.Duration
	now      func() time.Time
	ridings  []riding
	callback string
}

// Option configures a [Simulation].
type Option func(*Simulation)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Simulation) {
		s.now = now
	}
}

// WithCallback sets the JSONP callback name. Defaults to "callback".
func WithCallback(name string) Option {
	return func(s *Simulation) {
		s.callback = name
	}
}

// New creates a simulation that reaches final results duration after start.
// The same seed always produces the same night.
func New(start time.Time, duration time.Duration, seed uint64, opts ...Option) *Simulation {
	s := &Simulation{
		start:    start,
		duration: duration,
		now:      time.Now,
		callback: "callback",
	}
	for _, opt := range opts {
		opt(s)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	nextCandidate := 1
	for i, name := range ridingNames {
		r := riding{
			id:       378 + i,
			name:     name,
			stations: 150 + rng.IntN(100),
			electors: 35000 + rng.IntN(25000),
			turnout:  0.55 + rng.Float64()*0.2,
			offset:   rng.Float64() * 0.5,
		}
		for _, p := range parties {
			r.candidates = append(r.candidates, candidate{
				id:        nextCandidate,
				party:     p,
				firstName: firstNames[rng.IntN(len(firstNames))],
				lastName:  lastNames[rng.IntN(len(lastNames))],
				early:     rng.Float64(),
				late:      rng.Float64(),
			})
			nextCandidate++
		}
		s.ridings = append(s.ridings, r)
	}
	return s
}

// progress returns the share of the night elapsed at now, in [0,1].
func (s *Simulation) progress(now time.Time) float64 {
	if s.duration <= 0 {
		return 1
	}
	p := float64(now.Sub(s.start)) / float64(s.duration)
	return math.Max(0, math.Min(1, p))
}

// Results returns the payload at the current simulated time.
func (s *Simulation) Results() results.Results {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	night := s.progress(now)
	stamp := now.Format(timestampLayout)

	var (
		out          results.Results
		partyVotes   = make(map[int]int)
		partyLeading = make(map[int]int)
		stats        = &out.Statistics
	)

	for _, r := range s.ridings {
		// ridings start late by their offset and catch up by the end
		p := math.Max(0, math.Min(1, (night-r.offset)/(1-r.offset)))

		riding := results.Riding{
			ID:                 r.id,
			Name:               r.name,
			UpdatedAt:          stamp,
			StationsTotal:      r.stations,
			StationsComplete:   int(math.Round(p * float64(r.stations))),
			RegisteredElectors: r.electors,
			Final:              p >= 1,
		}
		riding.VotesCast = int(math.Round(p * r.turnout * float64(r.electors)))
		riding.RejectedVotes = riding.VotesCast / 100
		riding.ValidVotes = riding.VotesCast - riding.RejectedVotes
		if riding.VotesCast > 0 {
			riding.Turnout = results.KnownRate(round2(100 * float64(riding.VotesCast) / (p * float64(r.electors))))
			riding.RejectedRate = round2(100 * float64(riding.RejectedVotes) / float64(riding.VotesCast))
			riding.ValidRate = round2(100 - riding.RejectedRate)
		}

		riding.Candidates = splitVotes(r.candidates, p, riding.ValidVotes)
		for _, c := range riding.Candidates {
			partyVotes[c.PartyID] += c.Votes
		}
		if riding.VotesCast > 0 {
			partyLeading[riding.Candidates[0].PartyID]++
			stats.RidingsWithResults++
		}

		stats.PollingStations += riding.StationsTotal
		stats.StationsReported += riding.StationsComplete
		stats.RegisteredElectors += riding.RegisteredElectors
		stats.VotesCast += riding.VotesCast
		stats.RejectedVotes += riding.RejectedVotes
		stats.ValidVotes += riding.ValidVotes

		out.Ridings = append(out.Ridings, riding)
	}

	stats.Final = night >= 1
	stats.UpdatedAt = stamp
	stats.Ridings = len(s.ridings)
	stats.RidingsWithoutResults = stats.Ridings - stats.RidingsWithResults
	stats.RidingsWithoutRate = round2(100 * float64(stats.RidingsWithoutResults) / float64(stats.Ridings))
	stats.StationsReportedRate = round2(100 * float64(stats.StationsReported) / float64(stats.PollingStations))
	if stats.VotesCast > 0 {
		stats.Turnout = results.KnownRate(round2(100 * float64(stats.VotesCast) / (night * float64(stats.RegisteredElectors))))
	}

	for _, p := range parties {
		party := results.Party{
			ID:           p.id,
			Abbreviation: p.abbreviation,
			Name:         p.name,
			Votes:        partyVotes[p.id],
			Leading:      partyLeading[p.id],
			LeadingRate:  round2(100 * float64(partyLeading[p.id]) / float64(stats.Ridings)),
		}
		if stats.ValidVotes > 0 {
			party.VoteShare = round2(100 * float64(party.Votes) / float64(stats.ValidVotes))
		}
		stats.Parties = append(stats.Parties, party)
	}

	return out
}

// splitVotes shares valid votes between candidates, blending the early and
// late trends by progress p. Candidates are returned by votes, descending.
func splitVotes(cands []candidate, p float64, valid int) []results.Candidate {
	weights := make([]float64, len(cands))
	total := 0.0
	for i, c := range cands {
		weights[i] = (1-p)*c.early + p*c.late
		total += weights[i]
	}

	out := make([]results.Candidate, len(cands))
	for i, c := range cands {
		votes := 0
		if total > 0 {
			votes = int(float64(valid) * weights[i] / total)
		}
		out[i] = results.Candidate{
			ID:                c.id,
			PartyAbbreviation: c.party.abbreviation,
			PartyID:           c.party.id,
			FirstName:         c.firstName,
			LastName:          c.lastName,
			Votes:             votes,
		}
		if valid > 0 {
			out[i].VoteShare = round2(100 * float64(votes) / float64(valid))
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Votes > out[j].Votes })
	if len(out) > 1 && out[0].Votes > 0 {
		out[0].Lead = out[0].Votes - out[1].Votes
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ServeHTTP writes the current payload as a JSONP script.
func (s *Simulation) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	payload, err := json.Marshal(s.Results())
	if err != nil {
		slog.Error("failed to encode results", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := fmt.Fprintf(w, "%s(%s);", s.callback, payload); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
