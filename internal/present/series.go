package present

import (
	"cmp"
	"slices"

	"github.com/jpalmerr/electionboard/internal/format"
	"github.com/jpalmerr/electionboard/results"
)

const (
	// OthersLabel labels the residual slice of a chart.
	OthersLabel = "Others"

	// PlaceholderLabel replaces the label set when no party qualifies.
	PlaceholderLabel = "N./A."

	// DefaultTotalSeats is the size of the legislature.
	DefaultTotalSeats = 125

	// totalVoteShare is the whole of the votes chart, in percent.
	totalVoteShare = 100.0
)

// ChartKind identifies one of the two proportion charts.
type ChartKind string

const (
	ChartSeats ChartKind = "seats"
	ChartVotes ChartKind = "votes"
)

// Series is the data behind one proportion chart.
type Series struct {
	// Labels are the normalised abbreviations of the qualifying parties
	// followed by OthersLabel, or the single PlaceholderLabel when fewer than
	// two labels would remain.
	Labels []string `json:"labels"`

	// Values are the qualifying parties' metrics followed by the residual.
	// The residual is always present, even when Labels is the placeholder.
	Values []float64 `json:"values"`

	// Leading is the first label, shown as the chart's leading party.
	Leading string `json:"leading"`
}

// RankParties returns the parties sorted by leading-riding count, highest
// first. Parties with equal counts keep their relative feed order.
func RankParties(parties []results.Party) []results.Party {
	ranked := slices.Clone(parties)
	slices.SortStableFunc(ranked, func(a, b results.Party) int {
		return cmp.Compare(b.Leading, a.Leading)
	})
	return ranked
}

// SeatSeries builds the seats chart: parties leading at least one riding,
// plus the seats not yet attributed out of totalSeats.
func SeatSeries(parties []results.Party, totalSeats int) Series {
	return buildSeries(parties, float64(totalSeats), func(p results.Party) float64 {
		return float64(p.Leading)
	})
}

// VoteSeries builds the votes chart: parties with a positive vote share,
// plus the share left over out of 100%.
func VoteSeries(parties []results.Party) Series {
	return buildSeries(parties, totalVoteShare, func(p results.Party) float64 {
		return p.VoteShare
	})
}

func buildSeries(parties []results.Party, total float64, metric func(results.Party) float64) Series {
	var (
		labels = make([]string, 0, len(parties)+1)
		values = make([]float64, 0, len(parties)+1)
		sum    float64
	)
	for _, p := range parties {
		v := metric(p)
		if v <= 0 {
			continue
		}
		sum += v
		values = append(values, v)
		labels = append(labels, format.SanitizePartyAbbreviation(p.Abbreviation))
	}

	values = append(values, total-sum)
	labels = append(labels, OthersLabel)
	if len(labels) < 2 {
		labels = []string{PlaceholderLabel}
	}

	return Series{
		Labels:  labels,
		Values:  values,
		Leading: labels[0],
	}
}
