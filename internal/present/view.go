package present

import "time"

// View is everything the display surface shows after one rendering pass.
//
// Every region is optional for the surface: a page that lacks a region
// simply ignores the corresponding field.
type View struct {
	Standings []Standing     `json:"standings"`
	Cards     []Card         `json:"cards"`
	Overview  Overview       `json:"overview"`
	Seats     Series         `json:"seats"`
	Votes     Series         `json:"votes"`
	Ridings   []RidingOption `json:"ridings"`

	// Detail is nil until a riding has been displayed.
	Detail *Detail `json:"detail,omitempty"`

	Final      bool      `json:"final"`
	RenderedAt time.Time `json:"rendered_at"`
}

// Standing is one row of the ranked party list.
type Standing struct {
	Rank         int    `json:"rank"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	VoteShare    string `json:"vote_share"`
	Seats        int    `json:"seats"`
}

// Card is one per-party summary card.
type Card struct {
	// Set is false until the card has been written at least once.
	Set          bool    `json:"set"`
	Abbreviation string  `json:"abbreviation"`
	Seats        int     `json:"seats"`
	VoteBarWidth float64 `json:"vote_bar_width"`
}

// Progress is a counter paired with a progress bar width in percent.
type Progress struct {
	Count string  `json:"count"`
	Width float64 `json:"width"`
}

// Overview holds the aggregate widgets.
type Overview struct {
	Stations      Progress `json:"stations"`
	Ridings       Progress `json:"ridings"`
	VotesCast     Progress `json:"votes_cast"`
	ValidVotes    Progress `json:"valid_votes"`
	RejectedVotes Progress `json:"rejected_votes"`
	Participation string   `json:"participation"`
	UpdatedDate   string   `json:"updated_date"`
	UpdatedTime   string   `json:"updated_time"`
}

// RidingOption is one entry of the riding selector.
type RidingOption struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// Detail is the detail view of one riding.
type Detail struct {
	RidingID           int            `json:"riding_id"`
	Name               string         `json:"name"`
	Candidates         []CandidateRow `json:"candidates"`
	StationsComplete   string         `json:"stations_complete"`
	StationsTotal      string         `json:"stations_total"`
	RegisteredElectors string         `json:"registered_electors"`
	Participation      string         `json:"participation"`
	Final              bool           `json:"final"`
}

// CandidateRow is one line of the riding detail table.
type CandidateRow struct {
	Rank      int    `json:"rank"`
	Party     string `json:"party"`
	Name      string `json:"name"`
	Votes     string `json:"votes"`
	Lead      string `json:"lead,omitempty"`
	VoteShare string `json:"vote_share"`
}

// Series returns the chart series of the given kind.
func (v View) Series(kind ChartKind) (Series, bool) {
	switch kind {
	case ChartSeats:
		return v.Seats, true
	case ChartVotes:
		return v.Votes, true
	default:
		return Series{}, false
	}
}
