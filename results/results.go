// Package results defines the election results payload published by the
// remote feed.
//
// Field names are English; JSON keys keep the feed's French names, which are
// fixed by the provider. The payload is trusted as-is: ids are used as
// correlation keys and percentages are expected in [0,100], but neither is
// validated.
package results

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Results is the top-level payload returned by the feed on every poll.
type Results struct {
	// Ridings lists the electoral divisions with their candidates.
	Ridings []Riding `json:"circonscriptions"`

	// Statistics holds aggregate counts and the list of political parties.
	Statistics Statistics `json:"statistiques"`
}

// Statistics holds the election-wide aggregates.
type Statistics struct {
	Final                 bool    `json:"isResultatsFinaux"`
	UpdatedAt             string  `json:"iso8601DateMAJ"`
	PollingStations       int     `json:"nbBureauVote"`
	StationsReported      int     `json:"nbBureauVoteRempli"`
	Ridings               int     `json:"nbCirconscription"`
	RidingsWithResults    int     `json:"nbCirconscriptionAvecResultat"`
	RidingsWithoutResults int     `json:"nbCirconscriptionSansResultat"`
	RegisteredElectors    int     `json:"nbElecteurInscrit"`
	VotesCast             int     `json:"nbVoteExerce"`
	RejectedVotes         int     `json:"nbVoteRejete"`
	ValidVotes            int     `json:"nbVoteValide"`
	Parties               []Party `json:"partisPolitiques"`
	StationsReportedRate  float64 `json:"tauxBureauVoteRempli"`
	RidingsWithoutRate    float64 `json:"tauxCirconscriptionSansResultat"`

	// Turnout is the expected participation rate if the current trend holds.
	Turnout Rate `json:"tauxParticipationTotal"`
}

// Party is a political party's aggregate standing.
type Party struct {
	Abbreviation string `json:"abreviationPartiPolitique"`

	// Leading is the number of ridings where the party's candidate leads.
	Leading int `json:"nbCirconscriptionsEnAvance"`

	Votes int    `json:"nbVoteTotal"`
	Name  string `json:"nomPartiPolitique"`
	ID    int    `json:"numeroPartiPolitique"`

	// LeadingRate is the percentage of ridings where the party leads.
	LeadingRate float64 `json:"tauxCirconscriptionsEnAvance"`

	// VoteShare is the percentage of valid votes received so far.
	VoteShare float64 `json:"tauxVoteTotal"`
}

// Riding is one electoral division.
type Riding struct {
	Candidates         []Candidate `json:"candidats"`
	Final              bool        `json:"isResultatsFinaux"`
	UpdatedAt          string      `json:"iso8601DateMAJ"`
	StationsComplete   int         `json:"nbBureauComplete"`
	StationsTotal      int         `json:"nbBureauTotal"`
	RegisteredElectors int         `json:"nbElecteurInscrit"`
	VotesCast          int         `json:"nbVoteExerce"`
	RejectedVotes      int         `json:"nbVoteRejete"`
	ValidVotes         int         `json:"nbVoteValide"`
	Name               string      `json:"nomCirconscription"`
	ID                 int         `json:"numeroCirconscription"`
	Turnout            Rate        `json:"tauxParticipation"`
	RejectedRate       float64     `json:"tauxVoteRejete"`
	ValidRate          float64     `json:"tauxVoteValide"`
}

// Candidate is one candidate within a riding.
type Candidate struct {
	PartyAbbreviation string `json:"abreviationPartiPolitique"`

	// Lead is the vote margin over the runner-up; 0 when not leading.
	Lead int `json:"nbVoteAvance"`

	Votes     int     `json:"nbVoteTotal"`
	LastName  string  `json:"nom"`
	ID        int     `json:"numeroCandidat"`
	PartyID   int     `json:"numeroPartiPolitique"`
	FirstName string  `json:"prenom"`
	VoteShare float64 `json:"tauxVote"`
}

// Rate is a percentage the feed sends either as a number or as a string,
// using "n.d." when the value is not available yet.
type Rate struct {
	Value float64
	Known bool
}

// KnownRate returns a Rate holding v.
func KnownRate(v float64) Rate {
	return Rate{Value: v, Known: true}
}

// UnmarshalJSON implements json.Unmarshaler for Rate.
func (r *Rate) UnmarshalJSON(data []byte) error {
	*r = Rate{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		// numeric strings occasionally use a decimal comma
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*r = KnownRate(v)
		}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = KnownRate(v)
	return nil
}

// MarshalJSON implements json.Marshaler for Rate.
// Unknown rates are written as the feed's "n.d." marker.
func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.Known {
		return []byte(`"n.d."`), nil
	}
	return []byte(strconv.FormatFloat(r.Value, 'f', -1, 64)), nil
}

// FindRiding returns the riding with the given id.
func (r Results) FindRiding(id int) (Riding, bool) {
	for _, riding := range r.Ridings {
		if riding.ID == id {
			return riding, true
		}
	}
	return Riding{}, false
}
