// Package present turns election results payloads into dashboard views.
//
// This package is internal to electionboard. Its main pieces are:
//
//   - [Presenter]: owns the UI state (selected riding, latest riding list)
//     and renders each payload into a [View]
//   - [SeatSeries] and [VoteSeries]: the data behind the two proportion charts
//   - [RankParties]: stable ranking of parties by leading-riding count
//
// Rendered views are handed to a [Sink]. The presenter never fails because a
// region is missing from the display surface: a view is plain data, and the
// surface shows only the regions it has.
package present
