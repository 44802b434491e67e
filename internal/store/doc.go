// Package store keeps the latest dashboard view and fans it out to
// subscribers.
//
// This package is internal to electionboard. The main components are:
//
//   - [Store]: Interface defining publish and subscription operations
//   - [MemoryStore]: In-memory implementation of Store with pub/sub
//
// Every publish replaces the stored view wholesale. Subscribers receive
// views via channels with non-blocking sends (slow subscribers will miss
// intermediate views rather than block the presenter); since each view is
// complete, a subscriber that misses one is up to date again at the next.
package store
