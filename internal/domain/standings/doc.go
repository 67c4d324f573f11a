// Package standings maintains a predicted finishing order over a fixed
// catalog of teams.
//
// A State partitions the catalog between an unranked pool and a rank-indexed
// assignment 1..N. States are values: every operation returns a new State and
// leaves its input untouched, so a presentation layer can call ApplyMove on
// every drop gesture and keep or discard the result as it sees fit.
//
// Invariants held by every State produced here:
//   - each catalog id is either in the pool or assigned to exactly one rank;
//   - no two ranks hold the same id.
//
// A State is complete when every rank 1..N is filled; only complete states
// can be serialized for persistence.
package standings
