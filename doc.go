// Package folio is the core of a portfolio dashboard: a collection of
// holdings, a stateless aggregation engine and a store keeping both in sync.
//
// The main types are:
//   - Holding: one owned position. Its value, cost and change are computed
//     from quantity and prices, never stored.
//   - Aggregate: everything derived from the holdings (totals, distributions
//     by class, sector and risk, a synthetic profit history and summary
//     statistics). It is produced by Compute, a pure function.
//   - Store: owns the holdings, recomputes the aggregate after every add,
//     edit or delete and notifies subscribers with a consistent Snapshot.
//
// Holdings are persisted as JSON Lines (see DecodeHoldings), human-readable
// and version-controllable.
//
// This package is the foundation of the `pfd` command-line tool and its HTTP
// server.
package folio
