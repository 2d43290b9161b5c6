// Package state holds the queue snapshot shared between the reload paths and
// the UI.
//
// # Overview
//
// Store is the single owner of the local queue list. Every successful reload
// replaces the list wholesale through ReplaceAll; there is no merge or diff.
// A failed reload goes through Fail, which empties the list instead of leaving
// stale rows on screen and counts consecutive failures so the header can show
// an offline state.
//
// # Projections
//
// The UI never walks the raw list. It asks for one of two projections:
//
//   - Filtered: entries whose type matches the active Filter, in server order.
//   - View: the server's search results while a search term is active,
//     otherwise Filtered. Search and filter are mutually exclusive.
//
// Stats are recomputed on every replacement over the full list, not the
// projection, so the header counts do not change with the filter.
//
// # Reload ordering
//
// Reloads may overlap. ReplaceAll and Fail apply results in arrival order.
// Callers that want stale responses dropped take a Ticket before issuing the
// request and apply through ReplaceAllIfCurrent / FailIfCurrent, which ignore
// any result older than the newest one already applied.
//
// # Concurrency
//
// All methods are safe for concurrent use. Snapshot and every slice-returning
// method hand out deep copies, so callers may mutate what they receive.
//
// The zero value is ready to use and shows all queue types.
package state
