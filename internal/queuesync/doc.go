// Package queuesync keeps the local queue snapshot consistent with the
// remote queue service.
//
// Controller is the only writer of state.Store entries. Reads go through
// Reload, which replaces the snapshot wholesale or, on any failure, empties
// it. Mutations (AddCustomer, UpdateStatus, RemoveCustomer) are sent to the
// server first and followed by a full Reload; nothing is applied locally
// ahead of confirmation.
//
// Input problems are reported as *queue.ValidationError before any request
// is made. Status changes are checked here: only Waiting→Seated and
// Seated→Done are sent. Server refusals surface as *api.RemoteError.
// Every outcome the operator should see is also pushed to the Notifier.
//
// PeriodicRefresh polls in the background. Overlapping reloads apply in
// arrival order unless Options.DiscardStale is set.
//
// Dispatch maps a Command (action plus entry id) to the matching operation so
// the UI binds keys to actions without knowing the controller methods.
package queuesync
