// Package reconcile refetches product collections and re-merges them with
// overlay data.
//
// Refreshes are requested on view focus, pull-to-refresh and after a
// mutation. Concurrent requests for one collection share a single fetch. A
// failed fetch keeps the previous snapshot, marked stale with the error, so
// callers never lose the list they are showing. Transient failures (5xx,
// transport) are retried a few times before giving up; client errors are not.
package reconcile
