// Package mutation applies boolean changes optimistically: the local state
// flips at once, the remote call runs, and a failure restores the previous
// value.
//
// Per id the state goes Idle -> Pending -> Idle. While an id is pending any
// further request for it is rejected with ErrBusy, so two remote calls for
// the same id never overlap. A 404 from the remote call means the entity is
// already gone: the mutation is treated as moot and nothing is rolled back.
package mutation
