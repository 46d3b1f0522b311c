// Package cli provides the interactive fridgekeeper command-line client.
//
// It wires configuration, local storage, the REST client and the
// application services, then runs a REPL. Typical flow: log in (the session
// survives restarts), list and edit the inventory, toggle favorites, keep
// local notes and ask for recipes. A background watcher pings the backend
// and shows whether the client is online.
//
// Product lists come from the last refresh when the backend cannot be
// reached; they are marked as stale in the output.
package cli
