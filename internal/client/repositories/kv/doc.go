// Package kv provides the durable key-value store the client keeps its local
// state in: session token, profile cache, notes and overlay documents.
//
// # Overview
//
// Store is a string-keyed, string-valued store with get/set/delete,
// multi-delete and prefix listing. Two implementations exist:
//
//   - SQLiteStore: the default, a single table in a local SQLite file
//     created by the embedded goose migrations (see InitDatabase).
//   - RedisStore: the same contract over Redis, namespaced by a key prefix,
//     for running the client core behind a shared backend-for-frontend.
//
// Values are opaque to the store; JSON encoding of documents is done one layer
// up, in internal/client/overlay.
//
// Typical Usage
//
//	db, _ := kv.InitDatabase(ctx, "fridgekeeper.db")
//	store := kv.NewSQLiteStore(db)
//	_ = store.Set(ctx, "access_token", token)
//	v, ok, _ := store.Get(ctx, "access_token")
//	_ = store.DeleteMany(ctx, "access_token", "is_logged_in")
package kv
