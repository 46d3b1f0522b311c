// Package overlay keeps client-only data next to server entities: JSON
// documents under namespaced keys in a kv.Store.
//
// Keys follow "{kind}_{scope}". Scope is a constant for shared documents
// (productCategories) or the user's email for per-identity ones
// (notes_v1_{email}). A document that fails to parse reads as absent and is
// logged; overlay data never breaks a caller.
//
// Writes to one key are serialized inside the process, so the read-modify-write
// helpers do not lose concurrent updates.
package overlay
