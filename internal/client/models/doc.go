// Package models defines the client-side domain types: products and storage
// places as the backend returns them, the static category catalog, locally
// owned notes, and the merged view handed to the presentation layer.
package models
