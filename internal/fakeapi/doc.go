// Package fakeapi is an in-memory implementation of the fridge backend REST
// API. It backs end-to-end tests of the client and the devbackend command
// for local development. Data lives only as long as the Server.
package fakeapi
