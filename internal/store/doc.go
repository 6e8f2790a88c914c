// Package store defines the persistence interfaces consumed by the service
// and handler layers, the sentinel errors they surface, and a transaction
// helper for composing multi-statement operations atomically.
//
// Every interface method that reads or mutates an owned entity takes the
// owning user's ID and applies it inside the query; implementations must
// never return or modify another user's data, even when handed a valid
// entity ID.
package store
