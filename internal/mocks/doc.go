// Package mocks provides hand-written mock implementations of the store
// interfaces for testing services and handlers without a database. Each
// mock offers per-method function fields for custom behavior and a small
// in-memory default implementation for the common cases.
package mocks
