//go:build integration

// Package testdb provides database helpers for integration tests.
//
// Tests that need a real PostgreSQL instance connect through Get, which
// reads STUDYTRACK_TEST_DATABASE_URL (falling back to DATABASE_URL) and
// skips the test when neither is set. Each test runs inside a transaction
// via WithTx; the transaction is rolled back when the test finishes, so
// tests stay isolated and can run in parallel against one database.
package testdb
