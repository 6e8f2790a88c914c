package mocks

import (
	"context"

	"github.com/smazzone/studytrack/internal/store"
)

// MockTxRunner implements store.TxRunner without a database. By default it
// invokes the function immediately with a nil transaction; the mock stores
// ignore WithTx, so composed writes behave as if the transaction committed.
type MockTxRunner struct {
	// RunFn overrides the default behavior entirely.
	RunFn func(ctx context.Context, fn store.TxFn) error

	// Err, when set, is returned without invoking the function, simulating
	// a transaction that failed to begin.
	Err error

	// Calls counts the transactions started.
	Calls int
}

// RunInTransaction implements the store.TxRunner interface.
func (m *MockTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	m.Calls++
	if m.RunFn != nil {
		return m.RunFn(ctx, fn)
	}
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx, nil)
}
