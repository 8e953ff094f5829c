package repositories

import (
	"context"
)

// UnitOfWork defines the interface for atomic operations. Every balance-gated
// mutation (withdrawal request creation, approval, each accrual) runs inside
// Do so the read-check-then-write sequence is a single transaction.
type UnitOfWork interface {
	// Do executes the given function within a transaction scope
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
