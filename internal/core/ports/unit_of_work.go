package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork for each command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Aggregates added or updated
// through its repositories are tracked, and their domain events are written to
// the outbox as part of Commit.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit writes pending domain events to the outbox and commits.
	Commit(ctx context.Context) error

	// Rollback discards the transaction. It fails once the transaction is closed.
	Rollback(ctx context.Context) error

	// OrderRepository returns a repository bound to the current transaction.
	OrderRepository() OrderRepository
}
