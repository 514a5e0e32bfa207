package shared

import "context"

// TransactionManager runs a function with every repository write inside
// one database transaction. The open transaction travels in the context,
// so repositories and the outbox publisher join it transparently.
type TransactionManager interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
}
