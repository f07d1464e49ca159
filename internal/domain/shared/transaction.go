package shared

import "context"

// TxManager runs fn inside a single unit of work. Repositories called with the
// context passed to fn take part in the same transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
