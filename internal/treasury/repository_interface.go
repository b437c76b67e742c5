package treasury

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, t Transaction) (*Transaction, error)
	GetByID(ctx context.Context, id int) (*Transaction, error)
	List(ctx context.Context, f ListFilter) ([]Transaction, error)
	Subtotals(ctx context.Context) ([]Subtotal, error)
	// Clear moves a pending cheque to CLEARED. The row is locked and
	// re-checked, so a concurrent clear of the same cheque fails.
	Clear(ctx context.Context, id int, at time.Time) (*Transaction, error)
}
