package ledger

import "context"

type Repository interface {
	PaymentsFor(ctx context.Context, subscriptionID int) ([]Payment, error)
	Balance(ctx context.Context, subscriptionID int) (*Balance, error)
}
