package subscription

import (
	"context"
	"time"

	"studiodesk/internal/ledger"

	"github.com/shopspring/decimal"
)

type Repository interface {
	// WithTx runs fn in one database transaction.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	GetByID(ctx context.Context, id int) (*Subscription, error)
	ListByUser(ctx context.Context, userID int) ([]Subscription, error)
	ListPending(ctx context.Context) ([]PendingSubscription, error)
	ExpireEnded(ctx context.Context, now time.Time) (int64, error)
}

// Tx is the set of writes a lifecycle operation performs atomically.
// GetForUpdate holds the subscription row lock until the transaction ends.
type Tx interface {
	Create(ctx context.Context, s Subscription) (*Subscription, error)
	GetForUpdate(ctx context.Context, id int) (*Subscription, error)
	Activate(ctx context.Context, id int, start, end time.Time, paid, due decimal.Decimal) (*Subscription, error)
	ApplyPayment(ctx context.Context, id int, paid, due decimal.Decimal) (*Subscription, error)
	AppendPayment(ctx context.Context, p ledger.Payment) (*ledger.Payment, error)
}
