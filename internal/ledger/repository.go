package ledger

import (
	"context"
	"database/sql"
	"errors"

	"studiodesk/internal/apperr"

	"github.com/jmoiron/sqlx"
)

const paymentColumns = `id, subscription_id, amount, method, COALESCE(reference, '') AS reference, payment_date`

// AppendPayment inserts a payment row. It takes the caller's transaction so
// the payment lands atomically with the subscription totals it explains.
func AppendPayment(ctx context.Context, q sqlx.QueryerContext, p Payment) (*Payment, error) {
	query := `
		INSERT INTO payments (subscription_id, amount, method, reference, payment_date)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		RETURNING ` + paymentColumns

	var created Payment
	if err := sqlx.GetContext(ctx, q, &created, query, p.SubscriptionID, Round(p.Amount), p.Method, p.Reference, p.PaymentDate); err != nil {
		return nil, err
	}
	return &created, nil
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) PaymentsFor(ctx context.Context, subscriptionID int) ([]Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE subscription_id = $1 ORDER BY payment_date ASC, id ASC`

	payments := []Payment{}
	if err := r.db.SelectContext(ctx, &payments, query, subscriptionID); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repository) Balance(ctx context.Context, subscriptionID int) (*Balance, error) {
	query := `
		SELECT id, user_id, status, sessions_total, sessions_left, price, amount_paid, amount_due, end_date
		FROM subscriptions
		WHERE id = $1
	`

	var b Balance
	err := r.db.GetContext(ctx, &b, query, subscriptionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindNotFound, err, "subscription not found").With("subscription_id", subscriptionID)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
