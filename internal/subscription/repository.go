package subscription

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"studiodesk/internal/apperr"
	"studiodesk/internal/db"
	"studiodesk/internal/ledger"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const (
	subscriptionColumns = `id, user_id, template_code, price, validity_days, sessions_total, sessions_left,
		status, start_date, end_date, amount_paid, amount_due, created_at`

	onePendingConstraint = "subscriptions_one_pending_per_user"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(&txRepository{tx: tx})
	})
}

func (r *repository) GetByID(ctx context.Context, id int) (*Subscription, error) {
	var s Subscription
	err := r.db.GetContext(ctx, &s, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(err, id)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByUser returns the user's subscriptions, newest first, each with its
// payments.
func (r *repository) ListByUser(ctx context.Context, userID int) ([]Subscription, error) {
	subs := []Subscription{}
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	if err := r.db.SelectContext(ctx, &subs, query, userID); err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return subs, nil
	}

	ids := make([]int, len(subs))
	for i, s := range subs {
		ids[i] = s.ID
	}

	inQuery, args, err := sqlx.In(`
		SELECT id, subscription_id, amount, method, COALESCE(reference, '') AS reference, payment_date
		FROM payments
		WHERE subscription_id IN (?)
		ORDER BY payment_date ASC, id ASC`, ids)
	if err != nil {
		return nil, err
	}

	var payments []ledger.Payment
	if err := r.db.SelectContext(ctx, &payments, sqlx.Rebind(sqlx.DOLLAR, inQuery), args...); err != nil {
		return nil, err
	}

	byID := make(map[int][]ledger.Payment, len(subs))
	for _, p := range payments {
		byID[p.SubscriptionID] = append(byID[p.SubscriptionID], p)
	}
	for i := range subs {
		subs[i].Payments = byID[subs[i].ID]
	}
	return subs, nil
}

func (r *repository) ListPending(ctx context.Context) ([]PendingSubscription, error) {
	query := `
		SELECT s.id, s.user_id, s.template_code, s.price, s.validity_days, s.sessions_total, s.sessions_left,
		       s.status, s.start_date, s.end_date, s.amount_paid, s.amount_due, s.created_at,
		       u.full_name, u.email, p.name AS pack_name
		FROM subscriptions s
		JOIN users u ON u.id = s.user_id
		JOIN pack_templates p ON p.code = s.template_code
		WHERE s.status = 'PENDING'
		ORDER BY s.created_at ASC
	`

	pending := []PendingSubscription{}
	if err := r.db.SelectContext(ctx, &pending, query); err != nil {
		return nil, err
	}
	return pending, nil
}

func (r *repository) ExpireEnded(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = 'EXPIRED', updated_at = NOW()
		WHERE status = 'ACTIVE' AND end_date < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type txRepository struct {
	tx *sqlx.Tx
}

func (r *txRepository) Create(ctx context.Context, s Subscription) (*Subscription, error) {
	query := `
		INSERT INTO subscriptions (user_id, template_code, price, validity_days, sessions_total, sessions_left,
		                           status, amount_paid, amount_due)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + subscriptionColumns

	var created Subscription
	err := r.tx.GetContext(ctx, &created, query,
		s.UserID, s.TemplateCode, s.Price, s.ValidityDays, s.SessionsTotal, s.SessionsLeft,
		s.Status, s.AmountPaid, s.AmountDue,
	)
	if db.IsUniqueViolation(err, onePendingConstraint) {
		return nil, apperr.Wrap(apperr.KindConflict, err, "a subscription request is already pending").With("user_id", s.UserID)
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *txRepository) GetForUpdate(ctx context.Context, id int) (*Subscription, error) {
	var s Subscription
	err := r.tx.GetContext(ctx, &s, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(err, id)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *txRepository) Activate(ctx context.Context, id int, start, end time.Time, paid, due decimal.Decimal) (*Subscription, error) {
	query := `
		UPDATE subscriptions
		SET status = 'ACTIVE', start_date = $2, end_date = $3, amount_paid = $4, amount_due = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + subscriptionColumns

	var s Subscription
	if err := r.tx.GetContext(ctx, &s, query, id, start, end, paid, due); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *txRepository) ApplyPayment(ctx context.Context, id int, paid, due decimal.Decimal) (*Subscription, error) {
	query := `
		UPDATE subscriptions
		SET amount_paid = $2, amount_due = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + subscriptionColumns

	var s Subscription
	if err := r.tx.GetContext(ctx, &s, query, id, paid, due); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *txRepository) AppendPayment(ctx context.Context, p ledger.Payment) (*ledger.Payment, error) {
	return ledger.AppendPayment(ctx, r.tx, p)
}

func notFound(err error, id int) error {
	return apperr.Wrap(apperr.KindNotFound, err, "subscription not found").With("subscription_id", id)
}
