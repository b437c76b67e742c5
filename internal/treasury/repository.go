package treasury

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"studiodesk/internal/apperr"
	"studiodesk/internal/db"

	"github.com/jmoiron/sqlx"
)

const transactionColumns = `id, type, amount, category, description, method, reference, status, date, recorded_by, cleared_at, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, t Transaction) (*Transaction, error) {
	query := `
		INSERT INTO treasury_transactions (type, amount, category, description, method, reference, status, date, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + transactionColumns

	var created Transaction
	err := r.db.GetContext(ctx, &created, query,
		t.Type, t.Amount, t.Category, t.Description, t.Method, t.Reference, t.Status, t.Date, t.RecordedBy)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Transaction, error) {
	var t Transaction
	err := r.db.GetContext(ctx, &t, `SELECT `+transactionColumns+` FROM treasury_transactions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindNotFound, err, "transaction not found").With("transaction_id", id)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM treasury_transactions
		WHERE ($1 = '' OR type = $1)
		ORDER BY date DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	txs := []Transaction{}
	if err := r.db.SelectContext(ctx, &txs, query, string(f.Type), f.Limit, f.Offset); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *repository) Subtotals(ctx context.Context) ([]Subtotal, error) {
	query := `
		SELECT type, method, status, SUM(amount) AS total
		FROM treasury_transactions
		GROUP BY type, method, status
	`

	subtotals := []Subtotal{}
	if err := r.db.SelectContext(ctx, &subtotals, query); err != nil {
		return nil, err
	}
	return subtotals, nil
}

func (r *repository) Clear(ctx context.Context, id int, at time.Time) (*Transaction, error) {
	var cleared Transaction
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var t Transaction
		err := tx.GetContext(ctx, &t, `SELECT `+transactionColumns+` FROM treasury_transactions WHERE id = $1 FOR UPDATE`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.Wrap(apperr.KindNotFound, err, "transaction not found").With("transaction_id", id)
		}
		if err != nil {
			return err
		}
		if !t.Clearable() {
			return apperr.New(apperr.KindInvalidState, "only a pending cheque can be cashed").
				With("method", string(t.Method)).
				With("status", string(t.Status))
		}

		return tx.GetContext(ctx, &cleared, `
			UPDATE treasury_transactions
			SET status = 'CLEARED', cleared_at = $2
			WHERE id = $1
			RETURNING `+transactionColumns, id, at)
	})
	if err != nil {
		return nil, err
	}
	return &cleared, nil
}
