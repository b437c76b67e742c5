package catalog

import (
	"context"
	"database/sql"
	"errors"

	"studiodesk/internal/apperr"
	"studiodesk/internal/db"

	"github.com/jmoiron/sqlx"
)

const packColumns = `code, name, price, session_count, validity_days, active, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListActive(ctx context.Context) ([]PackTemplate, error) {
	query := `SELECT ` + packColumns + ` FROM pack_templates WHERE active = TRUE ORDER BY price ASC, code ASC`

	packs := []PackTemplate{}
	if err := r.db.SelectContext(ctx, &packs, query); err != nil {
		return nil, err
	}
	return packs, nil
}

func (r *repository) ListAll(ctx context.Context) ([]PackTemplate, error) {
	query := `SELECT ` + packColumns + ` FROM pack_templates ORDER BY active DESC, code ASC`

	packs := []PackTemplate{}
	if err := r.db.SelectContext(ctx, &packs, query); err != nil {
		return nil, err
	}
	return packs, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*PackTemplate, error) {
	query := `SELECT ` + packColumns + ` FROM pack_templates WHERE code = $1`

	var p PackTemplate
	err := r.db.GetContext(ctx, &p, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindNotFound, err, "pack not found").With("code", code)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, p PackTemplate) (*PackTemplate, error) {
	query := `
		INSERT INTO pack_templates (code, name, price, session_count, validity_days, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + packColumns

	var created PackTemplate
	err := r.db.GetContext(ctx, &created, query, p.Code, p.Name, p.Price, p.SessionCount, p.ValidityDays, p.Active)
	if db.IsUniqueViolation(err, "") {
		return nil, apperr.Wrap(apperr.KindConflict, err, "pack code already exists").With("code", p.Code)
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) Update(ctx context.Context, p PackTemplate) (*PackTemplate, error) {
	query := `
		UPDATE pack_templates
		SET name = $2, price = $3, session_count = $4, validity_days = $5, active = $6
		WHERE code = $1
		RETURNING ` + packColumns

	var updated PackTemplate
	err := r.db.GetContext(ctx, &updated, query, p.Code, p.Name, p.Price, p.SessionCount, p.ValidityDays, p.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindNotFound, err, "pack not found").With("code", p.Code)
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *repository) SetActive(ctx context.Context, code string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE pack_templates SET active = $2 WHERE code = $1`, code, active)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("pack not found").With("code", code)
	}
	return nil
}

func (r *repository) CountSubscriptions(ctx context.Context, code string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM subscriptions WHERE template_code = $1`, code)
	return n, err
}

// Delete removes a pack. The foreign key from subscriptions catches a
// reference created after the service's count check.
func (r *repository) Delete(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pack_templates WHERE code = $1`, code)
	if db.IsForeignKeyViolation(err) {
		return apperr.Wrap(apperr.KindReferentialConflict, err, "pack is referenced by subscriptions, archive it instead").With("code", code)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("pack not found").With("code", code)
	}
	return nil
}
