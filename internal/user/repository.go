package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"studiodesk/internal/apperr"
	"studiodesk/internal/db"

	"github.com/jmoiron/sqlx"
)

const (
	userColumns = `id, email, password_hash, full_name, phone, role, created_at`

	emailConstraint = "users_email_key"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u User) (*User, error) {
	query := `
		INSERT INTO users (email, password_hash, full_name, phone, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	var created User
	err := r.db.GetContext(ctx, &created, query, u.Email, u.PasswordHash, u.FullName, u.Phone, u.Role)
	if db.IsUniqueViolation(err, emailConstraint) {
		return nil, apperr.Wrap(apperr.KindConflict, err, "email already registered")
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindNotFound, err, "user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindNotFound, err, "user not found").With("user_id", id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	return exists, err
}

func (r *repository) UpdateProfile(ctx context.Context, id int, fullName, phone string) (*User, error) {
	query := `
		UPDATE users SET full_name = $2, phone = $3
		WHERE id = $1
		RETURNING ` + userColumns

	var u User
	err := r.db.GetContext(ctx, &u, query, id, fullName, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindNotFound, err, "user not found").With("user_id", id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) Contact(ctx context.Context, id int) (*Contact, error) {
	var c Contact
	err := r.db.GetContext(ctx, &c, `SELECT email, full_name FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindNotFound, err, "user not found").With("user_id", id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) ListClients(ctx context.Context, search string) ([]ClientSummary, error) {
	query := `
		SELECT u.id, u.email, u.full_name, u.phone, u.created_at,
		       s.template_code AS latest_pack, s.status AS latest_status,
		       s.sessions_left AS latest_sessions_left, s.end_date AS latest_end_date
		FROM users u
		LEFT JOIN LATERAL (
			SELECT template_code, status, sessions_left, end_date
			FROM subscriptions
			WHERE user_id = u.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) s ON TRUE
		WHERE u.role = 'CLIENT'
		  AND ($1 = '' OR u.full_name ILIKE '%' || $1 || '%' OR u.email ILIKE '%' || $1 || '%')
		ORDER BY u.created_at DESC
	`

	clients := []ClientSummary{}
	if err := r.db.SelectContext(ctx, &clients, query, search); err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *repository) Stats(ctx context.Context, now, dayStart, dayEnd time.Time) (*Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(DISTINCT user_id) FROM subscriptions WHERE status = 'ACTIVE' AND end_date >= $1) AS active_clients,
			(SELECT COUNT(*) FROM subscriptions WHERE status = 'ACTIVE' AND end_date >= $1) AS active_subscriptions,
			(SELECT COUNT(*) FROM reservations
			  WHERE status <> 'CANCELLED' AND occurrence_at >= $2 AND occurrence_at < $3) AS today_reservations,
			(SELECT COUNT(*) FROM subscriptions WHERE status = 'PENDING') AS pending_validations
	`

	var s Stats
	if err := r.db.GetContext(ctx, &s, query, now, dayStart, dayEnd); err != nil {
		return nil, err
	}
	return &s, nil
}
