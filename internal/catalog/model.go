package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnlimitedSessions is the session count that marks a pack as unlimited.
const UnlimitedSessions = 999

type PackTemplate struct {
	Code         string          `db:"code" json:"code"`
	Name         string          `db:"name" json:"name"`
	Price        decimal.Decimal `db:"price" json:"price" swaggertype:"number"`
	SessionCount int             `db:"session_count" json:"session_count"`
	ValidityDays int             `db:"validity_days" json:"validity_days"`
	Active       bool            `db:"active" json:"active"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

func (p PackTemplate) Unlimited() bool {
	return p.SessionCount == UnlimitedSessions
}

type CreatePackRequest struct {
	Code         string          `json:"code" validate:"required,max=32"`
	Name         string          `json:"name" validate:"required,max=120"`
	Price        decimal.Decimal `json:"price" swaggertype:"number"`
	SessionCount int             `json:"session_count"`
	ValidityDays int             `json:"validity_days"`
	Active       *bool           `json:"active,omitempty"`
}

// UpdatePackRequest replaces every editable field. The code is taken from
// the path and never changes.
type UpdatePackRequest struct {
	Name         string          `json:"name" validate:"required,max=120"`
	Price        decimal.Decimal `json:"price" swaggertype:"number"`
	SessionCount int             `json:"session_count"`
	ValidityDays int             `json:"validity_days"`
	Active       bool            `json:"active"`
}
