package treasury

import (
	"time"

	"studiodesk/internal/ledger"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeIn  Type = "IN"
	TypeOut Type = "OUT"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusCleared Status = "CLEARED"
)

// DefaultCategory is applied to IN entries recorded without one.
const DefaultCategory = "Autre"

// Categories are the ones the desk offers. Any non-empty category is accepted.
var Categories = []string{
	"Loyer",
	"Électricité/Eau",
	"Salaire Coach",
	"Salaire Réception",
	"Matériel",
	"Ménage",
	"Marketing",
	DefaultCategory,
}

type Transaction struct {
	ID          int                  `db:"id" json:"id"`
	Type        Type                 `db:"type" json:"type"`
	Amount      decimal.Decimal      `db:"amount" json:"amount" swaggertype:"number"`
	Category    string               `db:"category" json:"category"`
	Description string               `db:"description" json:"description,omitempty"`
	Method      ledger.PaymentMethod `db:"method" json:"method"`
	Reference   string               `db:"reference" json:"reference,omitempty"`
	Status      Status               `db:"status" json:"status"`
	Date        time.Time            `db:"date" json:"date"`
	RecordedBy  int                  `db:"recorded_by" json:"recorded_by"`
	ClearedAt   *time.Time           `db:"cleared_at" json:"cleared_at,omitempty"`
	CreatedAt   time.Time            `db:"created_at" json:"created_at"`
}

// Clearable reports whether the entry is a cheque still waiting for the bank.
func (t Transaction) Clearable() bool {
	return t.Method == ledger.MethodCheque && t.Status == StatusPending
}

// Subtotal is the sum of amounts sharing one type, method and status.
type Subtotal struct {
	Type   Type                 `db:"type"`
	Method ledger.PaymentMethod `db:"method"`
	Status Status               `db:"status"`
	Total  decimal.Decimal      `db:"total"`
}

type Balance struct {
	Available  decimal.Decimal `json:"available_balance" swaggertype:"number"`
	InClearing decimal.Decimal `json:"in_clearing" swaggertype:"number"`
}

type Listing struct {
	Transactions []Transaction `json:"transactions"`
	Stats        Balance       `json:"stats"`
}

type RecordRequest struct {
	Type        Type                 `json:"type" validate:"required,oneof=IN OUT"`
	Amount      decimal.Decimal      `json:"amount" swaggertype:"number" example:"1500.00"`
	Category    string               `json:"category" validate:"max=100"`
	Description string               `json:"description" validate:"max=500"`
	Method      ledger.PaymentMethod `json:"method" validate:"required,oneof=CASH CHEQUE VIREMENT"`
	Reference   string               `json:"reference" validate:"max=100"`
	// Defaults to now.
	Date *time.Time `json:"date"`
}

type ListFilter struct {
	Type   Type
	Limit  int
	Offset int
}
