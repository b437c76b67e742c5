package ledger

import (
	"strings"
	"time"

	"studiodesk/internal/apperr"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "CASH"
	MethodCheque   PaymentMethod = "CHEQUE"
	MethodVirement PaymentMethod = "VIREMENT"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCheque, MethodVirement:
		return true
	}
	return false
}

// RequiresReference is true for cheques and transfers, which must carry a
// cheque number or bank reference.
func (m PaymentMethod) RequiresReference() bool {
	return m == MethodCheque || m == MethodVirement
}

// CheckMethod validates a method and its reference.
func CheckMethod(method PaymentMethod, reference string) error {
	if !method.Valid() {
		return apperr.Validationf("unknown payment method").With("method", string(method))
	}
	if method.RequiresReference() && strings.TrimSpace(reference) == "" {
		return apperr.Validationf("a reference is required for %s payments", method).With("method", string(method))
	}
	return nil
}

type Payment struct {
	ID             int             `db:"id" json:"id"`
	SubscriptionID int             `db:"subscription_id" json:"subscription_id"`
	Amount         decimal.Decimal `db:"amount" json:"amount" swaggertype:"number"`
	Method         PaymentMethod   `db:"method" json:"method"`
	Reference      string          `db:"reference" json:"reference,omitempty"`
	PaymentDate    time.Time       `db:"payment_date" json:"payment_date"`
}

// Balance is the credit and money position of one subscription.
type Balance struct {
	SubscriptionID int             `db:"id" json:"subscription_id"`
	OwnerID        int             `db:"user_id" json:"-"`
	Status         string          `db:"status" json:"status"`
	SessionsTotal  int             `db:"sessions_total" json:"sessions_total"`
	SessionsLeft   int             `db:"sessions_left" json:"sessions_left"`
	Unlimited      bool            `db:"-" json:"unlimited"`
	Price          decimal.Decimal `db:"price" json:"price" swaggertype:"number"`
	AmountPaid     decimal.Decimal `db:"amount_paid" json:"amount_paid" swaggertype:"number"`
	AmountDue      decimal.Decimal `db:"amount_due" json:"amount_due" swaggertype:"number"`
	EndDate        *time.Time      `db:"end_date" json:"end_date,omitempty"`
	Expired        bool            `db:"-" json:"expired"`
}
