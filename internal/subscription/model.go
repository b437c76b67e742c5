package subscription

import (
	"time"

	"studiodesk/internal/catalog"
	"studiodesk/internal/ledger"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusActive  Status = "ACTIVE"
	StatusExpired Status = "EXPIRED"
)

type Subscription struct {
	ID            int             `db:"id" json:"id"`
	UserID        int             `db:"user_id" json:"user_id"`
	TemplateCode  string          `db:"template_code" json:"pack_code"`
	Price         decimal.Decimal `db:"price" json:"price" swaggertype:"number"`
	ValidityDays  int             `db:"validity_days" json:"validity_days"`
	SessionsTotal int             `db:"sessions_total" json:"sessions_total"`
	SessionsLeft  int             `db:"sessions_left" json:"sessions_left"`
	Status        Status          `db:"status" json:"status"`
	StartDate     *time.Time      `db:"start_date" json:"start_date,omitempty"`
	EndDate       *time.Time      `db:"end_date" json:"end_date,omitempty"`
	AmountPaid    decimal.Decimal `db:"amount_paid" json:"amount_paid" swaggertype:"number"`
	AmountDue     decimal.Decimal `db:"amount_due" json:"amount_due" swaggertype:"number"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`

	EffectiveStatus Status           `db:"-" json:"effective_status"`
	Unlimited       bool             `db:"-" json:"unlimited"`
	Payments        []ledger.Payment `db:"-" json:"payments,omitempty"`
}

func (s Subscription) IsUnlimited() bool {
	return s.SessionsTotal == catalog.UnlimitedSessions
}

// StatusAt is the status as of now: a stored ACTIVE whose end date has
// passed reads as EXPIRED whether or not the sweep has run.
func (s Subscription) StatusAt(now time.Time) Status {
	if s.Status == StatusActive && s.EndDate != nil && s.EndDate.Before(now) {
		return StatusExpired
	}
	return s.Status
}

// UsableAt reports whether the subscription can pay for a booking at now.
func (s Subscription) UsableAt(now time.Time) bool {
	return s.StatusAt(now) == StatusActive && (s.IsUnlimited() || s.SessionsLeft > 0)
}

func (s *Subscription) project(now time.Time) {
	s.EffectiveStatus = s.StatusAt(now)
	s.Unlimited = s.IsUnlimited()
}

// PendingSubscription is a request waiting for staff validation.
type PendingSubscription struct {
	Subscription
	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email"`
	PackName string `db:"pack_name" json:"pack_name"`
}

type RequestSubscriptionRequest struct {
	PackCode string `json:"pack_code" validate:"required"`
}

// ValidateRequest activates a pending subscription. StartDate is a studio
// calendar date (YYYY-MM-DD); empty means today.
type ValidateRequest struct {
	Method     ledger.PaymentMethod `json:"payment_method"`
	Reference  string               `json:"payment_reference"`
	AmountPaid decimal.Decimal      `json:"amount_paid" swaggertype:"number"`
	StartDate  string               `json:"start_date" example:"2025-01-06"`
}

type PaymentRequest struct {
	SubscriptionID int                  `json:"subscription_id" validate:"required,min=1"`
	Amount         decimal.Decimal      `json:"amount" swaggertype:"number"`
	Method         ledger.PaymentMethod `json:"payment_method" validate:"required"`
	Reference      string               `json:"payment_reference"`
}

type WalkInRequest struct {
	UserID     int                  `json:"user_id" validate:"required,min=1"`
	PackCode   string               `json:"pack_code" validate:"required"`
	Method     ledger.PaymentMethod `json:"payment_method"`
	Reference  string               `json:"payment_reference"`
	AmountPaid decimal.Decimal      `json:"amount_paid" swaggertype:"number"`
	StartDate  string               `json:"start_date" example:"2025-01-06"`
}
