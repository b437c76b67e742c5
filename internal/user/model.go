package user

import (
	"time"

	"studiodesk/internal/ledger"
	"studiodesk/internal/reservation"
	"studiodesk/internal/subscription"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int       `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Phone        string    `db:"phone" json:"phone,omitempty"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email" example:"salma@example.com"`
	Password string `json:"password" validate:"required,min=8" example:"password123"`
	FullName string `json:"full_name" validate:"required,max=120" example:"Salma Bennani"`
	Phone    string `json:"phone" validate:"max=30" example:"+212600000000"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         User   `json:"user"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=120"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
}

// Profile is a member with their subscriptions, payments included, and
// reservations, each projected at read time.
type Profile struct {
	User
	// Current is the subscription a booking would draw on, if any.
	Current       *subscription.Subscription  `json:"current_subscription,omitempty"`
	Subscriptions []subscription.Subscription `json:"subscriptions"`
	Reservations  []reservation.View          `json:"reservations"`
}

// CreateClientRequest registers a member at the desk, optionally selling
// them a pack at once.
type CreateClientRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	FullName string      `json:"full_name" validate:"required,max=120"`
	Phone    string      `json:"phone" validate:"max=30"`
	Sale     *WalkInSale `json:"sale"`
}

type WalkInSale struct {
	PackCode   string               `json:"pack_code" validate:"required"`
	Method     ledger.PaymentMethod `json:"payment_method"`
	Reference  string               `json:"payment_reference"`
	AmountPaid decimal.Decimal      `json:"amount_paid" swaggertype:"number"`
	StartDate  string               `json:"start_date" example:"2025-01-06"`
}

type CreateClientResponse struct {
	User              User                       `json:"user"`
	TemporaryPassword string                     `json:"temporary_password"`
	Subscription      *subscription.Subscription `json:"subscription,omitempty"`
}

// ClientSummary is one row of the desk's client list.
type ClientSummary struct {
	ID                 int        `db:"id" json:"id"`
	Email              string     `db:"email" json:"email"`
	FullName           string     `db:"full_name" json:"full_name"`
	Phone              string     `db:"phone" json:"phone,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	LatestPack         *string    `db:"latest_pack" json:"latest_pack,omitempty"`
	LatestStatus       *string    `db:"latest_status" json:"latest_status,omitempty"`
	LatestSessionsLeft *int       `db:"latest_sessions_left" json:"latest_sessions_left,omitempty"`
	LatestEndDate      *time.Time `db:"latest_end_date" json:"latest_end_date,omitempty"`
}

type Stats struct {
	ActiveClients       int `db:"active_clients" json:"active_clients"`
	ActiveSubscriptions int `db:"active_subscriptions" json:"active_subscriptions"`
	TodayReservations   int `db:"today_reservations" json:"today_reservations"`
	PendingValidations  int `db:"pending_validations" json:"pending_validations"`
}

// Contact is what notifications need to reach a member.
type Contact struct {
	Email    string `db:"email"`
	FullName string `db:"full_name"`
}
