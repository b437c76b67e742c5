package ledger

import (
	"context"
	"time"

	"studiodesk/internal/apperr"
	"studiodesk/internal/auth"
	"studiodesk/internal/catalog"
)

// Service exposes the read side of the subscription ledger. Writes happen
// only as part of subscription and reservation operations.
type Service interface {
	PaymentsFor(ctx context.Context, actor auth.Actor, subscriptionID int) ([]Payment, error)
	CreditBalance(ctx context.Context, actor auth.Actor, subscriptionID int) (*Balance, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}
}

func (s *service) PaymentsFor(ctx context.Context, actor auth.Actor, subscriptionID int) ([]Payment, error) {
	b, err := s.repo.Balance(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(b.OwnerID) {
		return nil, apperr.New(apperr.KindForbidden, "subscription belongs to another user")
	}
	return s.repo.PaymentsFor(ctx, subscriptionID)
}

func (s *service) CreditBalance(ctx context.Context, actor auth.Actor, subscriptionID int) (*Balance, error) {
	b, err := s.repo.Balance(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(b.OwnerID) {
		return nil, apperr.New(apperr.KindForbidden, "subscription belongs to another user")
	}

	b.Unlimited = b.SessionsTotal == catalog.UnlimitedSessions
	if b.EndDate != nil && b.EndDate.Before(s.now()) {
		b.Expired = true
		if b.Status == "ACTIVE" {
			b.Status = "EXPIRED"
		}
	}
	return b, nil
}
