package subscription

import (
	"context"
	"strings"
	"time"

	"studiodesk/internal/apperr"
	"studiodesk/internal/auth"
	"studiodesk/internal/catalog"
	"studiodesk/internal/events"
	"studiodesk/internal/ledger"
	"studiodesk/internal/logger"
	"studiodesk/internal/metrics"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Activation channels, used as a metrics label.
const (
	channelValidation = "validation"
	channelForced     = "forced"
	channelWalkIn     = "walk_in"
)

type PackLookup interface {
	Get(ctx context.Context, code string) (*catalog.PackTemplate, error)
}

// Notifier tells the member about lifecycle changes. Implementations must
// not block on delivery.
type Notifier interface {
	SubscriptionActivated(ctx context.Context, userID int, packCode string, sessions int, endDate time.Time)
}

type Options struct {
	Location  *time.Location
	Now       func() time.Time
	Notifier  Notifier
	Publisher events.Publisher
}

type Service interface {
	Request(ctx context.Context, userID int, packCode string) (*Subscription, error)
	Validate(ctx context.Context, id int, req ValidateRequest) (*Subscription, error)
	ForceActivate(ctx context.Context, id int) (*Subscription, error)
	RecordAdditionalPayment(ctx context.Context, req PaymentRequest) (*Subscription, error)
	SellWalkIn(ctx context.Context, req WalkInRequest) (*Subscription, error)
	Get(ctx context.Context, actor auth.Actor, id int) (*Subscription, error)
	ListByUser(ctx context.Context, userID int) ([]Subscription, error)
	ListPending(ctx context.Context) ([]PendingSubscription, error)
	ExpireEnded(ctx context.Context) (int64, error)
}

type service struct {
	repo      Repository
	packs     PackLookup
	loc       *time.Location
	now       func() time.Time
	notifier  Notifier
	publisher events.Publisher
}

func NewService(repo Repository, packs PackLookup, opts Options) Service {
	s := &service{
		repo:      repo,
		packs:     packs,
		loc:       opts.Location,
		now:       opts.Now,
		notifier:  opts.Notifier,
		publisher: opts.Publisher,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.publisher == nil {
		s.publisher = events.NewNopPublisher()
	}
	return s
}

func (s *service) Request(ctx context.Context, userID int, packCode string) (*Subscription, error) {
	pack, err := s.activePack(ctx, packCode)
	if err != nil {
		return nil, err
	}

	var created *Subscription
	err = s.repo.WithTx(ctx, func(tx Tx) error {
		created, err = tx.Create(ctx, pendingFrom(userID, pack))
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("subscription requested", "subscription_id", created.ID, "user_id", userID, "pack", pack.Code)
	created.project(s.now())
	return created, nil
}

func (s *service) Validate(ctx context.Context, id int, req ValidateRequest) (*Subscription, error) {
	start, err := s.startDate(req.StartDate)
	if err != nil {
		return nil, err
	}

	var (
		activated *Subscription
		payment   *ledger.Payment
	)
	err = s.repo.WithTx(ctx, func(tx Tx) error {
		sub, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sub.Status != StatusPending {
			return apperr.New(apperr.KindInvalidState, "only pending subscriptions can be validated").
				With("status", string(sub.Status))
		}
		activated, payment, err = s.activate(ctx, tx, sub, req.Method, req.Reference, req.AmountPaid, start)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterActivation(ctx, activated, payment, channelValidation)
	return activated, nil
}

func (s *service) ForceActivate(ctx context.Context, id int) (*Subscription, error) {
	start := s.today()

	var activated *Subscription
	err := s.repo.WithTx(ctx, func(tx Tx) error {
		sub, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sub.Status != StatusPending {
			return apperr.New(apperr.KindInvalidState, "only pending subscriptions can be activated").
				With("status", string(sub.Status))
		}
		end := start.AddDate(0, 0, sub.ValidityDays)
		activated, err = tx.Activate(ctx, sub.ID, start, end, sub.AmountPaid, sub.AmountDue)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterActivation(ctx, activated, nil, channelForced)
	return activated, nil
}

func (s *service) RecordAdditionalPayment(ctx context.Context, req PaymentRequest) (*Subscription, error) {
	amount := ledger.Round(req.Amount)
	if !amount.IsPositive() {
		return nil, apperr.Validationf("amount must be positive")
	}
	if err := ledger.CheckMethod(req.Method, req.Reference); err != nil {
		return nil, err
	}

	var (
		updated *Subscription
		payment *ledger.Payment
	)
	err := s.repo.WithTx(ctx, func(tx Tx) error {
		sub, err := tx.GetForUpdate(ctx, req.SubscriptionID)
		if err != nil {
			return err
		}
		if ledger.Settled(sub.AmountDue) {
			return apperr.New(apperr.KindInvalidState, "subscription is fully paid").
				With("amount_due", sub.AmountDue.StringFixed(2))
		}
		if amount.GreaterThan(sub.AmountDue) {
			return apperr.Validationf("amount exceeds the amount due").
				With("amount_due", sub.AmountDue.StringFixed(2))
		}

		payment, err = tx.AppendPayment(ctx, ledger.Payment{
			SubscriptionID: sub.ID,
			Amount:         amount,
			Method:         req.Method,
			Reference:      strings.TrimSpace(req.Reference),
			PaymentDate:    s.now(),
		})
		if err != nil {
			return err
		}

		paid := ledger.Round(sub.AmountPaid.Add(amount))
		updated, err = tx.ApplyPayment(ctx, sub.ID, paid, ledger.Round(sub.Price.Sub(paid)))
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("payment recorded", "subscription_id", updated.ID, "amount", amount.StringFixed(2),
		"method", req.Method, "amount_due", updated.AmountDue.StringFixed(2))
	s.paymentRecorded(ctx, updated, payment)
	updated.project(s.now())
	return updated, nil
}

// SellWalkIn creates and activates a subscription in one transaction for a
// member paying at the desk.
func (s *service) SellWalkIn(ctx context.Context, req WalkInRequest) (*Subscription, error) {
	pack, err := s.activePack(ctx, req.PackCode)
	if err != nil {
		return nil, err
	}
	start, err := s.startDate(req.StartDate)
	if err != nil {
		return nil, err
	}

	var (
		activated *Subscription
		payment   *ledger.Payment
	)
	err = s.repo.WithTx(ctx, func(tx Tx) error {
		sub, err := tx.Create(ctx, pendingFrom(req.UserID, pack))
		if err != nil {
			return err
		}
		activated, payment, err = s.activate(ctx, tx, sub, req.Method, req.Reference, req.AmountPaid, start)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterActivation(ctx, activated, payment, channelWalkIn)
	return activated, nil
}

func (s *service) Get(ctx context.Context, actor auth.Actor, id int) (*Subscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(sub.UserID) {
		return nil, apperr.New(apperr.KindForbidden, "subscription belongs to another user")
	}
	sub.project(s.now())
	return sub, nil
}

func (s *service) ListByUser(ctx context.Context, userID int) ([]Subscription, error) {
	subs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range subs {
		subs[i].project(now)
	}
	return subs, nil
}

func (s *service) ListPending(ctx context.Context) ([]PendingSubscription, error) {
	pending, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range pending {
		pending[i].project(now)
	}
	return pending, nil
}

// ExpireEnded stores EXPIRED on active subscriptions past their end date.
// Reads never depend on it having run.
func (s *service) ExpireEnded(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpireEnded(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.RecordSubscriptionsExpired(n)
		logger.Info("subscriptions expired", "count", n)
	}
	return n, nil
}

// activate moves a locked PENDING subscription to ACTIVE, recording the
// payment taken at the desk if any.
func (s *service) activate(ctx context.Context, tx Tx, sub *Subscription, method ledger.PaymentMethod, reference string, amountNow decimal.Decimal, start time.Time) (*Subscription, *ledger.Payment, error) {
	amount := ledger.Round(amountNow)
	if amount.IsNegative() {
		return nil, nil, apperr.Validationf("amount paid must not be negative")
	}
	if amount.GreaterThan(sub.AmountDue) {
		return nil, nil, apperr.Validationf("amount paid exceeds the price").
			With("price", sub.Price.StringFixed(2)).
			With("amount_due", sub.AmountDue.StringFixed(2))
	}

	var payment *ledger.Payment
	if amount.IsPositive() || method != "" {
		if err := ledger.CheckMethod(method, reference); err != nil {
			return nil, nil, err
		}
	}
	if amount.IsPositive() {
		var err error
		payment, err = tx.AppendPayment(ctx, ledger.Payment{
			SubscriptionID: sub.ID,
			Amount:         amount,
			Method:         method,
			Reference:      strings.TrimSpace(reference),
			PaymentDate:    s.now(),
		})
		if err != nil {
			return nil, nil, err
		}
	}

	paid := ledger.Round(sub.AmountPaid.Add(amount))
	due := ledger.Round(sub.Price.Sub(paid))
	end := start.AddDate(0, 0, sub.ValidityDays)

	activated, err := tx.Activate(ctx, sub.ID, start, end, paid, due)
	if err != nil {
		return nil, nil, err
	}
	return activated, payment, nil
}

func (s *service) afterActivation(ctx context.Context, sub *Subscription, payment *ledger.Payment, channel string) {
	sub.project(s.now())

	logger.Info("subscription activated",
		"subscription_id", sub.ID,
		"user_id", sub.UserID,
		"pack", sub.TemplateCode,
		"channel", channel,
		"amount_paid", sub.AmountPaid.StringFixed(2),
		"amount_due", sub.AmountDue.StringFixed(2),
	)
	metrics.RecordSubscriptionActivated(sub.TemplateCode, channel)

	events.Emit(ctx, s.publisher, events.SubscriptionActivated, map[string]any{
		"subscription_id": sub.ID,
		"user_id":         sub.UserID,
		"pack_code":       sub.TemplateCode,
		"sessions_left":   sub.SessionsLeft,
		"end_date":        sub.EndDate,
		"channel":         channel,
	})
	if payment != nil {
		s.paymentRecorded(ctx, sub, payment)
	}
	if s.notifier != nil && sub.EndDate != nil {
		s.notifier.SubscriptionActivated(ctx, sub.UserID, sub.TemplateCode, sub.SessionsLeft, *sub.EndDate)
	}
}

func (s *service) paymentRecorded(ctx context.Context, sub *Subscription, p *ledger.Payment) {
	metrics.RecordPayment(string(p.Method), p.Amount.InexactFloat64())
	events.Emit(ctx, s.publisher, events.PaymentRecorded, map[string]any{
		"payment_id":      p.ID,
		"subscription_id": sub.ID,
		"amount":          p.Amount,
		"method":          p.Method,
		"amount_due":      sub.AmountDue,
	})
}

func (s *service) activePack(ctx context.Context, code string) (*catalog.PackTemplate, error) {
	pack, err := s.packs.Get(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if !pack.Active {
		return nil, apperr.NotFoundf("pack is not on sale").With("code", pack.Code)
	}
	return pack, nil
}

func (s *service) today() time.Time {
	n := s.now().In(s.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, s.loc)
}

func (s *service) startDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return s.today(), nil
	}
	t, err := time.ParseInLocation(dateLayout, v, s.loc)
	if err != nil {
		return time.Time{}, apperr.Validationf("start date must be YYYY-MM-DD").With("start_date", v)
	}
	return t, nil
}

func pendingFrom(userID int, pack *catalog.PackTemplate) Subscription {
	price := ledger.Round(pack.Price)
	return Subscription{
		UserID:        userID,
		TemplateCode:  pack.Code,
		Price:         price,
		ValidityDays:  pack.ValidityDays,
		SessionsTotal: pack.SessionCount,
		SessionsLeft:  pack.SessionCount,
		Status:        StatusPending,
		AmountPaid:    decimal.Zero,
		AmountDue:     price,
	}
}
