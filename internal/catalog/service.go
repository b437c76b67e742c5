package catalog

import (
	"context"
	"strings"

	"studiodesk/internal/apperr"
	"studiodesk/internal/logger"

	"github.com/shopspring/decimal"
)

type Service interface {
	ListActive(ctx context.Context) ([]PackTemplate, error)
	ListAll(ctx context.Context) ([]PackTemplate, error)
	Get(ctx context.Context, code string) (*PackTemplate, error)
	Create(ctx context.Context, req CreatePackRequest) (*PackTemplate, error)
	Update(ctx context.Context, code string, req UpdatePackRequest) (*PackTemplate, error)
	Archive(ctx context.Context, code string) error
	Delete(ctx context.Context, code string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListActive(ctx context.Context) ([]PackTemplate, error) {
	return s.repo.ListActive(ctx)
}

func (s *service) ListAll(ctx context.Context) ([]PackTemplate, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) Get(ctx context.Context, code string) (*PackTemplate, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *service) Create(ctx context.Context, req CreatePackRequest) (*PackTemplate, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, apperr.Validationf("code is required")
	}
	if err := validateTerms(req.Price, req.SessionCount, req.ValidityDays); err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	p, err := s.repo.Create(ctx, PackTemplate{
		Code:         code,
		Name:         strings.TrimSpace(req.Name),
		Price:        req.Price.Round(2),
		SessionCount: req.SessionCount,
		ValidityDays: req.ValidityDays,
		Active:       active,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("pack created", "code", p.Code, "price", p.Price.StringFixed(2), "sessions", p.SessionCount)
	return p, nil
}

func (s *service) Update(ctx context.Context, code string, req UpdatePackRequest) (*PackTemplate, error) {
	if err := validateTerms(req.Price, req.SessionCount, req.ValidityDays); err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, PackTemplate{
		Code:         code,
		Name:         strings.TrimSpace(req.Name),
		Price:        req.Price.Round(2),
		SessionCount: req.SessionCount,
		ValidityDays: req.ValidityDays,
		Active:       req.Active,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("pack updated", "code", p.Code, "active", p.Active)
	return p, nil
}

func (s *service) Archive(ctx context.Context, code string) error {
	if err := s.repo.SetActive(ctx, code, false); err != nil {
		return err
	}
	logger.Info("pack archived", "code", code)
	return nil
}

func (s *service) Delete(ctx context.Context, code string) error {
	n, err := s.repo.CountSubscriptions(ctx, code)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.New(apperr.KindReferentialConflict, "pack is referenced by subscriptions, archive it instead").
			With("code", code).
			With("subscriptions", n)
	}

	if err := s.repo.Delete(ctx, code); err != nil {
		return err
	}
	logger.Info("pack deleted", "code", code)
	return nil
}

func validateTerms(price decimal.Decimal, sessions, validityDays int) error {
	if price.IsNegative() {
		return apperr.Validationf("price must not be negative").With("price", price.String())
	}
	if sessions < 1 {
		return apperr.Validationf("session count must be at least 1").With("session_count", sessions)
	}
	if validityDays < 1 {
		return apperr.Validationf("validity must be at least 1 day").With("validity_days", validityDays)
	}
	return nil
}
