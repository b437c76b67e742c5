package catalog

import "context"

type Repository interface {
	ListActive(ctx context.Context) ([]PackTemplate, error)
	ListAll(ctx context.Context) ([]PackTemplate, error)
	GetByCode(ctx context.Context, code string) (*PackTemplate, error)
	Create(ctx context.Context, p PackTemplate) (*PackTemplate, error)
	Update(ctx context.Context, p PackTemplate) (*PackTemplate, error)
	SetActive(ctx context.Context, code string, active bool) error
	CountSubscriptions(ctx context.Context, code string) (int, error)
	Delete(ctx context.Context, code string) error
}
