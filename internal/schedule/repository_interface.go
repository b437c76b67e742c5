package schedule

import (
	"context"
	"time"
)

type Repository interface {
	List(ctx context.Context, activeOnly bool) ([]Slot, error)
	GetByID(ctx context.Context, id int) (*Slot, error)
	Create(ctx context.Context, s Slot) (*Slot, error)
	Update(ctx context.Context, s Slot) (*Slot, error)
	CountFutureReservations(ctx context.Context, id int, after time.Time) (int, error)
	Delete(ctx context.Context, id int) error
}
