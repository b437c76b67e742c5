package user

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, u User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id int, fullName, phone string) (*User, error)
	Contact(ctx context.Context, id int) (*Contact, error)
	ListClients(ctx context.Context, search string) ([]ClientSummary, error)
	// Stats counts against now and the studio day [dayStart, dayEnd).
	Stats(ctx context.Context, now, dayStart, dayEnd time.Time) (*Stats, error)
}
