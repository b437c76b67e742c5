package catalog

import (
	"context"
	"errors"
	"testing"

	"studiodesk/internal/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListActive(ctx context.Context) ([]PackTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PackTemplate), args.Error(1)
}

func (m *MockRepository) ListAll(ctx context.Context) ([]PackTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PackTemplate), args.Error(1)
}

func (m *MockRepository) GetByCode(ctx context.Context, code string) (*PackTemplate, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PackTemplate), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, p PackTemplate) (*PackTemplate, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PackTemplate), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, p PackTemplate) (*PackTemplate, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PackTemplate), args.Error(1)
}

func (m *MockRepository) SetActive(ctx context.Context, code string, active bool) error {
	return m.Called(ctx, code, active).Error(0)
}

func (m *MockRepository) CountSubscriptions(ctx context.Context, code string) (int, error) {
	args := m.Called(ctx, code)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

func TestService_Create(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(p PackTemplate) bool {
		return p.Code == "STD" && p.Price.Equal(decimal.NewFromInt(1000)) && p.SessionCount == 10 && p.Active
	})).Return(&PackTemplate{Code: "STD", Name: "Standard", Price: decimal.NewFromInt(1000), SessionCount: 10, ValidityDays: 30, Active: true}, nil)

	pack, err := svc.Create(context.Background(), CreatePackRequest{
		Code:         " std ",
		Name:         "Standard",
		Price:        decimal.NewFromInt(1000),
		SessionCount: 10,
		ValidityDays: 30,
	})

	require.NoError(t, err)
	assert.Equal(t, "STD", pack.Code)
	repo.AssertExpectations(t)
}

func TestService_Create_Unlimited(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("Create", mock.Anything, mock.Anything).
		Return(&PackTemplate{Code: "UNL", SessionCount: UnlimitedSessions, ValidityDays: 30}, nil)

	pack, err := svc.Create(context.Background(), CreatePackRequest{
		Code: "UNL", Name: "Illimité", Price: decimal.NewFromInt(900), SessionCount: UnlimitedSessions, ValidityDays: 30,
	})

	require.NoError(t, err)
	assert.True(t, pack.Unlimited())
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  CreatePackRequest
	}{
		{"negative price", CreatePackRequest{Code: "A", Name: "A", Price: decimal.NewFromInt(-1), SessionCount: 1, ValidityDays: 1}},
		{"zero sessions", CreatePackRequest{Code: "A", Name: "A", Price: decimal.Zero, SessionCount: 0, ValidityDays: 1}},
		{"zero validity", CreatePackRequest{Code: "A", Name: "A", Price: decimal.Zero, SessionCount: 4, ValidityDays: 0}},
		{"blank code", CreatePackRequest{Code: "  ", Name: "A", Price: decimal.Zero, SessionCount: 4, ValidityDays: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			svc := NewService(repo)

			_, err := svc.Create(context.Background(), tt.req)

			assert.ErrorIs(t, err, apperr.Validation)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Update_KeepsCode(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("Update", mock.Anything, mock.MatchedBy(func(p PackTemplate) bool {
		return p.Code == "STD" && p.Price.Equal(decimal.RequireFromString("1099.99"))
	})).Return(&PackTemplate{Code: "STD"}, nil)

	_, err := svc.Update(context.Background(), "STD", UpdatePackRequest{
		Name: "Standard", Price: decimal.RequireFromString("1099.994"), SessionCount: 10, ValidityDays: 30, Active: true,
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

// Delete blocked while referenced, archive succeeds and drops the pack from
// the active list.
func TestService_DeleteReferencedThenArchive(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("CountSubscriptions", ctx, "STD").Return(1, nil)
	repo.On("SetActive", ctx, "STD", false).Return(nil)
	repo.On("ListActive", ctx).Return([]PackTemplate{{Code: "DUO", Active: true}}, nil)

	err := svc.Delete(ctx, "STD")
	assert.ErrorIs(t, err, apperr.ReferentialConflict)
	assert.Equal(t, 1, apperr.DetailsOf(err)["subscriptions"])
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	require.NoError(t, svc.Archive(ctx, "STD"))

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	for _, p := range active {
		assert.NotEqual(t, "STD", p.Code)
	}
}

func TestService_Delete_Unreferenced(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("CountSubscriptions", mock.Anything, "TRIAL").Return(0, nil)
	repo.On("Delete", mock.Anything, "TRIAL").Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), "TRIAL"))
	repo.AssertExpectations(t)
}

func TestService_Delete_CountFails(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("CountSubscriptions", mock.Anything, "STD").Return(0, errors.New("db down"))

	err := svc.Delete(context.Background(), "STD")
	assert.EqualError(t, err, "db down")
}
