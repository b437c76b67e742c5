package treasury

import (
	"context"
	"testing"
	"time"

	"studiodesk/internal/apperr"
	"studiodesk/internal/ledger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, t Transaction) (*Transaction, error) {
	args := m.Called(ctx, t)
	if fn, ok := args.Get(0).(func(Transaction) *Transaction); ok {
		return fn(t), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Transaction), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int) (*Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Transaction), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, f ListFilter) ([]Transaction, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Transaction), args.Error(1)
}

func (m *MockRepository) Subtotals(ctx context.Context) ([]Subtotal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Subtotal), args.Error(1)
}

func (m *MockRepository) Clear(ctx context.Context, id int, at time.Time) (*Transaction, error) {
	args := m.Called(ctx, id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Transaction), args.Error(1)
}

func newTestService(repo Repository) Service {
	return NewService(repo, func() time.Time { return now }, nil)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func echoCreate(repo *MockRepository) {
	repo.On("Create", mock.Anything, mock.Anything).Return(func(t Transaction) *Transaction {
		t.ID = 1
		return &t
	}, nil)
}

func TestRecord_ChequeStartsPending(t *testing.T) {
	repo := new(MockRepository)
	echoCreate(repo)

	got, err := newTestService(repo).Record(context.Background(), 9, RecordRequest{
		Type: TypeIn, Amount: dec("2000"), Method: ledger.MethodCheque, Reference: "CHQ-118",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
	assert.Equal(t, DefaultCategory, got.Category)
	assert.Equal(t, now, got.Date)
	assert.Equal(t, 9, got.RecordedBy)
}

func TestRecord_CashAndTransferClearAtOnce(t *testing.T) {
	for _, method := range []ledger.PaymentMethod{ledger.MethodCash, ledger.MethodVirement} {
		t.Run(string(method), func(t *testing.T) {
			repo := new(MockRepository)
			echoCreate(repo)

			got, err := newTestService(repo).Record(context.Background(), 1, RecordRequest{
				Type: TypeOut, Amount: dec("350.455"), Category: "Ménage", Method: method,
			})

			require.NoError(t, err)
			assert.Equal(t, StatusCleared, got.Status)
			assert.Equal(t, "350.46", got.Amount.StringFixed(2))
		})
	}
}

func TestRecord_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  RecordRequest
	}{
		{"zero amount", RecordRequest{Type: TypeIn, Amount: decimal.Zero, Method: ledger.MethodCash}},
		{"negative amount", RecordRequest{Type: TypeIn, Amount: dec("-5"), Method: ledger.MethodCash}},
		{"sub-cent amount", RecordRequest{Type: TypeIn, Amount: dec("0.004"), Method: ledger.MethodCash}},
		{"expense without category", RecordRequest{Type: TypeOut, Amount: dec("100"), Category: "  ", Method: ledger.MethodCash}},
		{"unknown type", RecordRequest{Type: "TRANSFER", Amount: dec("100"), Method: ledger.MethodCash}},
		{"unknown method", RecordRequest{Type: TypeIn, Amount: dec("100"), Method: "CARD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			_, err := newTestService(repo).Record(context.Background(), 1, tt.req)
			assert.ErrorIs(t, err, apperr.Validation)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestMarkCleared(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Clear", mock.Anything, 4, now).
		Return(&Transaction{ID: 4, Type: TypeIn, Amount: dec("2000"), Method: ledger.MethodCheque, Status: StatusCleared}, nil)

	got, err := newTestService(repo).MarkCleared(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, StatusCleared, got.Status)
}

func TestMarkCleared_PropagatesInvalidState(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Clear", mock.Anything, 4, now).
		Return(nil, apperr.New(apperr.KindInvalidState, "only a pending cheque can be cashed"))

	_, err := newTestService(repo).MarkCleared(context.Background(), 4)

	assert.ErrorIs(t, err, apperr.InvalidState)
}

func TestSummarize(t *testing.T) {
	b := Summarize([]Subtotal{
		{Type: TypeIn, Method: ledger.MethodCash, Status: StatusCleared, Total: dec("1000")},
		{Type: TypeIn, Method: ledger.MethodVirement, Status: StatusCleared, Total: dec("500.50")},
		{Type: TypeIn, Method: ledger.MethodCheque, Status: StatusCleared, Total: dec("300")},
		{Type: TypeIn, Method: ledger.MethodCheque, Status: StatusPending, Total: dec("2000")},
		{Type: TypeOut, Method: ledger.MethodCash, Status: StatusCleared, Total: dec("250.25")},
		{Type: TypeOut, Method: ledger.MethodCheque, Status: StatusPending, Total: dec("400")},
	})

	assert.Equal(t, "1550.25", b.Available.StringFixed(2))
	assert.Equal(t, "1600.00", b.InClearing.StringFixed(2))
}

func TestSummarize_Empty(t *testing.T) {
	b := Summarize(nil)
	assert.True(t, b.Available.IsZero())
	assert.True(t, b.InClearing.IsZero())
}

func TestList_ClampsPaging(t *testing.T) {
	repo := new(MockRepository)
	repo.On("List", mock.Anything, ListFilter{Limit: maxListLimit, Offset: 0}).Return([]Transaction{}, nil)
	repo.On("Subtotals", mock.Anything).Return([]Subtotal{}, nil)

	listing, err := newTestService(repo).List(context.Background(), ListFilter{Limit: 10000, Offset: -3})

	require.NoError(t, err)
	assert.Empty(t, listing.Transactions)
	repo.AssertExpectations(t)
}

func TestList_RejectsUnknownType(t *testing.T) {
	_, err := newTestService(new(MockRepository)).List(context.Background(), ListFilter{Type: "BOTH"})
	assert.ErrorIs(t, err, apperr.Validation)
}
