package treasury

import (
	"context"
	"strings"
	"time"

	"studiodesk/internal/apperr"
	"studiodesk/internal/events"
	"studiodesk/internal/ledger"
	"studiodesk/internal/logger"
	"studiodesk/internal/metrics"

	"github.com/shopspring/decimal"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type Service interface {
	Record(ctx context.Context, recordedBy int, req RecordRequest) (*Transaction, error)
	MarkCleared(ctx context.Context, id int) (*Transaction, error)
	ComputeBalance(ctx context.Context) (*Balance, error)
	List(ctx context.Context, f ListFilter) (*Listing, error)
}

type service struct {
	repo      Repository
	now       func() time.Time
	publisher events.Publisher
}

func NewService(repo Repository, now func() time.Time, publisher events.Publisher) Service {
	if now == nil {
		now = time.Now
	}
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &service{repo: repo, now: now, publisher: publisher}
}

func (s *service) Record(ctx context.Context, recordedBy int, req RecordRequest) (*Transaction, error) {
	t, err := s.transactionFromRequest(req)
	if err != nil {
		return nil, err
	}
	t.RecordedBy = recordedBy

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, err
	}

	metrics.RecordTreasury(string(created.Type), string(created.Method))
	logger.Info("treasury entry recorded",
		"transaction_id", created.ID,
		"type", created.Type,
		"amount", created.Amount.StringFixed(2),
		"method", created.Method,
		"status", created.Status,
		"recorded_by", recordedBy,
	)
	events.Emit(ctx, s.publisher, events.TreasuryRecorded, map[string]any{
		"transaction_id": created.ID,
		"type":           created.Type,
		"amount":         created.Amount,
		"category":       created.Category,
		"method":         created.Method,
	})
	return created, nil
}

func (s *service) transactionFromRequest(req RecordRequest) (Transaction, error) {
	if req.Type != TypeIn && req.Type != TypeOut {
		return Transaction{}, apperr.Validationf("type must be IN or OUT").With("type", string(req.Type))
	}
	amount := ledger.Round(req.Amount)
	if !amount.IsPositive() {
		return Transaction{}, apperr.Validationf("amount must be at least one cent").With("amount", req.Amount.String())
	}
	if !req.Method.Valid() {
		return Transaction{}, apperr.Validationf("unknown payment method").With("method", string(req.Method))
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		if req.Type == TypeOut {
			return Transaction{}, apperr.Validationf("an expense needs a category")
		}
		category = DefaultCategory
	}

	status := StatusCleared
	if req.Method == ledger.MethodCheque {
		status = StatusPending
	}

	date := s.now()
	if req.Date != nil {
		date = *req.Date
	}

	return Transaction{
		Type:        req.Type,
		Amount:      amount,
		Category:    category,
		Description: strings.TrimSpace(req.Description),
		Method:      req.Method,
		Reference:   strings.TrimSpace(req.Reference),
		Status:      status,
		Date:        date,
	}, nil
}

// MarkCleared records that a pending cheque has been cashed.
func (s *service) MarkCleared(ctx context.Context, id int) (*Transaction, error) {
	cleared, err := s.repo.Clear(ctx, id, s.now())
	if err != nil {
		return nil, err
	}
	logger.Info("cheque cleared",
		"transaction_id", cleared.ID,
		"type", cleared.Type,
		"amount", cleared.Amount.StringFixed(2),
	)
	return cleared, nil
}

func (s *service) ComputeBalance(ctx context.Context) (*Balance, error) {
	subtotals, err := s.repo.Subtotals(ctx)
	if err != nil {
		return nil, err
	}
	b := Summarize(subtotals)
	return &b, nil
}

// Summarize folds subtotals into the available balance (cash, transfers
// and cleared cheques) and the amount still in clearing (pending cheques).
// Both are IN minus OUT.
func Summarize(subtotals []Subtotal) Balance {
	available, clearing := decimal.Zero, decimal.Zero
	for _, st := range subtotals {
		amount := st.Total
		if st.Type == TypeOut {
			amount = amount.Neg()
		}
		if st.Method == ledger.MethodCheque && st.Status == StatusPending {
			clearing = clearing.Add(amount)
			continue
		}
		available = available.Add(amount)
	}
	return Balance{Available: ledger.Round(available), InClearing: ledger.Round(clearing)}
}

func (s *service) List(ctx context.Context, f ListFilter) (*Listing, error) {
	if f.Type != "" && f.Type != TypeIn && f.Type != TypeOut {
		return nil, apperr.Validationf("type must be IN or OUT").With("type", string(f.Type))
	}
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	f.Limit = min(f.Limit, maxListLimit)
	f.Offset = max(f.Offset, 0)

	txs, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	balance, err := s.ComputeBalance(ctx)
	if err != nil {
		return nil, err
	}
	return &Listing{Transactions: txs, Stats: *balance}, nil
}
