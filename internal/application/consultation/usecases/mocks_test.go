package usecases

import (
	"context"
	"time"

	"github.com/ibis1225/pet-ai/internal/domain/consultation"
	"github.com/ibis1225/pet-ai/internal/shared/biztime"
)

type mockConsultationRepository struct {
	CreateFunc             func(ctx context.Context, c *consultation.Consultation) error
	UpdateFunc             func(ctx context.Context, c *consultation.Consultation) error
	GetByIDFunc            func(ctx context.Context, id string) (*consultation.Consultation, error)
	GetByIDForUpdateFunc   func(ctx context.Context, id string) (*consultation.Consultation, error)
	GetByTicketNumberFunc  func(ctx context.Context, number string) (*consultation.Consultation, error)
	GetActiveFunc          func(ctx context.Context, channel, channelUserID string) (*consultation.Consultation, error)
	GetActiveForUpdateFunc func(ctx context.Context, channel, channelUserID string) (*consultation.Consultation, error)
	ListByUserFunc         func(ctx context.Context, channel, channelUserID string, limit int) ([]*consultation.Consultation, error)
	ListFunc               func(ctx context.Context, filter consultation.Filter) ([]*consultation.Consultation, int64, error)
	StatsFunc              func(ctx context.Context, todayStart, todayEnd time.Time) (*consultation.Stats, error)
}

func (m *mockConsultationRepository) Create(ctx context.Context, c *consultation.Consultation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *mockConsultationRepository) Update(ctx context.Context, c *consultation.Consultation) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, c)
	}
	return nil
}

func (m *mockConsultationRepository) GetByID(ctx context.Context, id string) (*consultation.Consultation, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, consultation.ErrNotFound
}

func (m *mockConsultationRepository) GetByIDForUpdate(ctx context.Context, id string) (*consultation.Consultation, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, id)
	}
	return nil, consultation.ErrNotFound
}

func (m *mockConsultationRepository) GetByTicketNumber(ctx context.Context, number string) (*consultation.Consultation, error) {
	if m.GetByTicketNumberFunc != nil {
		return m.GetByTicketNumberFunc(ctx, number)
	}
	return nil, consultation.ErrNotFound
}

func (m *mockConsultationRepository) GetActive(ctx context.Context, channel, channelUserID string) (*consultation.Consultation, error) {
	if m.GetActiveFunc != nil {
		return m.GetActiveFunc(ctx, channel, channelUserID)
	}
	return nil, consultation.ErrNotFound
}

func (m *mockConsultationRepository) GetActiveForUpdate(ctx context.Context, channel, channelUserID string) (*consultation.Consultation, error) {
	if m.GetActiveForUpdateFunc != nil {
		return m.GetActiveForUpdateFunc(ctx, channel, channelUserID)
	}
	return nil, consultation.ErrNotFound
}

func (m *mockConsultationRepository) ListByUser(ctx context.Context, channel, channelUserID string, limit int) ([]*consultation.Consultation, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, channel, channelUserID, limit)
	}
	return nil, nil
}

func (m *mockConsultationRepository) List(ctx context.Context, filter consultation.Filter) ([]*consultation.Consultation, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockConsultationRepository) Stats(ctx context.Context, todayStart, todayEnd time.Time) (*consultation.Stats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, todayStart, todayEnd)
	}
	return &consultation.Stats{}, nil
}

// mockTxRunner calls fn directly and counts the attempts.
type mockTxRunner struct {
	calls int
}

func (m *mockTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockNumberer struct {
	NextTicketNumberFunc func(ctx context.Context, now time.Time) (string, error)
}

func (m *mockNumberer) NextTicketNumber(ctx context.Context, now time.Time) (string, error) {
	if m.NextTicketNumberFunc != nil {
		return m.NextTicketNumberFunc(ctx, now)
	}
	return consultation.FormatTicketNumber(biztime.DateKeyUTC(now), 1), nil
}

type mockDeduplicator struct {
	MarkIfFirstFunc func(ctx context.Context, deliveryID string) (bool, error)
	forgotten       []string
}

func (m *mockDeduplicator) MarkIfFirst(ctx context.Context, deliveryID string) (bool, error) {
	if m.MarkIfFirstFunc != nil {
		return m.MarkIfFirstFunc(ctx, deliveryID)
	}
	return true, nil
}

func (m *mockDeduplicator) Forget(_ context.Context, deliveryID string) error {
	m.forgotten = append(m.forgotten, deliveryID)
	return nil
}

type mockNotifier struct {
	sent chan *consultation.Consultation
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{sent: make(chan *consultation.Consultation, 1)}
}

func (m *mockNotifier) NotifySubmitted(_ context.Context, c *consultation.Consultation) error {
	m.sent <- c
	return nil
}
