package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/ibis1225/pet-ai/internal/domain/consultation"
	"github.com/ibis1225/pet-ai/internal/shared/biztime"
	db "github.com/ibis1225/pet-ai/internal/shared/db"
	apperrors "github.com/ibis1225/pet-ai/internal/shared/errors"
	"github.com/ibis1225/pet-ai/internal/shared/logger"
)

const (
	defaultMaxRetries = 5
	defaultRetryBase  = 20 * time.Millisecond
)

// TicketNumberOptions tunes retries around the counter store.
type TicketNumberOptions struct {
	MaxRetries uint64
	RetryBase  time.Duration
	// SharesTransaction is true when the store writes through the
	// transaction carried by ctx. Such a store is not retried inside a
	// transaction; the caller replays the whole unit instead.
	SharesTransaction bool
}

// TicketNumberService issues C<YYYYMMDD>-NNN numbers from a per-day
// counter keyed by the UTC date.
type TicketNumberService struct {
	store  consultation.CounterStore
	opts   TicketNumberOptions
	logger logger.Interface
}

func NewTicketNumberService(store consultation.CounterStore, opts TicketNumberOptions, log logger.Interface) *TicketNumberService {
	if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = defaultRetryBase
	}
	return &TicketNumberService{
		store:  store,
		opts:   opts,
		logger: log,
	}
}

func (s *TicketNumberService) NextTicketNumber(ctx context.Context, now time.Time) (string, error) {
	dateKey := biztime.DateKeyUTC(now)
	canRetry := !s.opts.SharesTransaction || !db.InTransaction(ctx)

	backoff := retry.WithMaxRetries(s.opts.MaxRetries,
		retry.WithJitterPercent(20, retry.NewExponential(s.opts.RetryBase)))

	var seq int64
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		v, err := s.store.Increment(ctx, dateKey)
		if err == nil {
			seq = v
			return nil
		}
		if canRetry && apperrors.IsRetryableStorageError(err) {
			s.logger.Warnw("ticket counter conflict, retrying",
				"date_key", dateKey,
				"attempt", attempt,
				"error", err)
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to allocate ticket sequence for %s: %w", dateKey, err)
	}

	return consultation.FormatTicketNumber(dateKey, seq), nil
}
