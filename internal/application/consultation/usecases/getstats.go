package usecases

import (
	"context"
	"time"

	"github.com/ibis1225/pet-ai/internal/application/consultation/dto"
	"github.com/ibis1225/pet-ai/internal/domain/consultation"
	"github.com/ibis1225/pet-ai/internal/shared/biztime"
	"github.com/ibis1225/pet-ai/internal/shared/errors"
	"github.com/ibis1225/pet-ai/internal/shared/logger"
)

// GetStatsUseCase counts consultations. "Today" is the current day in
// the business timezone.
type GetStatsUseCase struct {
	repo   consultation.Repository
	logger logger.Interface
	now    func() time.Time
}

func NewGetStatsUseCase(repo consultation.Repository, logger logger.Interface) *GetStatsUseCase {
	return &GetStatsUseCase{
		repo:   repo,
		logger: logger,
		now:    biztime.NowUTC,
	}
}

func (uc *GetStatsUseCase) Execute(ctx context.Context) (*dto.StatsDTO, error) {
	now := uc.now()
	stats, err := uc.repo.Stats(ctx, biztime.StartOfDayUTC(now), biztime.EndOfDayUTC(now))
	if err != nil {
		uc.logger.Errorw("failed to get consultation stats", "error", err)
		return nil, errors.NewInternalError("failed to get consultation stats")
	}
	return dto.ToStatsDTO(stats), nil
}
