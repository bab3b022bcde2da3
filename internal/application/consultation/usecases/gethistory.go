package usecases

import (
	"context"

	"github.com/ibis1225/pet-ai/internal/application/consultation/dto"
	"github.com/ibis1225/pet-ai/internal/domain/consultation"
	"github.com/ibis1225/pet-ai/internal/shared/constants"
	"github.com/ibis1225/pet-ai/internal/shared/errors"
	"github.com/ibis1225/pet-ai/internal/shared/logger"
)

type GetUserHistoryQuery struct {
	Channel       string
	ChannelUserID string
	Limit         int
}

// GetUserHistoryUseCase lists a guardian's consultations, newest first.
type GetUserHistoryUseCase struct {
	repo   consultation.Repository
	logger logger.Interface
}

func NewGetUserHistoryUseCase(repo consultation.Repository, logger logger.Interface) *GetUserHistoryUseCase {
	return &GetUserHistoryUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *GetUserHistoryUseCase) Execute(ctx context.Context, query GetUserHistoryQuery) ([]*dto.ConsultationDTO, error) {
	if err := validateUser(query.Channel, query.ChannelUserID); err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit < 1 {
		limit = constants.DefaultHistoryLimit
	}
	if limit > constants.MaxHistoryLimit {
		limit = constants.MaxHistoryLimit
	}

	list, err := uc.repo.ListByUser(ctx, query.Channel, query.ChannelUserID, limit)
	if err != nil {
		uc.logger.Errorw("failed to list user consultations", "channel", query.Channel, "error", err)
		return nil, errors.NewInternalError("failed to list consultations")
	}
	return dto.ToConsultationDTOList(list), nil
}
