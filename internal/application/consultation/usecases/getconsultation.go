package usecases

import (
	"context"
	stderrors "errors"

	"github.com/ibis1225/pet-ai/internal/application/consultation/dto"
	"github.com/ibis1225/pet-ai/internal/domain/consultation"
	"github.com/ibis1225/pet-ai/internal/shared/errors"
	"github.com/ibis1225/pet-ai/internal/shared/logger"
)

// GetConsultationQuery looks up by ID, or by ticket number when ID is empty.
type GetConsultationQuery struct {
	ID           string
	TicketNumber string
}

type GetConsultationUseCase struct {
	repo   consultation.Repository
	logger logger.Interface
}

func NewGetConsultationUseCase(repo consultation.Repository, logger logger.Interface) *GetConsultationUseCase {
	return &GetConsultationUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *GetConsultationUseCase) Execute(ctx context.Context, query GetConsultationQuery) (*dto.ConsultationDTO, error) {
	var (
		c   *consultation.Consultation
		err error
	)
	switch {
	case query.ID != "":
		c, err = uc.repo.GetByID(ctx, query.ID)
	case query.TicketNumber != "":
		if !consultation.TicketNumberPattern.MatchString(query.TicketNumber) {
			return nil, errors.NewValidationError("invalid ticket number", query.TicketNumber)
		}
		c, err = uc.repo.GetByTicketNumber(ctx, query.TicketNumber)
	default:
		return nil, errors.NewValidationError("consultation ID or ticket number is required")
	}

	if stderrors.Is(err, consultation.ErrNotFound) {
		return nil, errors.NewNotFoundError("consultation not found")
	}
	if err != nil {
		uc.logger.Errorw("failed to get consultation", "id", query.ID, "ticket_number", query.TicketNumber, "error", err)
		return nil, errors.NewInternalError("failed to get consultation")
	}
	return dto.ToConsultationDTO(c), nil
}
