package usecases

import (
	"context"
	stderrors "errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ibis1225/pet-ai/internal/application/consultation/dto"
	"github.com/ibis1225/pet-ai/internal/domain/consultation"
	vo "github.com/ibis1225/pet-ai/internal/domain/consultation/valueobjects"
	"github.com/ibis1225/pet-ai/internal/shared/biztime"
	"github.com/ibis1225/pet-ai/internal/shared/errors"
	"github.com/ibis1225/pet-ai/internal/shared/logger"
)

const maxAdminNotesRunes = 5000

// UpdateConsultationCommand carries an operator edit. Nil fields are left
// unchanged.
type UpdateConsultationCommand struct {
	ID         string
	Status     *string
	AssignedTo *string
	AdminNotes *string
	UpdatedBy  string
}

type UpdateConsultationUseCase struct {
	repo   consultation.Repository
	txm    TransactionRunner
	logger logger.Interface
	now    func() time.Time
}

func NewUpdateConsultationUseCase(
	repo consultation.Repository,
	txm TransactionRunner,
	logger logger.Interface,
) *UpdateConsultationUseCase {
	return &UpdateConsultationUseCase{
		repo:   repo,
		txm:    txm,
		logger: logger,
		now:    biztime.NowUTC,
	}
}

func (uc *UpdateConsultationUseCase) Execute(ctx context.Context, cmd UpdateConsultationCommand) (*dto.ConsultationDTO, error) {
	uc.logger.Infow("executing update consultation use case", "id", cmd.ID, "updated_by", cmd.UpdatedBy)

	if err := uc.validateCommand(cmd); err != nil {
		return nil, err
	}

	var updated *consultation.Consultation
	err := uc.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := uc.repo.GetByIDForUpdate(ctx, cmd.ID)
		if err != nil {
			return err
		}

		now := uc.now()
		if cmd.AssignedTo != nil {
			if err := c.Assign(*cmd.AssignedTo, now); err != nil {
				return err
			}
		}
		if cmd.Status != nil {
			if err := c.ChangeStatus(vo.Status(*cmd.Status), now); err != nil {
				return err
			}
		}
		if cmd.AdminNotes != nil {
			c.SetAdminNotes(*cmd.AdminNotes, now)
		}

		if err := uc.repo.Update(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})

	switch {
	case err == nil:
	case stderrors.Is(err, consultation.ErrNotFound):
		return nil, errors.NewNotFoundError("consultation not found")
	case stderrors.Is(err, consultation.ErrInvalidTransition):
		return nil, errors.NewValidationError(err.Error())
	default:
		uc.logger.Errorw("failed to update consultation", "id", cmd.ID, "error", err)
		return nil, errors.NewInternalError("failed to update consultation")
	}

	uc.logger.Infow("consultation updated",
		"id", updated.ID(),
		"status", updated.Status(),
		"assigned_to", updated.AssignedTo(),
		"updated_by", cmd.UpdatedBy,
	)
	return dto.ToConsultationDTO(updated), nil
}

func (uc *UpdateConsultationUseCase) validateCommand(cmd UpdateConsultationCommand) error {
	if cmd.ID == "" {
		return errors.NewValidationError("consultation ID is required")
	}
	if cmd.Status == nil && cmd.AssignedTo == nil && cmd.AdminNotes == nil {
		return errors.NewValidationError("nothing to update")
	}
	if cmd.Status != nil {
		if _, err := vo.NewStatus(*cmd.Status); err != nil {
			return errors.NewValidationError("invalid status", *cmd.Status)
		}
	}
	if cmd.AssignedTo != nil && strings.TrimSpace(*cmd.AssignedTo) == "" {
		return errors.NewValidationError("assigned_to must not be empty")
	}
	if cmd.AdminNotes != nil && utf8.RuneCountInString(*cmd.AdminNotes) > maxAdminNotesRunes {
		return errors.NewValidationError("admin notes exceed maximum length of 5000 characters")
	}
	return nil
}
