package usecases

import (
	"context"

	"github.com/ibis1225/pet-ai/internal/application/consultation/dto"
	"github.com/ibis1225/pet-ai/internal/domain/consultation"
	vo "github.com/ibis1225/pet-ai/internal/domain/consultation/valueobjects"
	"github.com/ibis1225/pet-ai/internal/shared/constants"
	"github.com/ibis1225/pet-ai/internal/shared/errors"
	"github.com/ibis1225/pet-ai/internal/shared/logger"
)

type ListConsultationsQuery struct {
	Status    string
	Category  string
	Urgency   string
	Channel   string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

type ListConsultationsResult struct {
	Items    []*dto.ConsultationDTO
	Total    int64
	Page     int
	PageSize int
}

type ListConsultationsUseCase struct {
	repo   consultation.Repository
	logger logger.Interface
}

func NewListConsultationsUseCase(repo consultation.Repository, logger logger.Interface) *ListConsultationsUseCase {
	return &ListConsultationsUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *ListConsultationsUseCase) Execute(ctx context.Context, query ListConsultationsQuery) (*ListConsultationsResult, error) {
	filter, err := uc.buildFilter(query)
	if err != nil {
		return nil, err
	}

	items, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list consultations", "error", err)
		return nil, errors.NewInternalError("failed to list consultations")
	}

	return &ListConsultationsResult{
		Items:    dto.ToConsultationDTOList(items),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (uc *ListConsultationsUseCase) buildFilter(query ListConsultationsQuery) (consultation.Filter, error) {
	filter := consultation.Filter{
		Channel:   query.Channel,
		Search:    query.Search,
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}

	if query.Status != "" {
		s, err := vo.NewStatus(query.Status)
		if err != nil {
			return filter, errors.NewValidationError("invalid status", query.Status)
		}
		filter.Status = &s
	}
	if query.Category != "" {
		c := vo.Category(query.Category)
		if !c.IsValid() {
			return filter, errors.NewValidationError("invalid category", query.Category)
		}
		filter.Category = &c
	}
	if query.Urgency != "" {
		u := vo.Urgency(query.Urgency)
		if !u.IsValid() {
			return filter, errors.NewValidationError("invalid urgency", query.Urgency)
		}
		filter.Urgency = &u
	}

	if filter.Page < 1 {
		filter.Page = constants.DefaultPage
	}
	if filter.PageSize < 1 {
		filter.PageSize = constants.DefaultPageSize
	}
	if filter.PageSize > constants.MaxPageSize {
		filter.PageSize = constants.MaxPageSize
	}
	return filter, nil
}
