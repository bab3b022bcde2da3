package mappers

import (
	"fmt"
	"time"

	"github.com/ibis1225/pet-ai/internal/domain/consultation"
	vo "github.com/ibis1225/pet-ai/internal/domain/consultation/valueobjects"
	"github.com/ibis1225/pet-ai/internal/infrastructure/persistence/models"
)

// ConsultationMapper converts between the consultation aggregate and its
// row.
type ConsultationMapper interface {
	ToModel(c *consultation.Consultation) *models.ConsultationModel
	ToDomain(model *models.ConsultationModel) (*consultation.Consultation, error)
	ToDomainList(list []models.ConsultationModel) ([]*consultation.Consultation, error)
}

type consultationMapper struct{}

func NewConsultationMapper() ConsultationMapper {
	return &consultationMapper{}
}

func (m *consultationMapper) ToModel(c *consultation.Consultation) *models.ConsultationModel {
	model := &models.ConsultationModel{
		ID:            c.ID(),
		Channel:       c.Channel(),
		ChannelUserID: c.ChannelUserID(),
		CurrentStep:   c.CurrentStep().String(),
		Status:        c.Status().String(),
		MemberType:    c.MemberType().String(),
		GuardianName:  c.GuardianName(),
		GuardianPhone: c.GuardianPhone(),
		PetType:       c.PetType().String(),
		PetName:       c.PetName(),
		PetAge:        c.PetAge(),
		Category:      c.Category().String(),
		Subcategory:   c.Subcategory(),
		Urgency:       c.Urgency().String(),
		Description:   c.Description(),
		PreferredTime: c.PreferredTime(),
		AssignedTo:    c.AssignedTo(),
		AdminNotes:    c.AdminNotes(),
		CreatedAt:     c.CreatedAt().UnixMilli(),
		UpdatedAt:     c.UpdatedAt().UnixMilli(),
	}

	if n := c.TicketNumber(); n != "" {
		model.TicketNumber = &n
	}
	if key := c.ActiveKey(); key != "" {
		model.ActiveKey = &key
	}
	if len(c.Metadata()) > 0 {
		model.Metadata = datatypesMap(c.Metadata())
	}
	if c.CompletedAt() != nil {
		completed := c.CompletedAt().UnixMilli()
		model.CompletedAt = &completed
	}

	return model
}

func (m *consultationMapper) ToDomain(model *models.ConsultationModel) (*consultation.Consultation, error) {
	if model == nil {
		return nil, nil
	}

	status, err := vo.NewStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("consultation %s: %w", model.ID, err)
	}

	params := consultation.ReconstructParams{
		ID:            model.ID,
		Channel:       model.Channel,
		ChannelUserID: model.ChannelUserID,
		CurrentStep:   vo.Step(model.CurrentStep),
		Status:        status,
		MemberType:    vo.MemberType(model.MemberType),
		GuardianName:  model.GuardianName,
		GuardianPhone: model.GuardianPhone,
		PetType:       vo.PetType(model.PetType),
		PetName:       model.PetName,
		PetAge:        model.PetAge,
		Category:      vo.Category(model.Category),
		Subcategory:   model.Subcategory,
		Urgency:       vo.Urgency(model.Urgency),
		Description:   model.Description,
		PreferredTime: model.PreferredTime,
		AssignedTo:    model.AssignedTo,
		AdminNotes:    model.AdminNotes,
		Metadata:      map[string]any(model.Metadata),
		CreatedAt:     time.UnixMilli(model.CreatedAt).UTC(),
		UpdatedAt:     time.UnixMilli(model.UpdatedAt).UTC(),
	}
	if model.TicketNumber != nil {
		params.TicketNumber = *model.TicketNumber
	}
	if model.CompletedAt != nil {
		completed := time.UnixMilli(*model.CompletedAt).UTC()
		params.CompletedAt = &completed
	}

	return consultation.ReconstructConsultation(params)
}

func (m *consultationMapper) ToDomainList(list []models.ConsultationModel) ([]*consultation.Consultation, error) {
	out := make([]*consultation.Consultation, 0, len(list))
	for i := range list {
		c, err := m.ToDomain(&list[i])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
