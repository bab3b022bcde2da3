package consultation

import (
	"github.com/ibis1225/pet-ai/internal/application/consultation/usecases"
	"github.com/ibis1225/pet-ai/internal/shared/utils"
)

type StartRequest struct {
	Channel       string `json:"channel" binding:"required,channel"`
	ChannelUserID string `json:"channel_user_id" binding:"required,max=128"`
}

type InputRequest struct {
	Channel       string `json:"channel" binding:"required,channel"`
	ChannelUserID string `json:"channel_user_id" binding:"required,max=128"`
	Text          string `json:"text" binding:"required,max=2000"`
	DeliveryID    string `json:"delivery_id" binding:"omitempty,max=128"`
}

// StepRequest is a quick-reply answer: either Step and Value, or the raw
// postback Data string.
type StepRequest struct {
	Channel       string `json:"channel" binding:"required,channel"`
	ChannelUserID string `json:"channel_user_id" binding:"required,max=128"`
	Step          string `json:"step" binding:"required_without=Data,max=32"`
	Value         string `json:"value" binding:"required_without=Data,max=500"`
	Data          string `json:"data" binding:"omitempty,max=1000"`
	DeliveryID    string `json:"delivery_id" binding:"omitempty,max=128"`
}

type UpdateRequest struct {
	Status     *string `json:"status" binding:"omitempty,oneof=in_progress pending assigned completed cancelled"`
	AssignedTo *string `json:"assigned_to" binding:"omitempty,max=100"`
	AdminNotes *string `json:"admin_notes" binding:"omitempty,max=5000"`
}

func (r *UpdateRequest) ToCommand(id, updatedBy string) usecases.UpdateConsultationCommand {
	return usecases.UpdateConsultationCommand{
		ID:         id,
		Status:     r.Status,
		AssignedTo: r.AssignedTo,
		AdminNotes: r.AdminNotes,
		UpdatedBy:  updatedBy,
	}
}

type ListRequest struct {
	Status    string `form:"status"`
	Category  string `form:"category"`
	Urgency   string `form:"urgency"`
	Channel   string `form:"channel"`
	Search    string `form:"search" binding:"max=100"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

func (r *ListRequest) ToQuery(p utils.Pagination) usecases.ListConsultationsQuery {
	return usecases.ListConsultationsQuery{
		Status:    r.Status,
		Category:  r.Category,
		Urgency:   r.Urgency,
		Channel:   r.Channel,
		Search:    r.Search,
		Page:      p.Page,
		PageSize:  p.PageSize,
		SortBy:    r.SortBy,
		SortOrder: r.SortOrder,
	}
}
