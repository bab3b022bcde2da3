package dto

import (
	"time"

	"github.com/ibis1225/pet-ai/internal/domain/consultation"
	vo "github.com/ibis1225/pet-ai/internal/domain/consultation/valueobjects"
)

type ConsultationDTO struct {
	ID               string         `json:"id"`
	TicketNumber     string         `json:"ticket_number,omitempty"`
	Channel          string         `json:"channel"`
	ChannelUserID    string         `json:"channel_user_id"`
	CurrentStep      string         `json:"current_step"`
	Status           string         `json:"status"`
	MemberType       string         `json:"member_type,omitempty"`
	GuardianName     string         `json:"guardian_name,omitempty"`
	GuardianPhone    string         `json:"guardian_phone,omitempty"`
	PetType          string         `json:"pet_type,omitempty"`
	PetName          string         `json:"pet_name,omitempty"`
	PetAge           string         `json:"pet_age,omitempty"`
	Category         string         `json:"category,omitempty"`
	CategoryLabel    string         `json:"category_label,omitempty"`
	Subcategory      string         `json:"subcategory,omitempty"`
	SubcategoryLabel string         `json:"subcategory_label,omitempty"`
	Urgency          string         `json:"urgency,omitempty"`
	Description      string         `json:"description,omitempty"`
	PreferredTime    string         `json:"preferred_time,omitempty"`
	AssignedTo       string         `json:"assigned_to,omitempty"`
	AdminNotes       string         `json:"admin_notes,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
}

func ToConsultationDTO(c *consultation.Consultation) *ConsultationDTO {
	if c == nil {
		return nil
	}
	return &ConsultationDTO{
		ID:               c.ID(),
		TicketNumber:     c.TicketNumber(),
		Channel:          c.Channel(),
		ChannelUserID:    c.ChannelUserID(),
		CurrentStep:      c.CurrentStep().String(),
		Status:           c.Status().String(),
		MemberType:       string(c.MemberType()),
		GuardianName:     c.GuardianName(),
		GuardianPhone:    c.GuardianPhone(),
		PetType:          string(c.PetType()),
		PetName:          c.PetName(),
		PetAge:           c.PetAge(),
		Category:         c.Category().String(),
		CategoryLabel:    c.Category().Label(),
		Subcategory:      c.Subcategory(),
		SubcategoryLabel: c.SubcategoryLabel(),
		Urgency:          c.Urgency().String(),
		Description:      c.Description(),
		PreferredTime:    c.PreferredTime(),
		AssignedTo:       c.AssignedTo(),
		AdminNotes:       c.AdminNotes(),
		Metadata:         c.Metadata(),
		CreatedAt:        c.CreatedAt(),
		UpdatedAt:        c.UpdatedAt(),
		CompletedAt:      c.CompletedAt(),
	}
}

func ToConsultationDTOList(list []*consultation.Consultation) []*ConsultationDTO {
	result := make([]*ConsultationDTO, 0, len(list))
	for _, c := range list {
		result = append(result, ToConsultationDTO(c))
	}
	return result
}

// ReplyDTO is what the chat channel sends back to the guardian.
type ReplyDTO struct {
	ConsultationID string                `json:"consultation_id,omitempty"`
	TicketNumber   string                `json:"ticket_number,omitempty"`
	Step           string                `json:"step,omitempty"`
	Message        string                `json:"message,omitempty"`
	Options        []consultation.Option `json:"options,omitempty"`
	Started        bool                  `json:"started"`
	Completed      bool                  `json:"completed"`
	Rejected       bool                  `json:"rejected"`
	Cancelled      bool                  `json:"cancelled"`
	// Duplicate marks a redelivered webhook that was dropped.
	Duplicate bool `json:"duplicate,omitempty"`
}

// NewReplyDTO builds a reply carrying the prompt for c's current step.
func NewReplyDTO(c *consultation.Consultation, message string) *ReplyDTO {
	return &ReplyDTO{
		ConsultationID: c.ID(),
		TicketNumber:   c.TicketNumber(),
		Step:           c.CurrentStep().String(),
		Message:        message,
		Options:        consultation.Options(c),
		Completed:      c.CurrentStep() == vo.StepCompleted,
	}
}

type ActiveDTO struct {
	IsActive       bool   `json:"is_active"`
	ConsultationID string `json:"consultation_id,omitempty"`
	Step           string `json:"step,omitempty"`
	StepPosition   int    `json:"step_position,omitempty"`
	TotalSteps     int    `json:"total_steps,omitempty"`
	TicketNumber   string `json:"ticket_number,omitempty"`
}

type StatsDTO struct {
	Total      int64            `json:"total"`
	Today      int64            `json:"today"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByCategory map[string]int64 `json:"by_category"`
	ByUrgency  map[string]int64 `json:"by_urgency"`
}

func ToStatsDTO(s *consultation.Stats) *StatsDTO {
	out := &StatsDTO{
		Total:      s.Total,
		Today:      s.Today,
		ByStatus:   make(map[string]int64, len(vo.AllStatuses)),
		ByCategory: make(map[string]int64, len(s.ByCategory)),
		ByUrgency:  make(map[string]int64, len(s.ByUrgency)),
	}
	for _, st := range vo.AllStatuses {
		out.ByStatus[st.String()] = s.ByStatus[st]
	}
	for k, v := range s.ByCategory {
		out.ByCategory[k.String()] = v
	}
	for k, v := range s.ByUrgency {
		out.ByUrgency[k.String()] = v
	}
	return out
}
