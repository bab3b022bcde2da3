package consultation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	vo "github.com/ibis1225/pet-ai/internal/domain/consultation/valueobjects"
)

// Consultation is one guardian's intake record. While in progress it
// collects answers step by step; once submitted it carries a ticket number
// and moves through the operator lifecycle.
type Consultation struct {
	id            string
	ticketNumber  string
	channel       string
	channelUserID string
	currentStep   vo.Step
	status        vo.Status

	memberType    vo.MemberType
	guardianName  string
	guardianPhone string
	petType       vo.PetType
	petName       string
	petAge        string
	category      vo.Category
	subcategory   string
	urgency       vo.Urgency
	description   string
	preferredTime string

	assignedTo string
	adminNotes string
	metadata   map[string]any

	createdAt   time.Time
	updatedAt   time.Time
	completedAt *time.Time
}

func NewConsultation(channel, channelUserID string, now time.Time) (*Consultation, error) {
	channel = strings.TrimSpace(channel)
	channelUserID = strings.TrimSpace(channelUserID)
	if channel == "" {
		return nil, fmt.Errorf("channel is required")
	}
	if channelUserID == "" {
		return nil, fmt.Errorf("channel user ID is required")
	}

	now = now.UTC()
	return &Consultation{
		id:            uuid.NewString(),
		channel:       channel,
		channelUserID: channelUserID,
		currentStep:   vo.StepMemberType,
		status:        vo.StatusInProgress,
		metadata:      make(map[string]any),
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructParams carries a persisted record back into the domain.
type ReconstructParams struct {
	ID            string
	TicketNumber  string
	Channel       string
	ChannelUserID string
	CurrentStep   vo.Step
	Status        vo.Status
	MemberType    vo.MemberType
	GuardianName  string
	GuardianPhone string
	PetType       vo.PetType
	PetName       string
	PetAge        string
	Category      vo.Category
	Subcategory   string
	Urgency       vo.Urgency
	Description   string
	PreferredTime string
	AssignedTo    string
	AdminNotes    string
	Metadata      map[string]any
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

// ReconstructConsultation does not validate CurrentStep; a stored step
// outside the flow is reported by the flow engine when it is used.
func ReconstructConsultation(p ReconstructParams) (*Consultation, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("consultation ID is required")
	}
	if p.Channel == "" || p.ChannelUserID == "" {
		return nil, fmt.Errorf("channel and channel user ID are required")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", p.Status)
	}

	metadata := p.Metadata
	if metadata == nil {
		metadata = make(map[string]any)
	}

	return &Consultation{
		id:            p.ID,
		ticketNumber:  p.TicketNumber,
		channel:       p.Channel,
		channelUserID: p.ChannelUserID,
		currentStep:   p.CurrentStep,
		status:        p.Status,
		memberType:    p.MemberType,
		guardianName:  p.GuardianName,
		guardianPhone: p.GuardianPhone,
		petType:       p.PetType,
		petName:       p.PetName,
		petAge:        p.PetAge,
		category:      p.Category,
		subcategory:   p.Subcategory,
		urgency:       p.Urgency,
		description:   p.Description,
		preferredTime: p.PreferredTime,
		assignedTo:    p.AssignedTo,
		adminNotes:    p.AdminNotes,
		metadata:      metadata,
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
		completedAt:   p.CompletedAt,
	}, nil
}

func (c *Consultation) ID() string { return c.id }
func (c *Consultation) TicketNumber() string { return c.ticketNumber }
func (c *Consultation) Channel() string { return c.channel }
func (c *Consultation) ChannelUserID() string { return c.channelUserID }
func (c *Consultation) CurrentStep() vo.Step { return c.currentStep }
func (c *Consultation) Status() vo.Status { return c.status }
func (c *Consultation) MemberType() vo.MemberType { return c.memberType }
func (c *Consultation) GuardianName() string { return c.guardianName }
func (c *Consultation) GuardianPhone() string { return c.guardianPhone }
func (c *Consultation) PetType() vo.PetType { return c.petType }
func (c *Consultation) PetName() string { return c.petName }
func (c *Consultation) PetAge() string { return c.petAge }
func (c *Consultation) Category() vo.Category { return c.category }
func (c *Consultation) Subcategory() string { return c.subcategory }
func (c *Consultation) Urgency() vo.Urgency { return c.urgency }
func (c *Consultation) Description() string { return c.description }
func (c *Consultation) PreferredTime() string { return c.preferredTime }
func (c *Consultation) AssignedTo() string { return c.assignedTo }
func (c *Consultation) AdminNotes() string { return c.adminNotes }
func (c *Consultation) CreatedAt() time.Time { return c.createdAt }
func (c *Consultation) UpdatedAt() time.Time { return c.updatedAt }
func (c *Consultation) CompletedAt() *time.Time { return c.completedAt }
func (c *Consultation) Metadata() map[string]any { return c.metadata }
func (c *Consultation) IsInProgress() bool { return c.status.IsInProgress() }
func (c *Consultation) HasTicketNumber() bool { return c.ticketNumber != "" }
func (c *Consultation) SubcategoryLabel() string { return vo.SubcategoryLabel(c.category, c.subcategory) }

// ActiveKey is "channel:userID" while the record is in progress and empty
// afterwards. Storage keeps it unique so a user has at most one active
// consultation per channel.
func (c *Consultation) ActiveKey() string {
	if !c.status.IsInProgress() {
		return ""
	}
	return ActiveKeyFor(c.channel, c.channelUserID)
}

func ActiveKeyFor(channel, channelUserID string) string {
	return channel + ":" + channelUserID
}

// Cancel abandons the record. Completed records stay completed.
func (c *Consultation) Cancel(now time.Time) error {
	return c.transitionTo(vo.StatusCancelled, now)
}

// ChangeStatus applies an operator status change. Pending is entered only
// by finishing the intake flow.
func (c *Consultation) ChangeStatus(next vo.Status, now time.Time) error {
	if next == vo.StatusPending {
		return fmt.Errorf("%w: pending is set when intake completes", ErrInvalidTransition)
	}
	if next == c.status {
		return nil
	}
	return c.transitionTo(next, now)
}

// Assign records the handling operator. A pending record becomes assigned;
// records still in intake or cancelled cannot be assigned.
func (c *Consultation) Assign(operator string, now time.Time) error {
	operator = strings.TrimSpace(operator)
	if operator == "" {
		return fmt.Errorf("operator is required")
	}
	if c.status == vo.StatusInProgress || c.status == vo.StatusCancelled {
		return fmt.Errorf("%w: cannot assign a %s consultation", ErrInvalidTransition, c.status)
	}
	c.assignedTo = operator
	if c.status == vo.StatusPending {
		c.status = vo.StatusAssigned
	}
	c.updatedAt = now.UTC()
	return nil
}

func (c *Consultation) SetAdminNotes(notes string, now time.Time) {
	c.adminNotes = notes
	c.updatedAt = now.UTC()
}

// SetMetadata stores a free-form annotation such as the source delivery.
func (c *Consultation) SetMetadata(key string, value any) {
	if c.metadata == nil {
		c.metadata = make(map[string]any)
	}
	c.metadata[key] = value
}

func (c *Consultation) transitionTo(next vo.Status, now time.Time) error {
	if !c.status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.status, next)
	}
	c.status = next
	c.updatedAt = now.UTC()
	return nil
}
