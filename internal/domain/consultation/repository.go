package consultation

import (
	"context"
	"time"

	vo "github.com/ibis1225/pet-ai/internal/domain/consultation/valueobjects"
)

type Repository interface {
	// Create inserts c. When another in-progress record already holds the
	// same channel user, it returns an error matched by
	// errors.IsDuplicateError.
	Create(ctx context.Context, c *Consultation) error
	Update(ctx context.Context, c *Consultation) error
	GetByID(ctx context.Context, id string) (*Consultation, error)
	// GetByIDForUpdate is GetByID with a row lock held until the
	// surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*Consultation, error)
	GetByTicketNumber(ctx context.Context, number string) (*Consultation, error)
	// GetActive returns the in-progress record of a channel user.
	GetActive(ctx context.Context, channel, channelUserID string) (*Consultation, error)
	// GetActiveForUpdate is GetActive with a row lock held until the
	// surrounding transaction ends.
	GetActiveForUpdate(ctx context.Context, channel, channelUserID string) (*Consultation, error)
	ListByUser(ctx context.Context, channel, channelUserID string, limit int) ([]*Consultation, error)
	List(ctx context.Context, filter Filter) ([]*Consultation, int64, error)
	Stats(ctx context.Context, todayStart, todayEnd time.Time) (*Stats, error)
}

// Filter narrows the admin listing. Nil fields do not filter.
type Filter struct {
	Status   *vo.Status
	Category *vo.Category
	Urgency  *vo.Urgency
	Channel  string
	// Search matches guardian name, phone, description and ticket number,
	// ignoring case.
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

type Stats struct {
	Total      int64
	Today      int64
	ByStatus   map[vo.Status]int64
	ByCategory map[vo.Category]int64
	ByUrgency  map[vo.Urgency]int64
}

// CounterStore hands out per-day sequence numbers. Increment returns the
// new value; the first call for a dateKey returns 1.
type CounterStore interface {
	Increment(ctx context.Context, dateKey string) (int64, error)
}
