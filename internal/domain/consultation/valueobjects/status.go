package valueobjects

import "fmt"

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// AllStatuses lists statuses in lifecycle order.
var AllStatuses = []Status{
	StatusInProgress,
	StatusPending,
	StatusAssigned,
	StatusCompleted,
	StatusCancelled,
}

var statusTransitions = map[Status][]Status{
	StatusInProgress: {StatusPending, StatusCancelled},
	StatusPending:    {StatusAssigned, StatusCancelled},
	StatusAssigned:   {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsFinal reports statuses that accept no further transition.
func (s Status) IsFinal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) IsInProgress() bool {
	return s == StatusInProgress
}

func NewStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid consultation status: %s", s)
	}
	return st, nil
}
