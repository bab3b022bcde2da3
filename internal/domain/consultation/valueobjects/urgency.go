package valueobjects

type Urgency string

const (
	UrgencyUrgent   Urgency = "urgent"
	UrgencyNormal   Urgency = "normal"
	UrgencyFlexible Urgency = "flexible"
)

// AllUrgencies lists urgencies from most to least pressing.
var AllUrgencies = []Urgency{UrgencyUrgent, UrgencyNormal, UrgencyFlexible}

var urgencyLabels = map[Urgency]string{
	UrgencyUrgent:   "긴급",
	UrgencyNormal:   "보통",
	UrgencyFlexible: "여유",
}

var urgencyContactWindows = map[Urgency]string{
	UrgencyUrgent:   "24시간 내",
	UrgencyNormal:   "2-3일 내",
	UrgencyFlexible: "1주일 내",
}

var urgencyRules = []keywordRule[Urgency]{
	{UrgencyUrgent, []string{"긴급", "urgent"}},
	{UrgencyNormal, []string{"보통", "일반", "normal"}},
	{UrgencyFlexible, []string{"여유", "flexible"}},
}

func (u Urgency) String() string { return string(u) }

func (u Urgency) IsValid() bool {
	_, ok := urgencyLabels[u]
	return ok
}

func (u Urgency) Label() string { return urgencyLabels[u] }

// ContactWindow is how soon an operator promises to reach the guardian.
func (u Urgency) ContactWindow() string { return urgencyContactWindows[u] }

func ParseUrgency(input string) (Urgency, bool) {
	if u, ok := matchExact(input, Urgency.IsValid); ok {
		return u, true
	}
	return matchKeywords(input, urgencyRules)
}
