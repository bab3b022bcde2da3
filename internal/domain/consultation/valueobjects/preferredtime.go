package valueobjects

import "strings"

const (
	PreferredTimeMorning   = "morning"
	PreferredTimeAfternoon = "afternoon"
	PreferredTimeEvening   = "evening"
	PreferredTimeAnytime   = "anytime"
)

var preferredTimeLabels = map[string]string{
	PreferredTimeMorning:   "오전 (9시-12시)",
	PreferredTimeAfternoon: "오후 (12시-18시)",
	PreferredTimeEvening:   "저녁 (18시-21시)",
	PreferredTimeAnytime:   "상관없음",
}

// PreferredTimeOptions are the quick replies offered at the last step.
var PreferredTimeOptions = []string{
	PreferredTimeMorning,
	PreferredTimeAfternoon,
	PreferredTimeEvening,
	PreferredTimeAnytime,
}

var preferredTimeAliases = func() map[string]string {
	m := map[string]string{
		"오전":   PreferredTimeMorning,
		"오후":   PreferredTimeAfternoon,
		"저녁":   PreferredTimeEvening,
		"상관없음": PreferredTimeAnytime,
		"아무때나": PreferredTimeAnytime,
	}
	for token, label := range preferredTimeLabels {
		m[token] = token
		m[stripSpaces(label)] = token
	}
	return m
}()

// NormalizePreferredTime maps well known slots to their token. Any other
// text, such as "화요일 오후 3시", is kept as the guardian wrote it; this
// step never rejects.
func NormalizePreferredTime(input string) string {
	trimmed := strings.TrimSpace(input)
	if v, ok := preferredTimeAliases[stripSpaces(strings.ToLower(trimmed))]; ok {
		return v
	}
	return trimmed
}

// PreferredTimeLabel renders a stored value for humans.
func PreferredTimeLabel(v string) string {
	if label, ok := preferredTimeLabels[v]; ok {
		return label
	}
	return v
}
