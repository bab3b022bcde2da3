package valueobjects

import "strings"

// keywordRule maps any input containing one of its keywords to value.
// Rules are tried in slice order, so more specific rules come first.
type keywordRule[T ~string] struct {
	value    T
	keywords []string
}

func matchKeywords[T ~string](input string, rules []keywordRule[T]) (T, bool) {
	lower := strings.ToLower(strings.TrimSpace(input))
	if lower == "" {
		return "", false
	}
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.value, true
			}
		}
	}
	return "", false
}

// matchExact accepts the enum token itself, ignoring case and space.
func matchExact[T ~string](input string, valid func(T) bool) (T, bool) {
	v := T(strings.ToLower(strings.TrimSpace(input)))
	if valid(v) {
		return v, true
	}
	return "", false
}
