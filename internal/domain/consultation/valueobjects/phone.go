package valueobjects

import (
	"strings"
	"unicode"
)

// NormalizePhone strips everything but digits and formats Korean numbers.
// Eleven digits must start with 010 and become 3-4-4; ten digits become
// 3-3-4. Formatting an already formatted number yields the same string.
func NormalizePhone(input string) (string, bool) {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if unicode.IsDigit(r) {
			// non-ASCII digits are not phone numbers we can dial
			return "", false
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 11 && strings.HasPrefix(digits, "010"):
		return digits[:3] + "-" + digits[3:7] + "-" + digits[7:], true
	case len(digits) == 10:
		return digits[:3] + "-" + digits[3:6] + "-" + digits[6:], true
	default:
		return "", false
	}
}
