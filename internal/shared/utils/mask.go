package utils

import "strings"

// MaskEmail masks an email address for safe logging.
// Example: "user@example.com" -> "u***@example.com"
func MaskEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) != 2 {
		return "***"
	}
	local := parts[0]
	if len(local) <= 1 {
		return local + "***@" + parts[1]
	}
	return string(local[0]) + "***@" + parts[1]
}

// MaskPhone keeps the prefix and last four digits of a normalized phone.
// Example: "010-1234-5678" -> "010-****-5678"
func MaskPhone(phone string) string {
	parts := strings.Split(phone, "-")
	if len(parts) != 3 {
		return "***"
	}
	return parts[0] + "-" + strings.Repeat("*", len(parts[1])) + "-" + parts[2]
}

// MaskName keeps the first rune of a person's name.
// Example: "홍길동" -> "홍**"
func MaskName(name string) string {
	runes := []rune(name)
	if len(runes) == 0 {
		return ""
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-1)
}
