package consultation

import (
	"fmt"
	"regexp"
)

// TicketNumberPattern matches numbers such as C20260115-001. Past 999
// tickets in a day the sequence widens instead of wrapping.
var TicketNumberPattern = regexp.MustCompile(`^C\d{8}-\d{3,}$`)

// FormatTicketNumber renders the seq-th ticket of the UTC day dateKey
// (YYYYMMDD).
func FormatTicketNumber(dateKey string, seq int64) string {
	return fmt.Sprintf("C%s-%03d", dateKey, seq)
}
