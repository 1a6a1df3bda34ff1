package ledger

import "fmt"

// FormatMinutes renders a duration as "Xh Ym", "Xh" on the hour, or "Ym"
// under an hour.
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
