package store

type Setting struct {
	Key   string
	Value string
}

// Setting keys.
const (
	KeyTheme            = "theme"
	KeyTimerMinutes     = "timer_minutes"
	KeyTaskTimerMinutes = "task_timer_minutes"
)
