package domain

// DailyStats holds the rolling 7-day histogram shown on the dashboard chart.
type DailyStats struct {
	Labels    []string `json:"labels"`
	Created   []int    `json:"created"`
	Completed []int    `json:"completed"`
}

// CalendarEvent is one all-day entry on the dashboard calendar.
type CalendarEvent struct {
	Title  string `json:"title"`
	Start  string `json:"start"` // YYYY-MM-DD
	AllDay bool   `json:"allDay"`
}

// Dashboard is the read model rendered on the dashboard page.
type Dashboard struct {
	Tasks   []Task
	Pending []Task
	Done    []Task
	Stats   DailyStats
	Events  []CalendarEvent
}
