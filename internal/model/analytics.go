package model

// CompletionRate summarizes completed vs. total tasks over a period.
type CompletionRate struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Rate      float64 `json:"rate"`
}

// DayStat is one entry of the seven-day trend.
type DayStat struct {
	Date      string `json:"date"`
	Day       string `json:"day"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// PriorityStat groups this week's tasks by priority.
type PriorityStat struct {
	Priority  int `json:"priority"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Analytics is the server's productivity report. Guests receive the zero value.
type Analytics struct {
	Today         CompletionRate `json:"today"`
	Week          CompletionRate `json:"week"`
	DailyTrend    []DayStat      `json:"daily_trend"`
	PriorityStats []PriorityStat `json:"priority_stats"`
}

// GeneratedTask is one suggestion returned by the task generator endpoint.
type GeneratedTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}
