package models

import "time"

// Selection is a committed booking interval on a single date.
type Selection struct {
	ID       string `json:"id"`
	Date     string `json:"date"` // YYYY-MM-DD
	StartMin int    `json:"start_min"`
	EndMin   int    `json:"end_min"`
}

// BlockedPeriod is an externally supplied unavailable interval.
type BlockedPeriod struct {
	Start string `json:"start" toml:"start"` // H:MM
	End   string `json:"end" toml:"end"`     // H:MM
}

// Booking is a selection persisted by the save endpoint.
type Booking struct {
	ID        int64     `json:"id"`
	BatchID   string    `json:"batch_id"`
	Date      string    `json:"date"`
	StartMin  int       `json:"start_min"`
	EndMin    int       `json:"end_min"`
	CreatedAt time.Time `json:"created_at"`
}
