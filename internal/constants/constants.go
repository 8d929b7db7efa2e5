package constants

import "time"

const (
	AppName           = "slotbook"
	Version           = "v0.1.0"
	DefaultConfigPath = "~/.config/slotbook/slotbook.toml"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Visible window of a day column
	DefaultStartHour     = 6
	DefaultEndHour       = 22
	DefaultSnapMinutes   = 5
	DefaultTopPadding    = 1
	DefaultBottomPadding = 1
	MinutesPerDay        = 24 * 60
	DaysPerWeek          = 7

	// Submission
	DefaultSubmitTimeout = 10 * time.Second
	SaveEndpointPath     = "/api/save"
	BookingsPath         = "/api/bookings"

	// Reference server
	DefaultServerPort      = 8085
	DefaultDatabasePath    = "~/.config/slotbook/bookings.db"
	DefaultMetricsPath     = "/metrics"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
	ServerLockfileName     = "slotbook-server.lock"

	// Keyring
	DefaultKeyringUser = "database-connection"
	DBConnectionEnv    = "SLOTBOOK_DB_CONNECTION"

	// DoubleClickWindow is the longest gap between two presses on the same
	// cell that still counts as a double click.
	DoubleClickWindow = 400 * time.Millisecond

	// Notices shown to the user
	NoticeNothingToSubmit = "No bookings to save."
	NoticeSubmitSuccess   = "Bookings successfully saved!"
	NoticeSubmitRejected  = "Failed to save bookings."
	NoticeSubmitError     = "Error saving bookings."
	NoticeSubmitBusy      = "A submission is already in progress."
)
