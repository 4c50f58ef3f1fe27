package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Input limits
const (
	MaxNotesLength               = 500
	MaxSpecialInstructionsLength = 1000
	MinVehicleYear               = 1950

	ConfirmationCodeLength     = 8
	ConfirmationCodeMaxRetries = 10
)
