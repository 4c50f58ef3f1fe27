package domain

import "time"

// Detailer is a field worker performing on-site vehicle detailing.
// Detailers are provisioned out of band; IsActive gates authentication
// and visibility in assignment pools.
type Detailer struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DetailerDayLoad pairs a detailer with their active booking count on a given date
type DetailerDayLoad struct {
	Detailer *Detailer
	Load     int
}
