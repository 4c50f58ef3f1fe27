package domain

import (
	"time"
)

// VehicleType represents the customer's vehicle class used for pricing
type VehicleType string

const (
	VehicleSedan VehicleType = "Sedan"
	VehicleSUV   VehicleType = "SUV"
	VehicleTruck VehicleType = "Truck"
	VehicleCoupe VehicleType = "Coupe"
)

// AllVehicleTypes lists every supported vehicle type
var AllVehicleTypes = []VehicleType{VehicleSedan, VehicleSUV, VehicleTruck, VehicleCoupe}

// ParseVehicleType validates and converts a raw string into a VehicleType
func ParseVehicleType(raw string) (VehicleType, bool) {
	for _, vt := range AllVehicleTypes {
		if string(vt) == raw {
			return vt, true
		}
	}
	return "", false
}

// Booking represents a detailing appointment in the system.
// Customer and vehicle fields are denormalized snapshots taken at booking time.
type Booking struct {
	ID               int64
	ConfirmationCode string // unique, immutable once assigned

	// Customer snapshot
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Address       string
	City          string
	PostalCode    string

	// Vehicle snapshot
	VehicleType  VehicleType
	VehicleMake  string
	VehicleModel string
	VehicleYear  int

	// Service selection (references into the services catalog)
	ServiceIDs []int64
	AddOnIDs   []int64

	// Scheduling: Date is a calendar day (midnight), TimeSlot is a slot id ("morning"/"afternoon")
	Date     time.Time
	TimeSlot string

	Status     BookingStatus
	DetailerID *int64 // nil = unassigned

	// Computed once at creation, never recomputed
	TotalPrice             float64
	EstimatedDurationHours float64

	SpecialInstructions *string // customer-supplied at creation
	Notes               *string // detailer operational notes, mutable

	// Lifecycle timestamps, each set exactly once at the corresponding transition
	EnRouteAt   *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its calendar day
func (b *Booking) IsActive() bool {
	return b.Status != StatusCanceled
}

// IsAssigned returns true if a detailer is attached to the booking
func (b *Booking) IsAssigned() bool {
	return b.DetailerID != nil
}

// IsTerminal returns true if the booking reached a final status
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// CanBeCanceledByCustomer returns true while the job has not started yet
func (b *Booking) CanBeCanceledByCustomer() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// BookingsFilter is a flexible filter for dispatch listings
type BookingsFilter struct {
	StartDate       *time.Time     // period start (inclusive), nil = unbounded
	EndDate         *time.Time     // period end (inclusive), nil = unbounded
	Status          *BookingStatus // exact status, nil = any
	DetailerID      *int64         // bookings assigned to a detailer, nil = any
	IncludeCanceled bool           // include canceled bookings in the result
}
