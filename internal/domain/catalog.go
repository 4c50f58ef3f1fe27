package domain

import "time"

// CatalogService is a detailing service offered to customers, priced per vehicle type
type CatalogService struct {
	ID            int64
	Name          string
	Description   string
	DurationHours float64
	PriceSedan    float64
	PriceSUV      float64
	PriceTruck    float64
	PriceCoupe    float64
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PriceFor returns the service price for the given vehicle type
func (s *CatalogService) PriceFor(vt VehicleType) float64 {
	switch vt {
	case VehicleSedan:
		return s.PriceSedan
	case VehicleSUV:
		return s.PriceSUV
	case VehicleTruck:
		return s.PriceTruck
	case VehicleCoupe:
		return s.PriceCoupe
	default:
		return 0
	}
}

// AddOn is an optional extra attached to a booking, priced per vehicle type
type AddOn struct {
	ID         int64
	Name       string
	PriceSedan float64
	PriceSUV   float64
	PriceTruck float64
	PriceCoupe float64
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PriceFor returns the add-on price for the given vehicle type
func (a *AddOn) PriceFor(vt VehicleType) float64 {
	switch vt {
	case VehicleSedan:
		return a.PriceSedan
	case VehicleSUV:
		return a.PriceSUV
	case VehicleTruck:
		return a.PriceTruck
	case VehicleCoupe:
		return a.PriceCoupe
	default:
		return 0
	}
}
