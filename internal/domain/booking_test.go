package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVehicleType(t *testing.T) {
	vt, ok := ParseVehicleType("Sedan")
	assert.True(t, ok)
	assert.Equal(t, VehicleSedan, vt)

	vt, ok = ParseVehicleType("SUV")
	assert.True(t, ok)
	assert.Equal(t, VehicleSUV, vt)

	_, ok = ParseVehicleType("SEDAN")
	assert.False(t, ok, "vehicle types are case-sensitive")

	_, ok = ParseVehicleType("sedan")
	assert.False(t, ok)

	_, ok = ParseVehicleType("Boat")
	assert.False(t, ok)
}

func TestCanBeCanceledByCustomer(t *testing.T) {
	for _, status := range AllStatuses {
		b := &Booking{Status: status}
		want := status == StatusPending || status == StatusConfirmed
		assert.Equal(t, want, b.CanBeCanceledByCustomer(), "status %s", status)
	}
}
