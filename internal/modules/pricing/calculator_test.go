package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"backline/internal/domain"
)

func TestSubtotal_OneHourNoAddOns(t *testing.T) {
	got, err := StandardRates.Subtotal(1, domain.AddOns{})
	assert.NoError(t, err)
	assert.Equal(t, int64(10000), got)
}

func TestSubtotal_ThreeHoursBothAddOns(t *testing.T) {
	got, err := StandardRates.Subtotal(3, domain.AddOns{Platillos: true, PedalDoble: true})
	assert.NoError(t, err)
	// 10000 + 2*5000 + 3*2000 + 3*2000
	assert.Equal(t, int64(32000), got)
}

func TestSubtotal_FractionalHours(t *testing.T) {
	// 1.5h: 10000 + 0.5*5000 = 12500
	got, err := StandardRates.Subtotal(1.5, domain.AddOns{})
	assert.NoError(t, err)
	assert.Equal(t, int64(12500), got)

	// Half an hour still pays the full first hour.
	got, err = StandardRates.Subtotal(0.5, domain.AddOns{})
	assert.NoError(t, err)
	assert.Equal(t, int64(10000), got)
}

func TestSubtotal_RejectsNonPositiveHours(t *testing.T) {
	for _, h := range []float64{0, -1, -0.5} {
		_, err := StandardRates.Subtotal(h, domain.AddOns{})
		assert.ErrorIs(t, err, ErrInvalidHours)
	}
}

func TestSubtotal_MonotoneInHours(t *testing.T) {
	addOns := domain.AddOns{Platillos: true}
	prev := int64(-1)
	for h := 0.5; h <= 12; h += 0.5 {
		got, err := StandardRates.Subtotal(h, addOns)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, got, prev, "subtotal must not decrease at %v hours", h)
		prev = got
	}
}

func TestHoursValue_Tiered(t *testing.T) {
	assert.Equal(t, int64(0), StandardRates.HoursValue(0))
	assert.Equal(t, int64(5000), StandardRates.HoursValue(0.5))
	assert.Equal(t, int64(10000), StandardRates.HoursValue(1))
	assert.Equal(t, int64(15000), StandardRates.HoursValue(2))
	assert.Equal(t, int64(25000), StandardRates.HoursValue(4))
}

func TestAddOnCost(t *testing.T) {
	assert.Equal(t, int64(0), StandardRates.AddOnCost(3, domain.AddOns{}))
	assert.Equal(t, int64(6000), StandardRates.AddOnCost(3, domain.AddOns{Platillos: true}))
	assert.Equal(t, int64(12000), StandardRates.AddOnCost(3, domain.AddOns{Platillos: true, PedalDoble: true}))
}
