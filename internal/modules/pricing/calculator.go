package pricing

import (
	"errors"
	"math"

	"backline/internal/domain"
)

var ErrInvalidHours = errors.New("hours must be greater than zero")

// RateSchedule is the tiered hourly price list. The first hour is billed at
// the base rate, every additional hour at the marginal rate, and each
// selected add-on at its own rate for every booked hour. Amounts are whole
// colones.
type RateSchedule struct {
	FirstHour    int64
	ExtraHour    int64
	AddOnPerHour int64
}

// StandardRates is the canonical schedule. Earlier revisions of the price
// list (8,000 marginal with a flat add-on surcharge) are retired; this is
// the only schedule the calculator ships with.
var StandardRates = RateSchedule{
	FirstHour:    10_000,
	ExtraHour:    5_000,
	AddOnPerHour: 2_000,
}

// Subtotal computes the price of a session before any discount. Fractional
// hours are allowed; sessions of an hour or less still pay the full first
// hour. The result is a whole, non-negative amount and is monotonically
// non-decreasing in hours.
func (r RateSchedule) Subtotal(hours float64, addOns domain.AddOns) (int64, error) {
	if !validHours(hours) {
		return 0, ErrInvalidHours
	}

	base := float64(r.FirstHour)
	if hours > 1 {
		base += (hours - 1) * float64(r.ExtraHour)
	}

	return int64(math.Round(base + r.addOnCost(hours, addOns))), nil
}

// HoursValue prices a block of free hours under the same tiered schedule:
// a single free hour (or less, pro rata) at the base rate, every further
// free hour at the marginal rate.
func (r RateSchedule) HoursValue(freeHours float64) int64 {
	if freeHours <= 0 {
		return 0
	}
	if freeHours <= 1 {
		return int64(math.Round(float64(r.FirstHour) * freeHours))
	}
	return r.FirstHour + int64(math.Round((freeHours-1)*float64(r.ExtraHour)))
}

// AddOnCost is the full add-on surcharge for a session, rounded to a whole
// amount.
func (r RateSchedule) AddOnCost(hours float64, addOns domain.AddOns) int64 {
	if !validHours(hours) {
		return 0
	}
	return int64(math.Round(r.addOnCost(hours, addOns)))
}

func (r RateSchedule) addOnCost(hours float64, addOns domain.AddOns) float64 {
	return float64(addOns.Count()) * hours * float64(r.AddOnPerHour)
}

func validHours(hours float64) bool {
	return hours > 0 && !math.IsNaN(hours) && !math.IsInf(hours, 0)
}
