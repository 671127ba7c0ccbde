package coupon

import (
	"context"
	"math"
	"regexp"
	"strings"
	"time"

	"backline/internal/domain"
	"backline/internal/modules/pricing"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

// NormalizeCode uppercases and trims a user-supplied coupon code. It returns
// ErrMalformedCode before any store access when the code cannot possibly
// match a stored coupon.
func NormalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !codePattern.MatchString(code) {
		return "", ErrMalformedCode
	}
	return code, nil
}

// Evaluator validates coupons against the current time and prices their
// discounts. Discount computation is pure: identical inputs always produce
// identical output, so booking submission can safely re-run it.
type Evaluator struct {
	coupons CouponStore
	rates   pricing.RateSchedule
}

func NewEvaluator(coupons CouponStore, rates pricing.RateSchedule) *Evaluator {
	return &Evaluator{coupons: coupons, rates: rates}
}

// Validate resolves a code to a usable coupon or a rejection. Checks run in
// fixed priority order: not found, inactive, outside validity window,
// already consumed (one-time). A one-time coupon that was deactivated by
// its own consumption reports ErrConsumed rather than ErrInactive.
func (e *Evaluator) Validate(ctx context.Context, code string, now time.Time) (*domain.Coupon, error) {
	normalized, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}

	c, err := e.coupons.FindByCode(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}

	if !c.Active {
		if c.Consumed() {
			return nil, ErrConsumed
		}
		return nil, ErrInactive
	}
	if !c.WithinWindow(now) {
		return nil, ErrNotInWindow
	}
	if c.Consumed() {
		return nil, ErrConsumed
	}

	return c, nil
}

// Discount computes the discount a coupon grants on a priced session,
// clamped to [0, subtotal].
func (e *Evaluator) Discount(c *domain.Coupon, subtotal int64, hours float64, addOns domain.AddOns) int64 {
	if c == nil || subtotal <= 0 {
		return 0
	}

	var discount int64
	switch c.DiscountType {
	case domain.DiscountPercentage:
		discount = int64(math.Round(float64(subtotal) * c.Value / 100))

	case domain.DiscountFixed:
		discount = int64(math.Round(c.Value))

	case domain.DiscountHours:
		discount = e.freeHoursDiscount(c.Value, subtotal, hours, addOns)
	}

	return clamp(discount, subtotal)
}

// freeHoursDiscount values min(couponHours, bookedHours) free hours under
// the tiered schedule, plus the proportional share of the add-on surcharge
// those free hours represent. The proportional share keeps free-hour coupons
// fair when add-ons are selected for the whole session.
func (e *Evaluator) freeHoursDiscount(couponHours float64, subtotal int64, hours float64, addOns domain.AddOns) int64 {
	if hours <= 0 {
		return 0
	}
	free := math.Min(couponHours, hours)
	if free <= 0 {
		return 0
	}

	discount := e.rates.HoursValue(free)

	addOnCost := e.rates.AddOnCost(hours, addOns)
	discount += int64(math.Round(float64(addOnCost) * free / hours))

	return discount
}

func clamp(discount, subtotal int64) int64 {
	if discount < 0 {
		return 0
	}
	if discount > subtotal {
		return subtotal
	}
	return discount
}
