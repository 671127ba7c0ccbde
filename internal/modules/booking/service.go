package booking

import (
	"context"
	"log"
	"time"

	"backline/internal/domain"
	"backline/internal/modules/pricing"
)

// Service composes the pricing calculator and the coupon evaluator into
// priced bookings, and owns the booking status machine.
type Service struct {
	bookings  BookingStore
	receipts  ReceiptStore
	evaluator CouponEvaluator
	ledger    UsageRecorder
	rates     pricing.RateSchedule
}

func NewService(bookings BookingStore, receipts ReceiptStore, evaluator CouponEvaluator, ledger UsageRecorder, rates pricing.RateSchedule) *Service {
	return &Service{
		bookings:  bookings,
		receipts:  receipts,
		evaluator: evaluator,
		ledger:    ledger,
		rates:     rates,
	}
}

// QuotePrice computes {subtotal, discount, total} for prospective booking
// parameters without persisting anything. Coupon rejections surface to the
// caller unchanged; a quote never silently drops its discount.
func (s *Service) QuotePrice(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error) {
	subtotal, err := s.rates.Subtotal(req.Hours, req.AddOns)
	if err != nil {
		return nil, ErrValidation
	}

	quote := &QuoteResponse{
		Hours:    req.Hours,
		AddOns:   req.AddOns,
		Subtotal: subtotal,
		Total:    subtotal,
	}

	if req.CouponCode != "" {
		cp, err := s.evaluator.Validate(ctx, req.CouponCode, time.Now())
		if err != nil {
			return nil, err
		}
		quote.Discount = s.evaluator.Discount(cp, subtotal, req.Hours, req.AddOns)
		quote.Total = subtotal - quote.Discount
		quote.Coupon = &CouponQuote{
			Code:         cp.Code,
			DiscountType: string(cp.DiscountType),
			Value:        cp.Value,
		}
	}

	return quote, nil
}

// SubmitBooking recomputes the quote server-side, verifies it against the
// client's figures, and persists the booking in pending state. When a coupon
// is involved its consumption is claimed atomically with the creation: if
// the claim is lost to a concurrent submission the whole creation fails and
// the caller must re-quote.
func (s *Service) SubmitBooking(ctx context.Context, req *SubmitBookingRequest, ip, userAgent string) (*domain.Booking, error) {
	subtotal, err := s.rates.Subtotal(req.Hours, req.AddOns)
	if err != nil {
		return nil, ErrValidation
	}
	if req.ReceiptID == "" {
		return nil, ErrValidation
	}

	ok, err := s.receipts.Exists(ctx, req.ReceiptID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrReceiptNotFound
	}

	var (
		cp       *domain.Coupon
		discount int64
		claim    *domain.CouponClaim
		snapshot *domain.CouponSnapshot
	)
	if req.CouponCode != "" {
		cp, err = s.evaluator.Validate(ctx, req.CouponCode, time.Now())
		if err != nil {
			return nil, err
		}
		discount = s.evaluator.Discount(cp, subtotal, req.Hours, req.AddOns)
		claim = &domain.CouponClaim{
			CouponID: cp.ID,
			OneTime:  cp.CouponType == domain.CouponOneTime,
		}
		snapshot = &domain.CouponSnapshot{
			CouponID:       cp.ID,
			Code:           cp.Code,
			DiscountType:   cp.DiscountType,
			Value:          cp.Value,
			DiscountAmount: discount,
		}
	}

	total := subtotal - discount
	if req.Subtotal != subtotal || req.Discount != discount || req.Total != total {
		return nil, ErrQuoteMismatch
	}

	b := &domain.Booking{
		Hours:           req.Hours,
		ReservationDate: req.ReservationDate,
		AddOns:          req.AddOns,
		Subtotal:        subtotal,
		Discount:        discount,
		Total:           total,
		CouponUsed:      snapshot,
		ReceiptID:       req.ReceiptID,
		IPAddress:       ip,
		UserAgent:       userAgent,
		Status:          domain.BookingPending,
	}

	if err := s.bookings.CreateWithClaim(ctx, b, claim); err != nil {
		return nil, err
	}

	if cp != nil {
		s.ledger.RecordUsage(cp.ID, discount)
	}

	return b, nil
}

// SetBookingStatus applies one transition of the booking state machine.
// Transition timestamps are set exactly once, on first entry to a state.
func (s *Service) SetBookingStatus(ctx context.Context, admin domain.AdminIdentity, id int64, newStatus domain.BookingStatus, notes string) (*domain.Booking, error) {
	if !newStatus.Valid() {
		return nil, ErrValidation
	}

	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}

	if !b.Status.CanTransitionTo(newStatus) {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	b.Status = newStatus
	switch newStatus {
	case domain.BookingConfirmed:
		if b.ConfirmedAt == nil {
			b.ConfirmedAt = &now
		}
	case domain.BookingCancelled:
		if b.CancelledAt == nil {
			b.CancelledAt = &now
		}
	case domain.BookingCompleted:
		if b.CompletedAt == nil {
			b.CompletedAt = &now
		}
	}
	if notes != "" {
		b.AdminNotes = notes
	}

	if err := s.bookings.UpdateStatus(ctx, b); err != nil {
		return nil, err
	}

	log.Printf("booking_status_changed id=%d status=%s admin=%s", b.ID, b.Status, admin.Username)
	return b, nil
}

func (s *Service) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

// ListBookings returns one admin page of bookings, newest first.
func (s *Service) ListBookings(ctx context.Context, f ListFilters, page, limit int) ([]domain.Booking, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	rows, total, err := s.bookings.List(ctx, f, (page-1)*limit, limit)
	if err != nil {
		return nil, Pagination{}, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return rows, Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNext:     int64(page*limit) < total,
		HasPrev:     page > 1,
	}, nil
}

func (s *Service) DeleteBooking(ctx context.Context, admin domain.AdminIdentity, id int64) error {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrNotFound
	}

	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("booking_deleted id=%d admin=%s", id, admin.Username)
	return nil
}
