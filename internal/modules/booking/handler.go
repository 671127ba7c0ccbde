package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"backline/internal/domain"
	"backline/internal/middleware"
	"backline/internal/modules/coupon"
	"backline/internal/modules/ledger"
	"backline/internal/pkg/response"
)

type Handler struct {
	service *Service
	ledger  *ledger.Service
}

func NewHandler(service *Service, ledger *ledger.Service) *Handler {
	return &Handler{service: service, ledger: ledger}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/quote", h.Quote)
	rg.POST("/bookings", h.SubmitBooking)
	rg.GET("/bookings/stats", h.PublicStats)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.ListBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.PUT("/bookings/:id/status", h.UpdateStatus)
	rg.DELETE("/bookings/:id", h.DeleteBooking)
}

// Quote prices a prospective booking. Read-only; nothing is persisted and
// no coupon use is consumed.
func (h *Handler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	quote, err := h.service.QuotePrice(c.Request.Context(), &req)
	if err != nil {
		h.quoteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quote": quote})
}

func (h *Handler) SubmitBooking(c *gin.Context) {
	var req SubmitBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.SubmitBooking(c.Request.Context(), &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		h.submitError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"booking": gin.H{
			"id":          b.ID,
			"hours":       b.Hours,
			"add_ons":     b.AddOns,
			"subtotal":    b.Subtotal,
			"discount":    b.Discount,
			"total":       b.Total,
			"coupon_used": b.CouponSummary(),
			"status":      b.Status,
			"created_at":  b.CreatedAt,
		},
	})
}

// PublicStats exposes only non-sensitive aggregate numbers.
func (h *Handler) PublicStats(c *gin.Context) {
	stats, err := h.ledger.GetAggregateStats(c.Request.Context(), nil, nil)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load stats")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"total_bookings": stats.TotalBookings,
		"average_hours":  stats.AverageHours,
	})
}

func (h *Handler) ListBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	f := ListFilters{Search: c.Query("search")}
	if status := c.Query("status"); status != "" && status != "all" {
		f.Status = status
	}
	if from, err := time.Parse("2006-01-02", c.Query("date_from")); err == nil {
		f.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("date_to")); err == nil {
		end := to.Add(24*time.Hour - time.Nanosecond)
		f.DateTo = &end
	}
	switch c.Query("has_coupon") {
	case "true":
		v := true
		f.HasCoupon = &v
	case "false":
		v := false
		f.HasCoupon = &v
	}

	bookings, pagination, err := h.service.ListBookings(c.Request.Context(), f, page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list bookings")
		return
	}

	stats, err := h.ledger.GetAggregateStats(c.Request.Context(), f.DateFrom, f.DateTo)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load stats")
		return
	}
	topCoupons, err := h.ledger.GetTopCoupons(c.Request.Context(), 5)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load top coupons")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"bookings":    bookings,
		"pagination":  pagination,
		"stats":       stats,
		"top_coupons": topCoupons,
	})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.SetBookingStatus(c.Request.Context(), middleware.AdminFrom(c), id, domain.BookingStatus(req.Status), req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid status")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrInvalidTransition):
			response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Status transition not allowed")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update booking")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"booking": gin.H{
			"id":         b.ID,
			"status":     b.Status,
			"updated_at": b.UpdatedAt,
		},
	})
}

func (h *Handler) DeleteBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	if err := h.service.DeleteBooking(c.Request.Context(), middleware.AdminFrom(c), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) quoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Hours must be greater than zero")
	case errors.Is(err, coupon.ErrMalformedCode):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid coupon code")
	case errors.Is(err, coupon.ErrNotFound):
		response.Error(c, http.StatusNotFound, "COUPON_NOT_FOUND", "Coupon not found")
	case errors.Is(err, coupon.ErrInactive):
		response.Error(c, http.StatusBadRequest, "COUPON_INACTIVE", "This coupon is not active")
	case errors.Is(err, coupon.ErrNotInWindow):
		response.Error(c, http.StatusBadRequest, "COUPON_EXPIRED", "This coupon is not currently valid")
	case errors.Is(err, coupon.ErrConsumed):
		response.Error(c, http.StatusBadRequest, "COUPON_CONSUMED", "This coupon has already been used")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute quote")
	}
}

func (h *Handler) submitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrReceiptNotFound):
		response.Error(c, http.StatusBadRequest, "RECEIPT_NOT_FOUND", "Payment receipt not found")
	case errors.Is(err, ErrQuoteMismatch):
		response.Error(c, http.StatusConflict, "QUOTE_MISMATCH", "Quoted totals are out of date, please re-quote")
	case errors.Is(err, coupon.ErrNoLongerValid):
		response.Error(c, http.StatusConflict, "COUPON_NO_LONGER_VALID", "The coupon was used by another booking, please re-quote")
	default:
		h.quoteError(c, err)
	}
}
