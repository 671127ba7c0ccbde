package coupon

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"backline/internal/domain"
	"backline/internal/middleware"
	"backline/internal/pkg/response"
)

type Handler struct {
	service   *Service
	evaluator *Evaluator
}

func NewHandler(service *Service, evaluator *Evaluator) *Handler {
	return &Handler{service: service, evaluator: evaluator}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/coupons/validate", h.ValidateCoupon)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/coupons", h.ListCoupons)
	rg.POST("/coupons", h.CreateCoupon)
	rg.PUT("/coupons/:id", h.UpdateCoupon)
	rg.DELETE("/coupons/:id", h.DeleteCoupon)
}

// ValidateCoupon is the public pre-quote check used by the booking
// calculator. It never consumes the coupon.
func (h *Handler) ValidateCoupon(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Coupon code is required")
		return
	}

	cp, err := h.evaluator.Validate(c.Request.Context(), code, time.Now())
	if err != nil {
		h.rejectCoupon(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"coupon": toCouponInfo(cp)})
}

func (h *Handler) ListCoupons(c *gin.Context) {
	coupons, err := h.service.ListCoupons(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list coupons")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"coupons": coupons, "count": len(coupons)})
}

func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	cp, err := h.service.CreateCoupon(c.Request.Context(), middleware.AdminFrom(c), &req)
	if err != nil {
		h.adminError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"coupon": cp})
}

func (h *Handler) UpdateCoupon(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid coupon id")
		return
	}

	var req UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	cp, err := h.service.UpdateCoupon(c.Request.Context(), middleware.AdminFrom(c), id, &req)
	if err != nil {
		h.adminError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"coupon": cp})
}

func (h *Handler) DeleteCoupon(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid coupon id")
		return
	}

	if err := h.service.DeleteCoupon(c.Request.Context(), middleware.AdminFrom(c), id); err != nil {
		h.adminError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) rejectCoupon(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMalformedCode):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid coupon code")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "COUPON_NOT_FOUND", "Coupon not found")
	case errors.Is(err, ErrInactive):
		response.Error(c, http.StatusBadRequest, "COUPON_INACTIVE", "This coupon is not active")
	case errors.Is(err, ErrNotInWindow):
		response.Error(c, http.StatusBadRequest, "COUPON_EXPIRED", "This coupon is not currently valid")
	case errors.Is(err, ErrConsumed):
		response.Error(c, http.StatusBadRequest, "COUPON_CONSUMED", "This coupon has already been used")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to validate coupon")
	}
}

func (h *Handler) adminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrMalformedCode):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid coupon data")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "COUPON_NOT_FOUND", "Coupon not found")
	case errors.Is(err, ErrCodeExists):
		response.Error(c, http.StatusConflict, "COUPON_CODE_EXISTS", "A coupon with this code already exists")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Coupon operation failed")
	}
}

func toCouponInfo(c *domain.Coupon) CouponInfo {
	return CouponInfo{
		ID:           c.ID,
		Code:         c.Code,
		DiscountType: string(c.DiscountType),
		Value:        c.Value,
		CouponType:   string(c.CouponType),
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
		Active:       c.Active,
	}
}
