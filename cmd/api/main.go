package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"backline/internal/config"
	"backline/internal/database"
	"backline/internal/middleware"
	"backline/internal/modules/admin"
	"backline/internal/modules/booking"
	"backline/internal/modules/coupon"
	"backline/internal/modules/ledger"
	"backline/internal/modules/pricing"
	"backline/internal/modules/receipt"
	jwtsvc "backline/internal/pkg/jwt"
	"backline/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	couponRepo := repository.NewCouponRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.TokenTTL)

	adminService := admin.NewService(adminRepo, j, cfg.AdminUsername, cfg.AdminPassword)
	adminHandler := admin.NewHandler(adminService)

	evaluator := coupon.NewEvaluator(couponRepo, pricing.StandardRates)
	couponService := coupon.NewService(couponRepo)
	couponHandler := coupon.NewHandler(couponService, evaluator)

	ledgerService := ledger.NewService(couponRepo, bookingRepo)
	defer ledgerService.Close()

	receiptService := receipt.NewService(receiptRepo)
	receiptHandler := receipt.NewHandler(receiptService)

	bookingService := booking.NewService(bookingRepo, receiptRepo, evaluator, ledgerService, pricing.StandardRates)
	bookingHandler := booking.NewHandler(bookingService, ledgerService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		adminHandler.RegisterPublicRoutes(v1)
		couponHandler.RegisterPublicRoutes(v1)
		receiptHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)

		// admin back office
		adminGroup := v1.Group("/admin")
		adminGroup.Use(middleware.AdminAuth(adminService))
		{
			couponHandler.RegisterAdminRoutes(adminGroup)
			receiptHandler.RegisterAdminRoutes(adminGroup)
			bookingHandler.RegisterAdminRoutes(adminGroup)
		}
	}

	log.Printf("listening addr=:%s env=%s", cfg.Port, cfg.AppEnv)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
