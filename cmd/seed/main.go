package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"backline/internal/config"
	"backline/internal/database"
	"backline/internal/domain"
	"backline/internal/repository"
)

// Seeds a local database with an admin account and a few demo coupons so
// the booking calculator has something to validate against.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM coupons")
	db.Exec("DELETE FROM receipts")
	db.Exec("DELETE FROM admin_users")

	ctx := context.Background()

	log.Println("Creating admin user...")
	hash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admins := repository.NewAdminUserRepository(db)
	if err := admins.Create(ctx, &domain.AdminUser{
		Username:     "admin",
		PasswordHash: string(hash),
		IsActive:     true,
	}); err != nil {
		log.Fatal("admin seed failed:", err)
	}
	log.Println("Admin created: admin / admin123")

	log.Println("Creating demo coupons...")
	now := time.Now()
	windowStart := now.AddDate(0, 0, -7)
	windowEnd := now.AddDate(0, 1, 0)

	coupons := []domain.Coupon{
		{
			Code:         "WELCOME10",
			DiscountType: domain.DiscountPercentage,
			Value:        10,
			CouponType:   domain.CouponTimeLimited,
			StartDate:    &windowStart,
			EndDate:      &windowEnd,
			Active:       true,
		},
		{
			Code:         "DRUM5000",
			DiscountType: domain.DiscountFixed,
			Value:        5000,
			CouponType:   domain.CouponOneTime,
			Active:       true,
		},
		{
			Code:         "FREEHOUR",
			DiscountType: domain.DiscountHours,
			Value:        1,
			CouponType:   domain.CouponOneTime,
			Active:       true,
		},
	}

	couponRepo := repository.NewCouponRepository(db)
	for i := range coupons {
		if err := couponRepo.Create(ctx, &coupons[i]); err != nil {
			log.Fatal("coupon seed failed:", err)
		}
		log.Printf("Coupon created: %s (%s %s)", coupons[i].Code, coupons[i].DiscountType, coupons[i].CouponType)
	}

	log.Println("Seed completed")
}
