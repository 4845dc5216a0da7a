package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiritara/resort-admin/config"
	mysqldb "github.com/kiritara/resort-admin/infra/mysql"
	redisdb "github.com/kiritara/resort-admin/infra/redis"
	"github.com/kiritara/resort-admin/internal/model"
	"github.com/kiritara/resort-admin/pkg/cloudinary"
	"github.com/kiritara/resort-admin/pkg/password"
	ratelimiter "github.com/kiritara/resort-admin/pkg/rate-limiter"
	"github.com/kiritara/resort-admin/pkg/telemetry"
	"github.com/kiritara/resort-admin/presenter"
	"github.com/kiritara/resort-admin/router"

	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	slog.Info("Starting application setup...")

	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		slog.Error("No .env file found, using system environment variables", "error", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	tel, err := telemetry.New(ctx, cfg)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize monitoring: %v", err))
	}

	db, err := mysqldb.InitializeDatabase(cfg)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	defer func() {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.SHUTDOWN_TIMEOUT)
		defer cancelShutdown()

		zap.L().Info("Closing MySQL Connection...")
		if err := mysqldb.Close(db, shutdownCtx); err != nil {
			zap.L().Error("Error disconnecting from MySQL", zap.Error(err))
		} else {
			zap.L().Info("Disconnected from MySQL.")
		}

		zap.L().Info("Shutting down monitoring...")
		if err := tel.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("Error during monitoring shutdown", zap.Error(err))
		} else {
			zap.L().Info("Monitoring shutdown complete.")
		}
	}()

	if err := model.AutoMigrate(db); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migration completed!")

	SeedPlans(db)
	SeedAdmin(db, cfg)

	if err := mysqldb.Ping(db, ctx); err != nil {
		slog.Error("Database ping failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connection successful!")

	stats := mysqldb.GetStats(db)
	slog.Info("Database stats:", "stats", stats)

	redisClient, err := redisdb.NewRedis(cfg)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	limiter := ratelimiter.NewRateLimiter(redisClient, cfg.RATE_LIMIT_RPS, cfg.RATE_LIMIT_BURST, time.Hour)

	store := session.New(session.Config{
		Expiration:     24 * time.Hour,
		CookieHTTPOnly: true,
		CookieSecure:   !cfg.DEV_MODE,
		CookieSameSite: "Strict",
	})

	cld, err := cloudinary.InitCloudinary(cfg)
	if err != nil {
		slog.Error("Failed to initialize Cloudinary service:", "error", err)
		os.Exit(1)
	}

	presenter := presenter.NewPresenter(db, cld, tel, cfg)
	router := router.NewRouter(presenter, db, tel, cfg, limiter, store)

	addr := ":" + cfg.SERVER_PORT

	listenErr := make(chan error, 1)

	go func() {
		zap.L().Info("Server starting", zap.String("address", addr))
		if err := router.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		} else {
			listenErr <- nil
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		zap.L().Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-listenErr:
		if err != nil {
			zap.L().Error("Server listen error", zap.Error(err))
			os.Exit(1)
		}
	}

	zap.L().Info("Starting graceful shutdown...")
	if err := router.ShutdownWithTimeout(cfg.SHUTDOWN_TIMEOUT); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			zap.L().Warn("Server shutdown timed out", zap.Duration("timeout", cfg.SHUTDOWN_TIMEOUT))
		} else {
			zap.L().Error("Server shutdown error", zap.Error(err))
		}
	} else {
		zap.L().Info("Server gracefully stopped.")
	}

	zap.L().Info("Application shutdown complete.")
}

// SeedPlans inserts the two launch membership tiers. Existing rows with
// the same name are left untouched.
func SeedPlans(db *gorm.DB) {
	slog.Info("Seeding membership plans...")

	plans := []model.MembershipPlan{
		{
			Name:                 "Silver Tier",
			TotalAmount:          500000,
			DownpaymentPercent:   20,
			MonthlyInstallment:   16667,
			QuarterlyInstallment: 50000,
			Benefits: []string{
				"Luxury Suite Access (7 days/year)",
				"Premium Dining Credits",
				"Spa & Wellness Benefits",
			},
			Duration: "3 Years",
			ROI:      "12-15%",
		},
		{
			Name:                 "Gold Tier",
			TotalAmount:          1200000,
			DownpaymentPercent:   25,
			MonthlyInstallment:   30000,
			QuarterlyInstallment: 90000,
			Benefits: []string{
				"Premium Suite Access (14 days/year)",
				"VIP Dining & Bar Credits",
				"Full Spa Access",
			},
			Duration: "5 Years",
			ROI:      "15-18%",
		},
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&plans).Error; err != nil {
		slog.Error("Failed to seed membership plans", "error", err)
		os.Exit(1)
	}

	slog.Info("Membership plans seeded successfully.")
}

// SeedAdmin creates the back-office admin account from configuration if
// it does not exist yet.
func SeedAdmin(db *gorm.DB, cfg *config.Config) {
	slog.Info("Checking for admin user...")

	var admin model.Admin
	err := db.Where("email = ?", cfg.ADMIN_EMAIL).First(&admin).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		slog.Info("Admin user not found, creating one...")

		if cfg.ADMIN_PASSWORD == "" {
			slog.Error("ADMIN_PASSWORD must be set to create the admin user")
			os.Exit(1)
		}

		hash, err := password.Hash(cfg.ADMIN_PASSWORD)
		if err != nil {
			slog.Error("Failed to hash admin password", "error", err)
			os.Exit(1)
		}

		newAdmin := model.Admin{
			Email:        cfg.ADMIN_EMAIL,
			PasswordHash: hash,
			FullName:     "Administrator",
		}

		if err := db.Create(&newAdmin).Error; err != nil {
			slog.Error("Failed to seed admin user", "error", err)
			os.Exit(1)
		}
		slog.Info("Admin user created successfully.")
	} else if err != nil {
		slog.Error("Error checking for admin user", "error", err)
		os.Exit(1)
	} else {
		slog.Info("Admin user already exists.")
	}
}
