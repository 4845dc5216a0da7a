package router

import (
	"errors"
	"time"

	"github.com/kiritara/resort-admin/config"
	mysqldb "github.com/kiritara/resort-admin/infra/mysql"
	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/middleware"
	ratelimiter "github.com/kiritara/resort-admin/pkg/rate-limiter"
	"github.com/kiritara/resort-admin/pkg/telemetry"
	"github.com/kiritara/resort-admin/presenter"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewRouter(
	presenter presenter.Presenter,
	db *gorm.DB,
	tel *telemetry.OpenTelemetry,
	cfg *config.Config,
	limiter *ratelimiter.RateLimiter,
	store *session.Store,
) *fiber.App {

	jwtAuth := middleware.NewJWTAuthMiddleware(cfg.JWT_SECRET_KEY)
	customCSRF := middleware.NewCustomCSRFMiddleware(store)
	requireAdmin := middleware.RequireRole(domain.AdminRole)

	app := fiber.New(fiber.Config{
		BodyLimit:    10 * 1024 * 1024,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: ErrorCustomHandler(tel.Log),
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS_ORIGINS,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-CSRF-Token",
		AllowMethods:     "GET, POST, PUT, DELETE, PATCH, OPTIONS",
		AllowCredentials: true,
	}))

	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${ip} ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(otelfiber.Middleware(
		otelfiber.WithTracerProvider(tel.TracerProvider),
		otelfiber.WithPropagators(otel.GetTextMapPropagator()),
	))

	if cfg.REQUESTS_METRIC {
		zap.L().Info("Enabling HTTP request metrics middleware")
		app.Use(middleware.NewOtelMiddleware().Handle())
	} else {
		zap.L().Info("HTTP request metrics middleware is disabled")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := mysqldb.Ping(db, c.Context()); err != nil {
			zap.L().Error("Health check failed: database ping error", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":      "healthy",
			"service":     cfg.SERVICE_NAME,
			"version":     cfg.SERVICE_VERSION,
			"environment": cfg.ENVIRONMENT,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := app.Group("/api/v1")

	api.Use(limiter.RateLimitMiddleware())

	authAPI := api.Group("/auth")
	{
		authAPI.Post("/login", presenter.PrivatePresenter.Login)
		authAPI.Post("/logout", jwtAuth, customCSRF, presenter.PrivatePresenter.Logout)
		authAPI.Get("/csrf-token", func(c *fiber.Ctx) error {
			sess, err := store.Get(c)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Session error"})
			}

			token := sess.Get("csrf_token")
			if token == nil {
				newToken, err := middleware.GenerateCSRFToken()
				if err != nil {
					return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate CSRF token"})
				}
				sess.Set("csrf_token", newToken)
				sess.Save()
				token = newToken
			}
			return c.JSON(fiber.Map{"csrf_token": token})
		})
	}

	// Public catalog and gallery for the marketing site.
	api.Get("/plans", presenter.PlanPresenter.ListPlans)
	api.Get("/plans/:id", presenter.PlanPresenter.GetPlanByID)
	api.Get("/gallery", presenter.GalleryPresenter.ListImages)

	adminAPI := api.Group("/admin", jwtAuth, customCSRF, requireAdmin)

	adminPlansAPI := adminAPI.Group("/plans")
	{
		adminPlansAPI.Post("/", presenter.PlanPresenter.CreatePlan)
		adminPlansAPI.Put("/:id", presenter.PlanPresenter.UpdatePlan)
		adminPlansAPI.Delete("/:id", presenter.PlanPresenter.DeletePlan)
	}

	adminInvestorsAPI := adminAPI.Group("/investors")
	{
		adminInvestorsAPI.Post("/", presenter.InvestorPresenter.CreateInvestor)
		adminInvestorsAPI.Get("/", presenter.InvestorPresenter.ListInvestors)
		adminInvestorsAPI.Get("/:id", presenter.InvestorPresenter.GetInvestorByID)
		adminInvestorsAPI.Put("/:id", presenter.InvestorPresenter.UpdateInvestor)
		adminInvestorsAPI.Delete("/:id", presenter.InvestorPresenter.DeleteInvestor)
		adminInvestorsAPI.Get("/:id/installments", presenter.InstallmentPresenter.ListByInvestor)
	}

	adminInstallmentsAPI := adminAPI.Group("/installments")
	{
		adminInstallmentsAPI.Get("/", presenter.InstallmentPresenter.ListInstallments)
		adminInstallmentsAPI.Get("/stats", presenter.InstallmentPresenter.GetStats)
		adminInstallmentsAPI.Post("/:id/pay", presenter.InstallmentPresenter.MarkPaid)
	}

	adminAPI.Get("/payments", presenter.InstallmentPresenter.ListPayments)
	adminAPI.Get("/dashboard", presenter.DashboardPresenter.GetSummary)

	adminExportsAPI := adminAPI.Group("/exports")
	{
		adminExportsAPI.Get("/investors.csv", presenter.ExportPresenter.InvestorsCSV)
		adminExportsAPI.Get("/installments.csv", presenter.ExportPresenter.InstallmentsCSV)
		adminExportsAPI.Get("/payments.csv", presenter.ExportPresenter.PaymentsCSV)
		adminExportsAPI.Get("/plans.csv", presenter.ExportPresenter.PlansCSV)
		adminExportsAPI.Get("/backup.json", presenter.ExportPresenter.FullJSON)
		adminExportsAPI.Post("/restore", presenter.ExportPresenter.RestoreJSON)
	}

	adminGalleryAPI := adminAPI.Group("/gallery")
	{
		adminGalleryAPI.Post("/", presenter.GalleryPresenter.UploadImage)
		adminGalleryAPI.Delete("/:id", presenter.GalleryPresenter.DeleteImage)
	}

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Resource not found",
			"path":    c.Path(),
		})
	})

	return app
}

func ErrorCustomHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		}

		log.Error("Request error occured",
			zap.Error(err),
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.Int("status_code", code),
		)

		return c.Status(code).JSON(fiber.Map{
			"error":   true,
			"message": message,
			"code":    code,
		})
	}
}
