package privatehandler

import (
	"errors"
	"time"

	"github.com/kiritara/resort-admin/internal/dto"
	"github.com/kiritara/resort-admin/internal/service"
	"github.com/kiritara/resort-admin/middleware"
	"github.com/kiritara/resort-admin/pkg/common"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type PrivateHandler struct {
	privateService service.PrivateServices
	validate       *validator.Validate
	devMode        bool

	meter           metric.Meter
	tracer          trace.Tracer
	log             *zap.Logger
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	errorCount      metric.Int64Counter
}

// Login authenticates an admin and sets the auth token as an HTTP-only
// cookie. The token is also returned in the body for clients that
// prefer header auth.
func (h *PrivateHandler) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.Login")
	defer span.End()
	start := time.Now()

	h.requestCount.Add(ctx, 1)

	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		h.errorCount.Add(ctx, 1)
		return common.ErrorResponse(c, fiber.StatusBadRequest, "Cannot parse request body")
	}

	if err := h.validate.Struct(req); err != nil {
		h.errorCount.Add(ctx, 1)
		return common.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed")
	}

	res, err := h.privateService.Login(ctx, req)
	if err != nil {
		h.errorCount.Add(ctx, 1)
		span.RecordError(err)
		if errors.Is(err, common.ErrInvalidCredentials) {
			return common.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookie,
		Value:    res.Token,
		Expires:  time.Now().Add(72 * time.Hour),
		HTTPOnly: true,
		Secure:   !h.devMode,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})

	h.requestDuration.Record(ctx, float64(time.Since(start).Milliseconds()))
	h.log.Info("Admin login succeeded",
		zap.String("email", req.Email),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	return c.Status(fiber.StatusOK).JSON(res)
}

// Logout clears the auth cookie. The JWT itself stays valid until it
// expires; there is no server-side revocation list.
func (h *PrivateHandler) Logout(c *fiber.Ctx) error {
	ctx := c.UserContext()
	_, span := h.tracer.Start(ctx, "handler.Logout")
	defer span.End()

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   !h.devMode,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Logged out"})
}

func NewPrivateHandler(
	privateService service.PrivateServices,
	devMode bool,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) *PrivateHandler {
	requestCount, err := meter.Int64Counter(
		"api.request.count",
		metric.WithDescription("Number of API requests received"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		zap.L().Fatal("Failed to create request count metric", zap.Error(err))
	}

	requestDuration, err := meter.Float64Histogram(
		"api.request.duration",
		metric.WithDescription("Duration of API requests"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		zap.L().Fatal("Failed to create request duration metric", zap.Error(err))
	}

	errorCount, err := meter.Int64Counter(
		"api.error.count",
		metric.WithDescription("Number of API errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		zap.L().Fatal("Failed to create error count metric", zap.Error(err))
	}

	return &PrivateHandler{
		privateService:  privateService,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		devMode:         devMode,
		meter:           meter,
		tracer:          tracer,
		log:             log,
		requestCount:    requestCount,
		requestDuration: requestDuration,
		errorCount:      errorCount,
	}
}
