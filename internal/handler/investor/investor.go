package investorhandler

import (
	"context"
	"errors"
	"time"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/internal/dto"
	"github.com/kiritara/resort-admin/internal/service"
	"github.com/kiritara/resort-admin/pkg/common"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type InvestorHandler struct {
	investorService service.InvestorServices
	validate        *validator.Validate
	meter           metric.Meter
	tracer          trace.Tracer
	log             *zap.Logger
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	errorCount      metric.Int64Counter
}

func NewInvestorHandler(
	investorService service.InvestorServices,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) *InvestorHandler {
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

	return &InvestorHandler{
		investorService: investorService,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		meter:           meter,
		tracer:          tracer,
		log:             log,
		requestCount:    requestCount,
		requestDuration: requestDuration,
		errorCount:      errorCount,
	}
}

func (h *InvestorHandler) recordError(
	ctx context.Context, span trace.Span, c *fiber.Ctx,
	start time.Time, err error, statusCode int, errorType, message string, fields ...zap.Field) error {
	h.errorCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
		attribute.String("error_type", errorType),
		attribute.Int("status_code", statusCode),
	))

	duration := float64(time.Since(start).Nanoseconds()) / 1e6
	h.requestDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
		attribute.Int("status_code", statusCode),
	))

	span.SetAttributes(
		attribute.String("error.type", errorType),
		attribute.String("error.message", err.Error()),
		attribute.Int("http.status_code", statusCode),
	)
	span.RecordError(err)

	logFields := append([]zap.Field{
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Int("status_code", statusCode),
		zap.String("error_type", errorType),
		zap.Float64("duration_ms", duration),
	}, fields...)

	h.log.Error(message, logFields...)

	return common.ErrorResponse(c, statusCode, message)
}

func (h *InvestorHandler) recordSuccess(
	ctx context.Context, span trace.Span, c *fiber.Ctx,
	start time.Time, statusCode int, responseData interface{}, fields ...zap.Field) error {
	duration := float64(time.Since(start).Nanoseconds()) / 1e6
	h.requestDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
		attribute.Int("status_code", statusCode),
	))

	span.SetAttributes(
		attribute.Int("http.status_code", statusCode),
		attribute.Float64("request.duration_ms", duration),
	)

	logFields := append([]zap.Field{
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Int("status_code", statusCode),
		zap.Float64("duration_ms", duration),
	}, fields...)

	h.log.Info("Request completed successfully", logFields...)

	return c.Status(statusCode).JSON(responseData)
}

func (h *InvestorHandler) begin(c *fiber.Ctx, name string) (context.Context, trace.Span, time.Time) {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, name)

	span.SetAttributes(
		attribute.String("http.method", c.Method()),
		attribute.String("http.route", c.Path()),
		attribute.String("http.client_ip", c.IP()),
	)

	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
	))

	return ctx, span, time.Now()
}

// CreateInvestor registers an investor and generates the full
// installment schedule in one request.
func (h *InvestorHandler) CreateInvestor(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.CreateInvestor")
	defer span.End()

	var req dto.CreateInvestorRequest
	if err := c.BodyParser(&req); err != nil {
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusBadRequest, "parse_error", "Cannot parse request body", zap.Error(err))
	}

	if err := h.validate.Struct(req); err != nil {
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusBadRequest, "validation_error", "Validation failed", zap.Error(err))
	}

	span.SetAttributes(
		attribute.String("investor.email", req.Email),
		attribute.Int64("investor.plan_id", int64(req.PlanID)),
		attribute.String("investor.installment_type", req.InstallmentType),
	)

	serviceCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	investor, err := h.investorService.CreateInvestor(serviceCtx, dto.CreateInvestorToEntity(req))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrEmailExists):
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusConflict, "email_exists", "Investor with this email already exists", zap.String("email", req.Email))
		case errors.Is(err, common.ErrPlanNotFound):
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusNotFound, "plan_not_found", "Membership plan not found", zap.Uint64("plan_id", req.PlanID))
		case errors.Is(err, common.ErrInvalidInstallmentAmount):
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusUnprocessableEntity, "invalid_plan_config", "Plan installment amount must be positive", zap.Uint64("plan_id", req.PlanID))
		default:
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
		}
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusCreated, dto.InvestorFromEntity(investor),
		zap.Uint64("investor_id", investor.ID),
		zap.Int("installments", len(investor.Installments)),
	)
}

func (h *InvestorHandler) UpdateInvestor(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.UpdateInvestor")
	defer span.End()

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return h.recordError(
			ctx, span, c, start, errors.New("invalid investor id"),
			fiber.StatusBadRequest, "parse_error", "Invalid investor id")
	}

	var req dto.UpdateInvestorRequest
	if err := c.BodyParser(&req); err != nil {
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusBadRequest, "parse_error", "Cannot parse request body", zap.Error(err))
	}

	if err := h.validate.Struct(req); err != nil {
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusBadRequest, "validation_error", "Validation failed", zap.Error(err))
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := h.investorService.UpdateInvestor(serviceCtx, uint64(id), dto.UpdateInvestorToEntity(req)); err != nil {
		switch {
		case errors.Is(err, common.ErrInvestorNotFound):
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusNotFound, "investor_not_found", "Investor not found", zap.Int("investor_id", id))
		case errors.Is(err, common.ErrEmailExists):
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusConflict, "email_exists", "Investor with this email already exists", zap.String("email", req.Email))
		default:
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
		}
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK,
		fiber.Map{"message": "Investor updated"},
		zap.Int("investor_id", id))
}

func (h *InvestorHandler) DeleteInvestor(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.DeleteInvestor")
	defer span.End()

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return h.recordError(
			ctx, span, c, start, errors.New("invalid investor id"),
			fiber.StatusBadRequest, "parse_error", "Invalid investor id")
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := h.investorService.DeleteInvestor(serviceCtx, uint64(id)); err != nil {
		switch {
		case errors.Is(err, common.ErrInvestorNotFound):
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusNotFound, "investor_not_found", "Investor not found", zap.Int("investor_id", id))
		default:
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
		}
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK,
		fiber.Map{"message": "Investor deleted"},
		zap.Int("investor_id", id))
}

// GetInvestorByID returns the investor with the schedule reconciled and
// sorted for display.
func (h *InvestorHandler) GetInvestorByID(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.GetInvestorByID")
	defer span.End()

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return h.recordError(
			ctx, span, c, start, errors.New("invalid investor id"),
			fiber.StatusBadRequest, "parse_error", "Invalid investor id")
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	investor, err := h.investorService.GetInvestorByID(serviceCtx, uint64(id))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvestorNotFound):
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusNotFound, "investor_not_found", "Investor not found", zap.Int("investor_id", id))
		default:
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
		}
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, dto.InvestorFromEntity(investor),
		zap.Int("investor_id", id))
}

func (h *InvestorHandler) ListInvestors(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.ListInvestors")
	defer span.End()

	params := domain.Params{
		Status: c.Query("status"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 20),
	}
	span.SetAttributes(
		attribute.String("filter.status", params.Status),
		attribute.Int("page", params.Page),
		attribute.Int("limit", params.Limit),
	)

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	page, err := h.investorService.ListInvestors(serviceCtx, params)
	if err != nil {
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, page,
		zap.Int64("total", page.Total))
}
