package planhandler

import (
	"context"
	"errors"
	"time"

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

type PlanHandler struct {
	planService     service.PlanServices
	validate        *validator.Validate
	meter           metric.Meter
	tracer          trace.Tracer
	log             *zap.Logger
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	errorCount      metric.Int64Counter
}

func NewPlanHandler(
	planService service.PlanServices,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) *PlanHandler {
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

	return &PlanHandler{
		planService:     planService,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		meter:           meter,
		tracer:          tracer,
		log:             log,
		requestCount:    requestCount,
		requestDuration: requestDuration,
		errorCount:      errorCount,
	}
}

func (h *PlanHandler) recordError(
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

func (h *PlanHandler) recordSuccess(
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

func (h *PlanHandler) begin(c *fiber.Ctx, name string) (context.Context, trace.Span, time.Time) {
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

func (h *PlanHandler) CreatePlan(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.CreatePlan")
	defer span.End()

	var req dto.PlanRequest
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

	plan, err := h.planService.CreatePlan(serviceCtx, dto.PlanToEntity(req))
	if err != nil {
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusCreated, dto.PlanFromEntity(plan),
		zap.Uint64("plan_id", plan.ID))
}

func (h *PlanHandler) UpdatePlan(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.UpdatePlan")
	defer span.End()

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return h.recordError(
			ctx, span, c, start, errors.New("invalid plan id"),
			fiber.StatusBadRequest, "parse_error", "Invalid plan id")
	}

	var req dto.PlanRequest
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

	if err := h.planService.UpdatePlan(serviceCtx, uint64(id), *dto.PlanToEntity(req)); err != nil {
		switch {
		case errors.Is(err, common.ErrPlanNotFound):
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusNotFound, "plan_not_found", "Membership plan not found", zap.Int("plan_id", id))
		default:
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
		}
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK,
		fiber.Map{"message": "Membership plan updated"},
		zap.Int("plan_id", id))
}

func (h *PlanHandler) DeletePlan(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.DeletePlan")
	defer span.End()

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return h.recordError(
			ctx, span, c, start, errors.New("invalid plan id"),
			fiber.StatusBadRequest, "parse_error", "Invalid plan id")
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := h.planService.DeletePlan(serviceCtx, uint64(id)); err != nil {
		switch {
		case errors.Is(err, common.ErrPlanNotFound):
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusNotFound, "plan_not_found", "Membership plan not found", zap.Int("plan_id", id))
		default:
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
		}
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK,
		fiber.Map{"message": "Membership plan deleted"},
		zap.Int("plan_id", id))
}

func (h *PlanHandler) GetPlanByID(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.GetPlanByID")
	defer span.End()

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return h.recordError(
			ctx, span, c, start, errors.New("invalid plan id"),
			fiber.StatusBadRequest, "parse_error", "Invalid plan id")
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	plan, err := h.planService.GetPlanByID(serviceCtx, uint64(id))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrPlanNotFound):
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusNotFound, "plan_not_found", "Membership plan not found", zap.Int("plan_id", id))
		default:
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
		}
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, dto.PlanFromEntity(plan),
		zap.Int("plan_id", id))
}

func (h *PlanHandler) ListPlans(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.ListPlans")
	defer span.End()

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	plans, err := h.planService.ListPlans(serviceCtx)
	if err != nil {
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, dto.PlansFromEntity(plans),
		zap.Int("count", len(plans)))
}
