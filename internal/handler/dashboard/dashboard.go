package dashboardhandler

import (
	"context"
	"time"

	"github.com/kiritara/resort-admin/internal/dto"
	"github.com/kiritara/resort-admin/internal/service"
	"github.com/kiritara/resort-admin/pkg/common"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService service.DashboardServices
	meter            metric.Meter
	tracer           trace.Tracer
	log              *zap.Logger
	requestCount     metric.Int64Counter
	requestDuration  metric.Float64Histogram
	errorCount       metric.Int64Counter
}

func NewDashboardHandler(
	dashboardService service.DashboardServices,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) *DashboardHandler {
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

	return &DashboardHandler{
		dashboardService: dashboardService,
		meter:            meter,
		tracer:           tracer,
		log:              log,
		requestCount:     requestCount,
		requestDuration:  requestDuration,
		errorCount:       errorCount,
	}
}

// GetSummary returns the counters and the recent/upcoming panels the
// admin dashboard renders.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.GetSummary")
	defer span.End()
	start := time.Now()

	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
	))

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	summary, err := h.dashboardService.GetSummary(serviceCtx)
	if err != nil {
		h.errorCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("endpoint", c.Path()),
			attribute.String("error_type", "service_error"),
		))
		span.RecordError(err)
		h.log.Error("Dashboard summary failed",
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	duration := float64(time.Since(start).Milliseconds())
	h.requestDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.Int("status_code", fiber.StatusOK),
	))

	return c.Status(fiber.StatusOK).JSON(dto.DashboardFromEntity(summary))
}
