package exporthandler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kiritara/resort-admin/internal/service"
	"github.com/kiritara/resort-admin/pkg/common"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ExportHandler struct {
	exportService   service.ExportServices
	meter           metric.Meter
	tracer          trace.Tracer
	log             *zap.Logger
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	errorCount      metric.Int64Counter
}

func NewExportHandler(
	exportService service.ExportServices,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) *ExportHandler {
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

	return &ExportHandler{
		exportService:   exportService,
		meter:           meter,
		tracer:          tracer,
		log:             log,
		requestCount:    requestCount,
		requestDuration: requestDuration,
		errorCount:      errorCount,
	}
}

func (h *ExportHandler) InvestorsCSV(c *fiber.Ctx) error {
	return h.serveCSV(c, "investors", h.exportService.InvestorsCSV)
}

func (h *ExportHandler) InstallmentsCSV(c *fiber.Ctx) error {
	return h.serveCSV(c, "installments", h.exportService.InstallmentsCSV)
}

func (h *ExportHandler) PaymentsCSV(c *fiber.Ctx) error {
	return h.serveCSV(c, "payments", h.exportService.PaymentsCSV)
}

func (h *ExportHandler) PlansCSV(c *fiber.Ctx) error {
	return h.serveCSV(c, "plans", h.exportService.PlansCSV)
}

// FullJSON streams a complete backup document.
func (h *ExportHandler) FullJSON(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.FullJSON")
	defer span.End()
	start := time.Now()

	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
	))

	serviceCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	data, err := h.exportService.FullJSON(serviceCtx)
	if err != nil {
		h.errorCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("endpoint", c.Path()),
			attribute.String("error_type", "service_error"),
		))
		span.RecordError(err)
		h.log.Error("Export failed",
			zap.String("export", "full_json"),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	h.requestDuration.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
	))

	filename := fmt.Sprintf("resort-admin-backup-%s.json", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))

	return c.Status(fiber.StatusOK).Send(data)
}

// RestoreJSON replaces the database contents from an uploaded backup
// document previously produced by FullJSON.
func (h *ExportHandler) RestoreJSON(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.RestoreJSON")
	defer span.End()
	start := time.Now()

	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
	))

	serviceCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := h.exportService.RestoreJSON(serviceCtx, c.Body()); err != nil {
		if errors.Is(err, common.ErrInvalidBackup) {
			h.errorCount.Add(ctx, 1, metric.WithAttributes(
				attribute.String("endpoint", c.Path()),
				attribute.String("error_type", "validation_error"),
			))
			return common.ErrorResponse(c, fiber.StatusBadRequest, "Invalid backup document, check the file format")
		}

		h.errorCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("endpoint", c.Path()),
			attribute.String("error_type", "service_error"),
		))
		span.RecordError(err)
		h.log.Error("Restore failed",
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	h.requestDuration.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
	))

	return common.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"message": "Backup restored",
	})
}

func (h *ExportHandler) serveCSV(c *fiber.Ctx, kind string, generate func(context.Context) ([]byte, error)) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.ExportCSV")
	defer span.End()
	start := time.Now()

	span.SetAttributes(attribute.String("export", kind))
	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
	))

	serviceCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	data, err := generate(serviceCtx)
	if err != nil {
		h.errorCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("endpoint", c.Path()),
			attribute.String("error_type", "service_error"),
		))
		span.RecordError(err)
		h.log.Error("Export failed",
			zap.String("export", kind),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	h.requestDuration.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
	))

	filename := fmt.Sprintf("%s-%s.csv", kind, time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))

	return c.Status(fiber.StatusOK).Send(data)
}
