package installmenthandler

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

type InstallmentHandler struct {
	installmentService service.InstallmentServices
	validate           *validator.Validate
	meter              metric.Meter
	tracer             trace.Tracer
	log                *zap.Logger
	requestCount       metric.Int64Counter
	requestDuration    metric.Float64Histogram
	errorCount         metric.Int64Counter
}

func NewInstallmentHandler(
	installmentService service.InstallmentServices,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) *InstallmentHandler {
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

	return &InstallmentHandler{
		installmentService: installmentService,
		validate:           validator.New(validator.WithRequiredStructEnabled()),
		meter:              meter,
		tracer:             tracer,
		log:                log,
		requestCount:       requestCount,
		requestDuration:    requestDuration,
		errorCount:         errorCount,
	}
}

func (h *InstallmentHandler) recordError(
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

func (h *InstallmentHandler) recordSuccess(
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

func (h *InstallmentHandler) begin(c *fiber.Ctx, name string) (context.Context, trace.Span, time.Time) {
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

// ListByInvestor returns one investor's schedule, overdue first.
func (h *InstallmentHandler) ListByInvestor(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.ListByInvestor")
	defer span.End()

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return h.recordError(
			ctx, span, c, start, errors.New("invalid investor id"),
			fiber.StatusBadRequest, "parse_error", "Invalid investor id")
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	installments, err := h.installmentService.ListByInvestor(serviceCtx, uint64(id))
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

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, dto.InstallmentsFromEntity(installments),
		zap.Int("investor_id", id),
		zap.Int("count", len(installments)),
	)
}

// ListInstallments returns every installment, optionally filtered by
// status. The filter accepts the derived overdue status as well.
func (h *InstallmentHandler) ListInstallments(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.ListInstallments")
	defer span.End()

	status := c.Query("status")
	if status != "" {
		switch domain.InstallmentStatus(status) {
		case domain.InstallmentPending, domain.InstallmentPaid, domain.InstallmentOverdue:
		default:
			return h.recordError(
				ctx, span, c, start, errors.New("invalid status filter"),
				fiber.StatusBadRequest, "validation_error", "Invalid status filter", zap.String("status", status))
		}
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	installments, err := h.installmentService.ListInstallments(serviceCtx, status)
	if err != nil {
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, dto.InstallmentsFromEntity(installments),
		zap.String("status", status),
		zap.Int("count", len(installments)),
	)
}

func (h *InstallmentHandler) GetStats(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.GetStats")
	defer span.End()

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	stats, err := h.installmentService.GetStats(serviceCtx)
	if err != nil {
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, dto.StatsFromEntity(stats))
}

// MarkPaid records a payment against an installment.
func (h *InstallmentHandler) MarkPaid(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.MarkPaid")
	defer span.End()

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return h.recordError(
			ctx, span, c, start, errors.New("invalid installment id"),
			fiber.StatusBadRequest, "parse_error", "Invalid installment id")
	}

	var req dto.MarkPaidRequest
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

	details := domain.PaymentDetails{
		PaymentMode: req.PaymentMode,
		Remarks:     req.Remarks,
	}
	if req.PaidDate != "" {
		paidDate, err := time.Parse("2006-01-02", req.PaidDate)
		if err != nil {
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusBadRequest, "parse_error", "Invalid paid date", zap.String("paid_date", req.PaidDate))
		}
		details.PaidDate = &paidDate
	}

	span.SetAttributes(
		attribute.Int("installment.id", id),
		attribute.String("payment.mode", req.PaymentMode),
	)

	serviceCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	payment, err := h.installmentService.MarkPaid(serviceCtx, uint64(id), details)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInstallmentNotFound):
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusNotFound, "installment_not_found", "Installment not found", zap.Int("installment_id", id))
		case errors.Is(err, common.ErrEmptyPaymentMode):
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusBadRequest, "validation_error", "Payment mode must not be empty")
		default:
			return h.recordError(
				ctx, span, c, start, err,
				fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
		}
	}

	payments := dto.PaymentsFromEntity([]domain.Payment{*payment})

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, payments[0],
		zap.Int("installment_id", id),
		zap.Int64("amount", payment.Amount),
	)
}

// ListPayments returns the payment ledger, optionally scoped to one
// investor via the investor_id query parameter.
func (h *InstallmentHandler) ListPayments(c *fiber.Ctx) error {
	ctx, span, start := h.begin(c, "handler.ListPayments")
	defer span.End()

	investorID := c.QueryInt("investor_id", 0)
	if investorID < 0 {
		return h.recordError(
			ctx, span, c, start, errors.New("invalid investor id"),
			fiber.StatusBadRequest, "parse_error", "Invalid investor id")
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	payments, err := h.installmentService.ListPayments(serviceCtx, uint64(investorID))
	if err != nil {
		return h.recordError(
			ctx, span, c, start, err,
			fiber.StatusInternalServerError, "service_error", "Internal server error", zap.Error(err))
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, dto.PaymentsFromEntity(payments),
		zap.Int("count", len(payments)))
}
