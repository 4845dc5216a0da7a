package installmentsrv

import (
	"context"
	"fmt"
	"time"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/internal/repository"
	"github.com/kiritara/resort-admin/internal/schedule"
	"github.com/kiritara/resort-admin/internal/service"
	"github.com/kiritara/resort-admin/pkg/common"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type installmentService struct {
	db                    *gorm.DB
	investorRepository    repository.InvestorRepository
	installmentRepository repository.InstallmentRepository
	paymentRepository     repository.PaymentRepository

	meter             metric.Meter
	tracer            trace.Tracer
	log               *zap.Logger
	operationDuration metric.Float64Histogram
	operationCount    metric.Int64Counter
	errorCount        metric.Int64Counter
	paymentsRecorded  metric.Int64Counter
}

// ListByInvestor implements service.InstallmentServices. Statuses are
// reconciled against today before the display sort is applied; the
// overdue transition is derived on every read, never stored.
func (s *installmentService) ListByInvestor(ctx context.Context, investorID uint64) ([]domain.Installment, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListByInvestor")
	defer span.End()

	start := time.Now()
	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "list_by_investor"),
		attribute.String("service", "installment"),
	))

	investor, err := s.investorRepository.FindByID(ctx, investorID)
	if err != nil {
		return nil, s.fail(ctx, span, start, "list_by_investor", "repository_error", err)
	}
	if investor == nil {
		return nil, s.fail(ctx, span, start, "list_by_investor", "not_found", common.ErrInvestorNotFound)
	}

	installments, err := s.installmentRepository.FindByInvestorID(ctx, investorID)
	if err != nil {
		return nil, s.fail(ctx, span, start, "list_by_investor", "repository_error", err)
	}

	installments = schedule.Reconcile(installments, time.Now())
	schedule.SortForDisplay(installments)

	span.SetStatus(codes.Ok, "Installments listed")

	return installments, nil
}

// ListInstallments implements service.InstallmentServices. The status
// filter is applied after reconciliation so "overdue" matches rows that
// are stored as pending but past due.
func (s *installmentService) ListInstallments(ctx context.Context, status string) ([]domain.Installment, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListInstallments")
	defer span.End()

	start := time.Now()
	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "list_installments"),
		attribute.String("service", "installment"),
	))
	span.SetAttributes(attribute.String("filter.status", status))

	installments, err := s.installmentRepository.FindAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, start, "list_installments", "repository_error", err)
	}

	installments = schedule.Reconcile(installments, time.Now())

	if status != "" {
		filtered := installments[:0]
		for _, inst := range installments {
			if inst.Status == domain.InstallmentStatus(status) {
				filtered = append(filtered, inst)
			}
		}
		installments = filtered
	}

	schedule.SortForDisplay(installments)

	span.SetStatus(codes.Ok, "Installments listed")
	span.SetAttributes(attribute.Int("result.count", len(installments)))

	return installments, nil
}

// GetStats implements service.InstallmentServices.
func (s *installmentService) GetStats(ctx context.Context) (*domain.InstallmentStats, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetStats")
	defer span.End()

	start := time.Now()
	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "get_stats"),
		attribute.String("service", "installment"),
	))

	installments, err := s.installmentRepository.FindAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, start, "get_stats", "repository_error", err)
	}

	installments = schedule.Reconcile(installments, time.Now())

	stats := &domain.InstallmentStats{Total: int64(len(installments))}
	for _, inst := range installments {
		stats.TotalAmount += inst.Amount
		switch inst.Status {
		case domain.InstallmentPaid:
			stats.Paid++
			stats.PaidAmount += inst.Amount
		case domain.InstallmentOverdue:
			stats.Overdue++
			stats.PendingAmount += inst.Amount
		default:
			stats.Pending++
			stats.PendingAmount += inst.Amount
		}
	}

	span.SetStatus(codes.Ok, "Stats computed")

	return stats, nil
}

// MarkPaid implements service.InstallmentServices.
//
// The installment update, the payment ledger append and the investor
// bookkeeping refresh happen in one database transaction: either all of
// them land or none do. An unknown installment id returns
// common.ErrInstallmentNotFound with no mutation.
//
// Re-marking an already paid installment overwrites the payment fields
// and appends another ledger entry. That mirrors the long-standing
// behavior of the admin tool this service replaces; callers that want
// stricter semantics must check the status first.
func (s *installmentService) MarkPaid(ctx context.Context, installmentID uint64, details domain.PaymentDetails) (*domain.Payment, error) {
	ctx, span := s.tracer.Start(ctx, "service.MarkPaid")
	defer span.End()

	start := time.Now()
	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "mark_paid"),
		attribute.String("service", "installment"),
	))
	span.SetAttributes(attribute.Int64("installment.id", int64(installmentID)))

	if details.PaymentMode == "" {
		return nil, s.fail(ctx, span, start, "mark_paid", "validation_error", common.ErrEmptyPaymentMode)
	}

	paidDate := time.Now()
	if details.PaidDate != nil {
		paidDate = *details.PaidDate
	}
	paidDate = time.Date(paidDate.Year(), paidDate.Month(), paidDate.Day(), 0, 0, 0, 0, time.UTC)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, s.fail(ctx, span, start, "mark_paid", "tx_error",
			fmt.Errorf("failed to begin transaction: %w", tx.Error))
	}
	defer tx.Rollback()

	installmentTx := repository.NewInstallmentRepository(tx)
	installment, err := installmentTx.FindByIDWithLock(ctx, installmentID)
	if err != nil {
		return nil, s.fail(ctx, span, start, "mark_paid", "repository_error", err)
	}
	if installment == nil {
		return nil, s.fail(ctx, span, start, "mark_paid", "not_found", common.ErrInstallmentNotFound)
	}

	wasPaid := installment.Status == domain.InstallmentPaid
	if wasPaid {
		s.log.Warn("Re-marking an already paid installment",
			zap.Uint64("installment_id", installmentID),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
		)
	}

	installment.Status = domain.InstallmentPaid
	installment.PaidDate = &paidDate
	installment.PaymentMode = details.PaymentMode
	installment.Remarks = details.Remarks

	if err := installmentTx.Update(ctx, installment); err != nil {
		return nil, s.fail(ctx, span, start, "mark_paid", "repository_error", err)
	}

	// Ledger entry snapshots the installment's amount at payment time.
	payment := &domain.Payment{
		InvestorID:    installment.InvestorID,
		InstallmentID: installment.ID,
		Amount:        installment.Amount,
		PaymentDate:   paidDate,
		PaymentMode:   details.PaymentMode,
		Remarks:       details.Remarks,
	}

	paymentTx := repository.NewPaymentRepository(tx)
	if err := paymentTx.Create(ctx, payment); err != nil {
		return nil, s.fail(ctx, span, start, "mark_paid", "repository_error", err)
	}

	investorTx := repository.NewInvestorRepository(tx)
	investor, err := investorTx.FindByIDWithLock(ctx, installment.InvestorID)
	if err != nil {
		return nil, s.fail(ctx, span, start, "mark_paid", "repository_error", err)
	}
	if investor != nil && !wasPaid {
		investor.TotalPaid += installment.Amount
		investor.PendingAmount -= installment.Amount

		remaining, err := installmentTx.FindByInvestorID(ctx, installment.InvestorID)
		if err != nil {
			return nil, s.fail(ctx, span, start, "mark_paid", "repository_error", err)
		}
		investor.NextDueDate = schedule.NextDueDate(remaining)

		if err := investorTx.Update(ctx, investor); err != nil {
			return nil, s.fail(ctx, span, start, "mark_paid", "repository_error", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, s.fail(ctx, span, start, "mark_paid", "tx_error",
			fmt.Errorf("failed to commit transaction: %w", err))
	}

	s.paymentsRecorded.Add(ctx, 1)
	duration := float64(time.Since(start).Milliseconds())
	s.operationDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("operation", "mark_paid"),
		attribute.String("service", "installment"),
		attribute.String("status", "success"),
	))

	s.log.Info("Installment marked paid",
		zap.Uint64("installment_id", installmentID),
		zap.Uint64("investor_id", installment.InvestorID),
		zap.Int64("amount", installment.Amount),
		zap.String("payment_mode", details.PaymentMode),
		zap.Float64("duration_ms", duration),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Installment marked paid")

	return payment, nil
}

// ListPayments implements service.InstallmentServices. An investorID of
// zero lists the whole ledger.
func (s *installmentService) ListPayments(ctx context.Context, investorID uint64) ([]domain.Payment, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListPayments")
	defer span.End()

	start := time.Now()
	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "list_payments"),
		attribute.String("service", "installment"),
	))

	var payments []domain.Payment
	var err error
	if investorID == 0 {
		payments, err = s.paymentRepository.FindAll(ctx)
	} else {
		payments, err = s.paymentRepository.FindByInvestorID(ctx, investorID)
	}
	if err != nil {
		return nil, s.fail(ctx, span, start, "list_payments", "repository_error", err)
	}

	span.SetStatus(codes.Ok, "Payments listed")

	return payments, nil
}

func (s *installmentService) fail(ctx context.Context, span trace.Span, start time.Time, operation, errorType string, err error) error {
	span.SetStatus(codes.Error, errorType)
	span.RecordError(err)

	s.errorCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("service", "installment"),
		attribute.String("error_type", errorType),
	))

	duration := float64(time.Since(start).Milliseconds())
	s.operationDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("service", "installment"),
		attribute.String("status", "error"),
	))

	s.log.Error("Installment service operation failed",
		zap.String("operation", operation),
		zap.String("error_type", errorType),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Error(err),
	)

	return err
}

func NewInstallmentService(
	db *gorm.DB,
	investorRepository repository.InvestorRepository,
	installmentRepository repository.InstallmentRepository,
	paymentRepository repository.PaymentRepository,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.InstallmentServices {
	operationDuration, _ := meter.Float64Histogram(
		"service.operation.duration",
		metric.WithDescription("Duration of service operations"),
		metric.WithUnit("ms"),
	)

	operationCount, _ := meter.Int64Counter(
		"service.operation.count",
		metric.WithDescription("Number of service operations"),
		metric.WithUnit("{operation}"),
	)

	errorCount, _ := meter.Int64Counter(
		"service.error.count",
		metric.WithDescription("Number of service errors"),
		metric.WithUnit("{error}"),
	)

	paymentsRecorded, _ := meter.Int64Counter(
		"service.payments.recorded",
		metric.WithDescription("Number of installment payments recorded"),
		metric.WithUnit("{payment}"),
	)

	return &installmentService{
		db:                    db,
		investorRepository:    investorRepository,
		installmentRepository: installmentRepository,
		paymentRepository:     paymentRepository,

		meter:             meter,
		tracer:            tracer,
		log:               log,
		operationDuration: operationDuration,
		operationCount:    operationCount,
		errorCount:        errorCount,
		paymentsRecorded:  paymentsRecorded,
	}
}
