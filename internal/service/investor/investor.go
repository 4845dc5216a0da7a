package investorsrv

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/internal/dto"
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

type investorService struct {
	db                    *gorm.DB
	planRepository        repository.PlanRepository
	investorRepository    repository.InvestorRepository
	installmentRepository repository.InstallmentRepository

	meter             metric.Meter
	tracer            trace.Tracer
	log               *zap.Logger
	operationDuration metric.Float64Histogram
	operationCount    metric.Int64Counter
	errorCount        metric.Int64Counter
	investorsCreated  metric.Int64Counter
}

// CreateInvestor implements service.InvestorServices.
//
// The investor's committed amount is snapshotted from the plan's total
// at creation time, and the full installment schedule is generated and
// persisted in the same database transaction as the investor row. A
// misconfigured plan aborts the creation so the admin sees the problem
// instead of ending up with an investor that has no payment plan.
func (s *investorService) CreateInvestor(ctx context.Context, investor *domain.Investor) (*domain.Investor, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreateInvestor")
	defer span.End()

	start := time.Now()
	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "create_investor"),
		attribute.String("service", "investor"),
	))

	span.SetAttributes(
		attribute.String("investor.email", investor.Email),
		attribute.Int64("plan.id", int64(investor.PlanID)),
		attribute.String("investor.installment_type", string(investor.InstallmentType)),
	)

	s.log.Debug("Creating investor",
		zap.String("email", investor.Email),
		zap.Uint64("plan_id", investor.PlanID),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	existing, err := s.investorRepository.FindByEmail(ctx, investor.Email)
	if err != nil {
		return nil, s.fail(ctx, span, start, "create_investor", "repository_error", err)
	}
	if existing != nil {
		return nil, s.fail(ctx, span, start, "create_investor", "duplicate_email", common.ErrEmailExists)
	}

	plan, err := s.planRepository.FindByID(ctx, investor.PlanID)
	if err != nil {
		return nil, s.fail(ctx, span, start, "create_investor", "repository_error", err)
	}
	if plan == nil {
		return nil, s.fail(ctx, span, start, "create_investor", "plan_not_found", common.ErrPlanNotFound)
	}

	// Snapshot: later plan edits must not change what this investor
	// committed to.
	investor.TotalInvestment = plan.TotalAmount
	investor.TotalPaid = investor.DownpaymentPaid
	investor.PendingAmount = investor.TotalInvestment - investor.DownpaymentPaid
	if investor.Status == "" {
		investor.Status = domain.InvestorActive
	}

	if investor.PendingAmount < 0 {
		// Downpayment above the plan total is almost certainly a data
		// entry mistake; the schedule engine treats it as fully paid.
		s.log.Warn("Downpayment exceeds total investment, generating empty schedule",
			zap.String("email", investor.Email),
			zap.Int64("downpayment_paid", investor.DownpaymentPaid),
			zap.Int64("total_investment", investor.TotalInvestment),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
		)
	}

	installments, err := schedule.Generate(*investor, plan)
	if err != nil {
		return nil, s.fail(ctx, span, start, "create_investor", "schedule_error", err)
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, s.fail(ctx, span, start, "create_investor", "tx_error",
			fmt.Errorf("failed to begin transaction: %w", tx.Error))
	}
	defer tx.Rollback()

	investorTx := repository.NewInvestorRepository(tx)
	if err := investorTx.Create(ctx, investor); err != nil {
		return nil, s.fail(ctx, span, start, "create_investor", "repository_error", err)
	}

	for idx := range installments {
		installments[idx].InvestorID = investor.ID
	}

	installmentTx := repository.NewInstallmentRepository(tx)
	created, err := installmentTx.CreateBatch(ctx, installments)
	if err != nil {
		return nil, s.fail(ctx, span, start, "create_investor", "repository_error", err)
	}

	if next := schedule.NextDueDate(created); next != nil {
		investor.NextDueDate = next
		if err := investorTx.Update(ctx, investor); err != nil {
			return nil, s.fail(ctx, span, start, "create_investor", "repository_error", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, s.fail(ctx, span, start, "create_investor", "tx_error",
			fmt.Errorf("failed to commit transaction: %w", err))
	}

	investor.Installments = created

	s.investorsCreated.Add(ctx, 1)
	duration := float64(time.Since(start).Milliseconds())
	s.operationDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("operation", "create_investor"),
		attribute.String("service", "investor"),
		attribute.String("status", "success"),
	))

	s.log.Info("Investor created",
		zap.Uint64("investor_id", investor.ID),
		zap.Int("installments", len(created)),
		zap.Int64("total_investment", investor.TotalInvestment),
		zap.Float64("duration_ms", duration),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Investor created")

	return investor, nil
}

// UpdateInvestor implements service.InvestorServices. Only contact and
// lifecycle fields are updatable; committed amounts and the schedule
// are immutable after creation.
func (s *investorService) UpdateInvestor(ctx context.Context, id uint64, investor domain.Investor) error {
	ctx, span := s.tracer.Start(ctx, "service.UpdateInvestor")
	defer span.End()

	start := time.Now()
	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "update_investor"),
		attribute.String("service", "investor"),
	))

	current, err := s.investorRepository.FindByID(ctx, id)
	if err != nil {
		return s.fail(ctx, span, start, "update_investor", "repository_error", err)
	}
	if current == nil {
		return s.fail(ctx, span, start, "update_investor", "not_found", common.ErrInvestorNotFound)
	}

	current.FullName = investor.FullName
	current.Email = investor.Email
	current.Phone = investor.Phone
	current.Status = investor.Status

	if err := s.investorRepository.Update(ctx, current); err != nil {
		return s.fail(ctx, span, start, "update_investor", "repository_error", err)
	}

	s.log.Info("Investor updated",
		zap.Uint64("investor_id", id),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Investor updated")

	return nil
}

// DeleteInvestor implements service.InvestorServices.
func (s *investorService) DeleteInvestor(ctx context.Context, id uint64) error {
	ctx, span := s.tracer.Start(ctx, "service.DeleteInvestor")
	defer span.End()

	start := time.Now()
	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "delete_investor"),
		attribute.String("service", "investor"),
	))

	deleted, err := s.investorRepository.Delete(ctx, id)
	if err != nil {
		return s.fail(ctx, span, start, "delete_investor", "repository_error", err)
	}
	if !deleted {
		return s.fail(ctx, span, start, "delete_investor", "not_found", common.ErrInvestorNotFound)
	}

	s.log.Info("Investor deleted",
		zap.Uint64("investor_id", id),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Investor deleted")

	return nil
}

// GetInvestorByID implements service.InvestorServices. The returned
// installments are reconciled against today and sorted for display.
func (s *investorService) GetInvestorByID(ctx context.Context, id uint64) (*domain.Investor, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetInvestorByID")
	defer span.End()

	start := time.Now()
	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "get_investor"),
		attribute.String("service", "investor"),
	))

	investor, err := s.investorRepository.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, start, "get_investor", "repository_error", err)
	}
	if investor == nil {
		return nil, s.fail(ctx, span, start, "get_investor", "not_found", common.ErrInvestorNotFound)
	}

	installments, err := s.installmentRepository.FindByInvestorID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, start, "get_investor", "repository_error", err)
	}

	installments = schedule.Reconcile(installments, time.Now())
	schedule.SortForDisplay(installments)
	investor.Installments = installments

	span.SetStatus(codes.Ok, "Investor retrieved")

	return investor, nil
}

// ListInvestors implements service.InvestorServices.
func (s *investorService) ListInvestors(ctx context.Context, params domain.Params) (*domain.Paginated, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListInvestors")
	defer span.End()

	start := time.Now()
	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "list_investors"),
		attribute.String("service", "investor"),
	))

	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 20
	}

	investors, total, err := s.investorRepository.FindPaginated(ctx, params)
	if err != nil {
		return nil, s.fail(ctx, span, start, "list_investors", "repository_error", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(params.Limit)))

	span.SetStatus(codes.Ok, "Investors listed")

	return dto.ToPaginated(dto.InvestorsFromEntity(investors), total, params.Page, params.Limit, totalPages), nil
}

func (s *investorService) fail(ctx context.Context, span trace.Span, start time.Time, operation, errorType string, err error) error {
	span.SetStatus(codes.Error, errorType)
	span.RecordError(err)

	s.errorCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("service", "investor"),
		attribute.String("error_type", errorType),
	))

	duration := float64(time.Since(start).Milliseconds())
	s.operationDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("service", "investor"),
		attribute.String("status", "error"),
	))

	s.log.Error("Investor service operation failed",
		zap.String("operation", operation),
		zap.String("error_type", errorType),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Error(err),
	)

	return err
}

func NewInvestorService(
	db *gorm.DB,
	planRepository repository.PlanRepository,
	investorRepository repository.InvestorRepository,
	installmentRepository repository.InstallmentRepository,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.InvestorServices {
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

	investorsCreated, _ := meter.Int64Counter(
		"service.investors.created",
		metric.WithDescription("Number of investors created"),
		metric.WithUnit("{investor}"),
	)

	return &investorService{
		db:                    db,
		planRepository:        planRepository,
		investorRepository:    investorRepository,
		installmentRepository: installmentRepository,

		meter:             meter,
		tracer:            tracer,
		log:               log,
		operationDuration: operationDuration,
		operationCount:    operationCount,
		errorCount:        errorCount,
		investorsCreated:  investorsCreated,
	}
}
