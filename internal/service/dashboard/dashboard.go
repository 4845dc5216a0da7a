package dashboardsrv

import (
	"context"
	"time"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/internal/repository"
	"github.com/kiritara/resort-admin/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	recentInvestorLimit  = 5
	upcomingPaymentLimit = 10
)

type dashboardService struct {
	planRepository        repository.PlanRepository
	investorRepository    repository.InvestorRepository
	installmentRepository repository.InstallmentRepository

	meter             metric.Meter
	tracer            trace.Tracer
	log               *zap.Logger
	operationDuration metric.Float64Histogram
	operationCount    metric.Int64Counter
	errorCount        metric.Int64Counter
}

// GetSummary implements service.DashboardServices. Counts come from SQL
// aggregates rather than loading every row; the overdue count is
// derived from pending rows past due, matching the read-side
// reconciliation the installment listings apply.
func (s *dashboardService) GetSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetSummary")
	defer span.End()

	start := time.Now()
	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "get_summary"),
		attribute.String("service", "dashboard"),
	))

	summary := &domain.DashboardSummary{}

	var err error
	if summary.TotalInvestors, err = s.investorRepository.Count(ctx); err != nil {
		return nil, s.fail(ctx, span, start, "count_investors", err)
	}
	if summary.TotalInvestment, err = s.investorRepository.SumTotalInvestment(ctx); err != nil {
		return nil, s.fail(ctx, span, start, "sum_investment", err)
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	pending, err := s.installmentRepository.CountByStatus(ctx, domain.InstallmentPending)
	if err != nil {
		return nil, s.fail(ctx, span, start, "count_pending", err)
	}
	overdue, err := s.installmentRepository.CountPendingDueBefore(ctx, today)
	if err != nil {
		return nil, s.fail(ctx, span, start, "count_overdue", err)
	}
	summary.PendingInstallments = pending
	summary.OverduePayments = overdue

	recent, err := s.investorRepository.FindRecent(ctx, recentInvestorLimit)
	if err != nil {
		return nil, s.fail(ctx, span, start, "find_recent", err)
	}

	planNames, err := s.planNames(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, start, "load_plans", err)
	}

	summary.RecentInvestors = make([]domain.RecentInvestor, 0, len(recent))
	for _, inv := range recent {
		summary.RecentInvestors = append(summary.RecentInvestors, domain.RecentInvestor{
			Name:     inv.FullName,
			PlanName: planNames[inv.PlanID],
			Amount:   inv.TotalInvestment,
			JoinDate: inv.JoinDate,
		})
	}

	upcoming, err := s.installmentRepository.FindPendingOrdered(ctx, upcomingPaymentLimit)
	if err != nil {
		return nil, s.fail(ctx, span, start, "find_upcoming", err)
	}

	investorNames, err := s.investorNames(ctx, upcoming)
	if err != nil {
		return nil, s.fail(ctx, span, start, "load_investors", err)
	}

	summary.UpcomingPayments = make([]domain.UpcomingPayment, 0, len(upcoming))
	for _, inst := range upcoming {
		status := inst.Status
		if status == domain.InstallmentPending && inst.DueDate.Before(today) {
			status = domain.InstallmentOverdue
		}

		name, ok := investorNames[inst.InvestorID]
		if !ok {
			name = "Unknown"
		}

		summary.UpcomingPayments = append(summary.UpcomingPayments, domain.UpcomingPayment{
			InvestorName: name,
			Amount:       inst.Amount,
			DueDate:      inst.DueDate,
			Status:       status,
		})
	}

	duration := float64(time.Since(start).Milliseconds())
	s.operationDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("operation", "get_summary"),
		attribute.String("service", "dashboard"),
		attribute.String("status", "success"),
	))

	span.SetStatus(codes.Ok, "Summary computed")

	return summary, nil
}

func (s *dashboardService) planNames(ctx context.Context) (map[uint64]string, error) {
	plans, err := s.planRepository.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[uint64]string, len(plans))
	for _, plan := range plans {
		names[plan.ID] = plan.Name
	}

	return names, nil
}

// investorNames batch-loads the investors referenced by the given
// installments in a single query.
func (s *dashboardService) investorNames(ctx context.Context, installments []domain.Installment) (map[uint64]string, error) {
	ids := make([]uint64, 0, len(installments))
	seen := make(map[uint64]bool, len(installments))
	for _, inst := range installments {
		if !seen[inst.InvestorID] {
			seen[inst.InvestorID] = true
			ids = append(ids, inst.InvestorID)
		}
	}

	investors, err := s.investorRepository.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[uint64]string, len(investors))
	for _, investor := range investors {
		names[investor.ID] = investor.FullName
	}

	return names, nil
}

func (s *dashboardService) fail(ctx context.Context, span trace.Span, start time.Time, step string, err error) error {
	span.SetStatus(codes.Error, step)
	span.RecordError(err)

	s.errorCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "get_summary"),
		attribute.String("service", "dashboard"),
		attribute.String("error_type", step),
	))

	duration := float64(time.Since(start).Milliseconds())
	s.operationDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("operation", "get_summary"),
		attribute.String("service", "dashboard"),
		attribute.String("status", "error"),
	))

	s.log.Error("Dashboard summary failed",
		zap.String("step", step),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Error(err),
	)

	return err
}

func NewDashboardService(
	planRepository repository.PlanRepository,
	investorRepository repository.InvestorRepository,
	installmentRepository repository.InstallmentRepository,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.DashboardServices {
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

	return &dashboardService{
		planRepository:        planRepository,
		investorRepository:    investorRepository,
		installmentRepository: installmentRepository,

		meter:             meter,
		tracer:            tracer,
		log:               log,
		operationDuration: operationDuration,
		operationCount:    operationCount,
		errorCount:        errorCount,
	}
}
