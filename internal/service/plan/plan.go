package plansrv

import (
	"context"
	"time"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/internal/repository"
	"github.com/kiritara/resort-admin/internal/service"
	"github.com/kiritara/resort-admin/pkg/common"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type planService struct {
	planRepository repository.PlanRepository

	meter             metric.Meter
	tracer            trace.Tracer
	log               *zap.Logger
	operationDuration metric.Float64Histogram
	operationCount    metric.Int64Counter
	errorCount        metric.Int64Counter
}

// CreatePlan implements service.PlanServices.
func (s *planService) CreatePlan(ctx context.Context, plan *domain.MembershipPlan) (*domain.MembershipPlan, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreatePlan")
	defer span.End()

	start := time.Now()
	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "create_plan"),
		attribute.String("service", "plan"),
	))

	if err := s.planRepository.Create(ctx, plan); err != nil {
		return nil, s.fail(ctx, span, start, "create_plan", "repository_error", err)
	}

	s.log.Info("Membership plan created",
		zap.Uint64("plan_id", plan.ID),
		zap.String("name", plan.Name),
		zap.Int64("total_amount", plan.TotalAmount),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Plan created")

	return plan, nil
}

// UpdatePlan implements service.PlanServices. Only the catalog fields
// change; installment schedules generated from an earlier version of
// the plan are snapshots and stay untouched.
func (s *planService) UpdatePlan(ctx context.Context, id uint64, plan domain.MembershipPlan) error {
	ctx, span := s.tracer.Start(ctx, "service.UpdatePlan")
	defer span.End()

	start := time.Now()
	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "update_plan"),
		attribute.String("service", "plan"),
	))
	span.SetAttributes(attribute.Int64("plan.id", int64(id)))

	existing, err := s.planRepository.FindByID(ctx, id)
	if err != nil {
		return s.fail(ctx, span, start, "update_plan", "repository_error", err)
	}
	if existing == nil {
		return s.fail(ctx, span, start, "update_plan", "not_found", common.ErrPlanNotFound)
	}

	plan.ID = id
	if err := s.planRepository.Update(ctx, &plan); err != nil {
		return s.fail(ctx, span, start, "update_plan", "repository_error", err)
	}

	s.log.Info("Membership plan updated",
		zap.Uint64("plan_id", id),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Plan updated")

	return nil
}

// DeletePlan implements service.PlanServices. The investors foreign key
// is RESTRICT, so deleting a plan that investors reference fails at the
// database and surfaces as a repository error.
func (s *planService) DeletePlan(ctx context.Context, id uint64) error {
	ctx, span := s.tracer.Start(ctx, "service.DeletePlan")
	defer span.End()

	start := time.Now()
	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "delete_plan"),
		attribute.String("service", "plan"),
	))
	span.SetAttributes(attribute.Int64("plan.id", int64(id)))

	deleted, err := s.planRepository.Delete(ctx, id)
	if err != nil {
		return s.fail(ctx, span, start, "delete_plan", "repository_error", err)
	}
	if !deleted {
		return s.fail(ctx, span, start, "delete_plan", "not_found", common.ErrPlanNotFound)
	}

	s.log.Info("Membership plan deleted",
		zap.Uint64("plan_id", id),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Plan deleted")

	return nil
}

// GetPlanByID implements service.PlanServices.
func (s *planService) GetPlanByID(ctx context.Context, id uint64) (*domain.MembershipPlan, error) {
	ctx, span := s.tracer.Start(ctx, "service.GetPlanByID")
	defer span.End()

	start := time.Now()
	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "get_plan"),
		attribute.String("service", "plan"),
	))

	plan, err := s.planRepository.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, start, "get_plan", "repository_error", err)
	}
	if plan == nil {
		return nil, s.fail(ctx, span, start, "get_plan", "not_found", common.ErrPlanNotFound)
	}

	span.SetStatus(codes.Ok, "Plan found")

	return plan, nil
}

// ListPlans implements service.PlanServices.
func (s *planService) ListPlans(ctx context.Context) ([]domain.MembershipPlan, error) {
	ctx, span := s.tracer.Start(ctx, "service.ListPlans")
	defer span.End()

	start := time.Now()
	s.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "list_plans"),
		attribute.String("service", "plan"),
	))

	plans, err := s.planRepository.FindAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, start, "list_plans", "repository_error", err)
	}

	span.SetStatus(codes.Ok, "Plans listed")
	span.SetAttributes(attribute.Int("result.count", len(plans)))

	return plans, nil
}

func (s *planService) fail(ctx context.Context, span trace.Span, start time.Time, operation, errorType string, err error) error {
	span.SetStatus(codes.Error, errorType)
	span.RecordError(err)

	s.errorCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("service", "plan"),
		attribute.String("error_type", errorType),
	))

	duration := float64(time.Since(start).Milliseconds())
	s.operationDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("service", "plan"),
		attribute.String("status", "error"),
	))

	s.log.Error("Plan service operation failed",
		zap.String("operation", operation),
		zap.String("error_type", errorType),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Error(err),
	)

	return err
}

func NewPlanService(
	planRepository repository.PlanRepository,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.PlanServices {
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

	return &planService{
		planRepository: planRepository,

		meter:             meter,
		tracer:            tracer,
		log:               log,
		operationDuration: operationDuration,
		operationCount:    operationCount,
		errorCount:        errorCount,
	}
}
