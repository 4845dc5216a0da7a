package exportsrv

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
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

const dateLayout = "2006-01-02"

// backupDocument is the portable backup format produced by FullJSON and
// consumed by RestoreJSON.
type backupDocument struct {
	ExportedAt   time.Time               `json:"exported_at"`
	Plans        []domain.MembershipPlan `json:"plans"`
	Investors    []domain.Investor       `json:"investors"`
	Installments []domain.Installment    `json:"installments"`
	Payments     []domain.Payment        `json:"payments"`
}

type exportService struct {
	db *gorm.DB

	planRepository        repository.PlanRepository
	investorRepository    repository.InvestorRepository
	installmentRepository repository.InstallmentRepository
	paymentRepository     repository.PaymentRepository

	meter         metric.Meter
	tracer        trace.Tracer
	log           *zap.Logger
	exportCount   metric.Int64Counter
	exportedBytes metric.Int64Counter
}

// InvestorsCSV implements service.ExportServices.
func (s *exportService) InvestorsCSV(ctx context.Context) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "service.InvestorsCSV")
	defer span.End()

	investors, _, err := s.investorRepository.FindPaginated(ctx, domain.Params{Page: 1, Limit: 100000})
	if err != nil {
		return nil, s.fail(ctx, span, "investors", err)
	}

	records := [][]string{{
		"id", "full_name", "email", "phone", "plan_id", "total_investment",
		"downpayment_paid", "installment_type", "join_date", "status",
		"next_due_date", "total_paid", "pending_amount",
	}}
	for _, inv := range investors {
		nextDue := ""
		if inv.NextDueDate != nil {
			nextDue = inv.NextDueDate.Format(dateLayout)
		}
		records = append(records, []string{
			strconv.FormatUint(inv.ID, 10),
			inv.FullName,
			inv.Email,
			inv.Phone,
			strconv.FormatUint(inv.PlanID, 10),
			strconv.FormatInt(inv.TotalInvestment, 10),
			strconv.FormatInt(inv.DownpaymentPaid, 10),
			string(inv.InstallmentType),
			inv.JoinDate.Format(dateLayout),
			string(inv.Status),
			nextDue,
			strconv.FormatInt(inv.TotalPaid, 10),
			strconv.FormatInt(inv.PendingAmount, 10),
		})
	}

	return s.writeCSV(ctx, span, "investors", records)
}

// InstallmentsCSV implements service.ExportServices. Statuses are
// reconciled against today so the export and the listings agree.
func (s *exportService) InstallmentsCSV(ctx context.Context) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "service.InstallmentsCSV")
	defer span.End()

	installments, err := s.installmentRepository.FindAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "installments", err)
	}
	installments = schedule.Reconcile(installments, time.Now())
	schedule.SortForDisplay(installments)

	records := [][]string{{
		"id", "investor_id", "amount", "due_date", "status",
		"paid_date", "payment_mode", "remarks",
	}}
	for _, inst := range installments {
		paidDate := ""
		if inst.PaidDate != nil {
			paidDate = inst.PaidDate.Format(dateLayout)
		}
		records = append(records, []string{
			strconv.FormatUint(inst.ID, 10),
			strconv.FormatUint(inst.InvestorID, 10),
			strconv.FormatInt(inst.Amount, 10),
			inst.DueDate.Format(dateLayout),
			string(inst.Status),
			paidDate,
			inst.PaymentMode,
			inst.Remarks,
		})
	}

	return s.writeCSV(ctx, span, "installments", records)
}

// PaymentsCSV implements service.ExportServices.
func (s *exportService) PaymentsCSV(ctx context.Context) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "service.PaymentsCSV")
	defer span.End()

	payments, err := s.paymentRepository.FindAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "payments", err)
	}

	records := [][]string{{
		"id", "investor_id", "installment_id", "amount",
		"payment_date", "payment_mode", "remarks",
	}}
	for _, p := range payments {
		records = append(records, []string{
			strconv.FormatUint(p.ID, 10),
			strconv.FormatUint(p.InvestorID, 10),
			strconv.FormatUint(p.InstallmentID, 10),
			strconv.FormatInt(p.Amount, 10),
			p.PaymentDate.Format(dateLayout),
			p.PaymentMode,
			p.Remarks,
		})
	}

	return s.writeCSV(ctx, span, "payments", records)
}

// PlansCSV implements service.ExportServices.
func (s *exportService) PlansCSV(ctx context.Context) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "service.PlansCSV")
	defer span.End()

	plans, err := s.planRepository.FindAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "plans", err)
	}

	records := [][]string{{
		"id", "name", "total_amount", "downpayment_percent",
		"monthly_installment", "quarterly_installment",
		"duration", "roi", "benefits",
	}}
	for _, plan := range plans {
		records = append(records, []string{
			strconv.FormatUint(plan.ID, 10),
			plan.Name,
			strconv.FormatInt(plan.TotalAmount, 10),
			strconv.Itoa(int(plan.DownpaymentPercent)),
			strconv.FormatInt(plan.MonthlyInstallment, 10),
			strconv.FormatInt(plan.QuarterlyInstallment, 10),
			plan.Duration,
			plan.ROI,
			strings.Join(plan.Benefits, "|"),
		})
	}

	return s.writeCSV(ctx, span, "plans", records)
}

// FullJSON implements service.ExportServices. A single document with
// every table, suitable as a portable backup.
func (s *exportService) FullJSON(ctx context.Context) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "service.FullJSON")
	defer span.End()

	plans, err := s.planRepository.FindAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "full_json", err)
	}
	investors, _, err := s.investorRepository.FindPaginated(ctx, domain.Params{Page: 1, Limit: 100000})
	if err != nil {
		return nil, s.fail(ctx, span, "full_json", err)
	}
	installments, err := s.installmentRepository.FindAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "full_json", err)
	}
	installments = schedule.Reconcile(installments, time.Now())
	payments, err := s.paymentRepository.FindAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "full_json", err)
	}

	document := backupDocument{
		ExportedAt:   time.Now().UTC(),
		Plans:        plans,
		Investors:    investors,
		Installments: installments,
		Payments:     payments,
	}

	data, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return nil, s.fail(ctx, span, "full_json", err)
	}

	s.recordSuccess(ctx, span, "full_json", len(data))

	return data, nil
}

// RestoreJSON implements service.ExportServices. The document replaces
// every table wholesale inside one transaction, keeping the exported
// IDs so cross-references stay intact. A malformed document leaves the
// database untouched.
func (s *exportService) RestoreJSON(ctx context.Context, data []byte) error {
	ctx, span := s.tracer.Start(ctx, "service.RestoreJSON")
	defer span.End()

	var document backupDocument
	if err := json.Unmarshal(data, &document); err != nil {
		s.log.Warn("Rejecting malformed backup document",
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		span.SetStatus(codes.Error, "invalid_backup")

		return common.ErrInvalidBackup
	}

	// Exports carry reconciled statuses; stored rows stay pending until
	// paid, with overdue derived again at read time.
	for i := range document.Installments {
		if document.Installments[i].Status == domain.InstallmentOverdue {
			document.Installments[i].Status = domain.InstallmentPending
		}
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return s.fail(ctx, span, "restore", fmt.Errorf("failed to begin transaction: %w", tx.Error))
	}
	defer tx.Rollback()

	planTx := repository.NewPlanRepository(tx)
	investorTx := repository.NewInvestorRepository(tx)
	installmentTx := repository.NewInstallmentRepository(tx)
	paymentTx := repository.NewPaymentRepository(tx)

	// Children first on the way out, parents first on the way back in.
	if err := paymentTx.DeleteAll(ctx); err != nil {
		return s.fail(ctx, span, "restore", err)
	}
	if err := installmentTx.DeleteAll(ctx); err != nil {
		return s.fail(ctx, span, "restore", err)
	}
	if err := investorTx.DeleteAll(ctx); err != nil {
		return s.fail(ctx, span, "restore", err)
	}
	if err := planTx.DeleteAll(ctx); err != nil {
		return s.fail(ctx, span, "restore", err)
	}

	if err := planTx.CreateBatch(ctx, document.Plans); err != nil {
		return s.fail(ctx, span, "restore", err)
	}
	if err := investorTx.CreateBatch(ctx, document.Investors); err != nil {
		return s.fail(ctx, span, "restore", err)
	}
	if _, err := installmentTx.CreateBatch(ctx, document.Installments); err != nil {
		return s.fail(ctx, span, "restore", err)
	}
	if err := paymentTx.CreateBatch(ctx, document.Payments); err != nil {
		return s.fail(ctx, span, "restore", err)
	}

	if err := tx.Commit().Error; err != nil {
		return s.fail(ctx, span, "restore", fmt.Errorf("failed to commit transaction: %w", err))
	}

	s.exportCount.Add(ctx, 1, metric.WithAttributes(attribute.String("export", "restore")))
	s.log.Info("Backup restored",
		zap.Int("plans", len(document.Plans)),
		zap.Int("investors", len(document.Investors)),
		zap.Int("installments", len(document.Installments)),
		zap.Int("payments", len(document.Payments)),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Backup restored")

	return nil
}

func (s *exportService) writeCSV(ctx context.Context, span trace.Span, kind string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(records); err != nil {
		return nil, s.fail(ctx, span, kind, err)
	}

	s.recordSuccess(ctx, span, kind, buf.Len())

	return buf.Bytes(), nil
}

func (s *exportService) recordSuccess(ctx context.Context, span trace.Span, kind string, size int) {
	s.exportCount.Add(ctx, 1, metric.WithAttributes(attribute.String("export", kind)))
	s.exportedBytes.Add(ctx, int64(size), metric.WithAttributes(attribute.String("export", kind)))

	s.log.Info("Export generated",
		zap.String("export", kind),
		zap.Int("bytes", size),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Export generated")
	span.SetAttributes(attribute.Int("export.bytes", size))
}

func (s *exportService) fail(ctx context.Context, span trace.Span, kind string, err error) error {
	span.SetStatus(codes.Error, "export_error")
	span.RecordError(err)

	s.log.Error("Export failed",
		zap.String("export", kind),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Error(err),
	)

	return err
}

func NewExportService(
	db *gorm.DB,
	planRepository repository.PlanRepository,
	investorRepository repository.InvestorRepository,
	installmentRepository repository.InstallmentRepository,
	paymentRepository repository.PaymentRepository,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.ExportServices {
	exportCount, _ := meter.Int64Counter(
		"service.export.count",
		metric.WithDescription("Number of exports generated"),
		metric.WithUnit("{export}"),
	)

	exportedBytes, _ := meter.Int64Counter(
		"service.export.bytes",
		metric.WithDescription("Total bytes of generated exports"),
		metric.WithUnit("By"),
	)

	return &exportService{
		db: db,

		planRepository:        planRepository,
		investorRepository:    investorRepository,
		installmentRepository: installmentRepository,
		paymentRepository:     paymentRepository,

		meter:         meter,
		tracer:        tracer,
		log:           log,
		exportCount:   exportCount,
		exportedBytes: exportedBytes,
	}
}
