package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/internal/model"
	"github.com/kiritara/resort-admin/internal/repository"
	"github.com/kiritara/resort-admin/internal/service"
	installmentsrv "github.com/kiritara/resort-admin/internal/service/installment"
	investorsrv "github.com/kiritara/resort-admin/internal/service/investor"
	"github.com/kiritara/resort-admin/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/metric"
	noop_metric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	noop_trace "go.opentelemetry.io/otel/trace/noop"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type InstallmentServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context

	installmentService    service.InstallmentServices
	investorService       service.InvestorServices
	planRepository        repository.PlanRepository
	investorRepository    repository.InvestorRepository
	installmentRepository repository.InstallmentRepository
	paymentRepository     repository.PaymentRepository

	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger
}

func (suite *InstallmentServiceTestSuite) SetupSuite() {
	suite.db = openTestDatabase(&suite.Suite)
	suite.ctx = context.Background()

	suite.log = zap.NewNop()
	noopTracerProvider := noop_trace.NewTracerProvider()
	suite.tracer = noopTracerProvider.Tracer("test-installment-service-tracer")
	noopMeterProvider := noop_metric.NewMeterProvider()
	suite.meter = noopMeterProvider.Meter("test-installment-service-meter")

	err := model.AutoMigrate(suite.db)
	suite.Require().NoError(err)

	suite.planRepository = repository.NewPlanRepository(suite.db)
	suite.investorRepository = repository.NewInvestorRepository(suite.db)
	suite.installmentRepository = repository.NewInstallmentRepository(suite.db)
	suite.paymentRepository = repository.NewPaymentRepository(suite.db)

	suite.installmentService = installmentsrv.NewInstallmentService(
		suite.db,
		suite.investorRepository,
		suite.installmentRepository,
		suite.paymentRepository,
		suite.meter,
		suite.tracer,
		suite.log,
	)
	suite.investorService = investorsrv.NewInvestorService(
		suite.db,
		suite.planRepository,
		suite.investorRepository,
		suite.installmentRepository,
		suite.meter,
		suite.tracer,
		suite.log,
	)
}

func (suite *InstallmentServiceTestSuite) TearDownSuite() {
	if suite.db != nil {
		sqlDB, err := suite.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func (suite *InstallmentServiceTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM payments")
	suite.db.Exec("DELETE FROM installments")
	suite.db.Exec("DELETE FROM investors")
	suite.db.Exec("DELETE FROM membership_plans")
}

// seedInvestor creates a plan and an investor with a generated schedule.
// The join date puts the first three installments strictly in the past
// and the last one in the future.
func (suite *InstallmentServiceTestSuite) seedInvestor() *domain.Investor {
	plan := &model.MembershipPlan{
		Name:                 "Silver Tier",
		TotalAmount:          500000,
		DownpaymentPercent:   20,
		MonthlyInstallment:   100000,
		QuarterlyInstallment: 150000,
		Duration:             "3 Years",
		ROI:                  "12-15%",
	}
	suite.Require().NoError(suite.db.Create(plan).Error)

	investor := &domain.Investor{
		FullName:        "Ravi Menon",
		Email:           "ravi@example.com",
		Phone:           "9876501234",
		PlanID:          plan.ID,
		DownpaymentPaid: 100000,
		InstallmentType: domain.InstallmentMonthly,
		JoinDate:        time.Now().AddDate(0, -3, -5),
	}

	created, err := suite.investorService.CreateInvestor(suite.ctx, investor)
	suite.Require().NoError(err)
	suite.Require().Len(created.Installments, 4)

	return created
}

func (suite *InstallmentServiceTestSuite) TestMarkPaid_RecordsPaymentAndRefreshesInvestor() {
	investor := suite.seedInvestor()
	first := investor.Installments[0]

	payment, err := suite.installmentService.MarkPaid(suite.ctx, first.ID, domain.PaymentDetails{
		PaymentMode: "bank_transfer",
		Remarks:     "NEFT ref 42137",
	})

	assert.NoError(suite.T(), err)
	suite.Require().NotNil(payment)
	assert.Equal(suite.T(), first.Amount, payment.Amount)
	assert.Equal(suite.T(), investor.ID, payment.InvestorID)
	assert.Equal(suite.T(), first.ID, payment.InstallmentID)
	assert.Equal(suite.T(), "bank_transfer", payment.PaymentMode)

	stored, err := suite.installmentRepository.FindByID(suite.ctx, first.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(stored)
	assert.Equal(suite.T(), domain.InstallmentPaid, stored.Status)
	suite.Require().NotNil(stored.PaidDate)

	refreshed, err := suite.investorRepository.FindByID(suite.ctx, investor.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(refreshed)
	assert.Equal(suite.T(), investor.TotalPaid+first.Amount, refreshed.TotalPaid)
	assert.Equal(suite.T(), investor.PendingAmount-first.Amount, refreshed.PendingAmount)

	// The next due date moves to the earliest unpaid installment.
	suite.Require().NotNil(refreshed.NextDueDate)
	assert.Equal(suite.T(),
		investor.Installments[1].DueDate.Format("2006-01-02"),
		refreshed.NextDueDate.Format("2006-01-02"))
}

func (suite *InstallmentServiceTestSuite) TestMarkPaid_ExplicitPaidDate() {
	investor := suite.seedInvestor()
	first := investor.Installments[0]

	paidDate := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	_, err := suite.installmentService.MarkPaid(suite.ctx, first.ID, domain.PaymentDetails{
		PaymentMode: "cash",
		PaidDate:    &paidDate,
	})
	suite.Require().NoError(err)

	stored, err := suite.installmentRepository.FindByID(suite.ctx, first.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(stored.PaidDate)
	assert.Equal(suite.T(), "2025-06-10", stored.PaidDate.Format("2006-01-02"))
}

func (suite *InstallmentServiceTestSuite) TestMarkPaid_UnknownInstallment() {
	suite.seedInvestor()

	_, err := suite.installmentService.MarkPaid(suite.ctx, 9999, domain.PaymentDetails{
		PaymentMode: "cash",
	})
	assert.ErrorIs(suite.T(), err, common.ErrInstallmentNotFound)

	var paymentCount int64
	suite.db.Model(&model.Payment{}).Count(&paymentCount)
	assert.Zero(suite.T(), paymentCount)
}

func (suite *InstallmentServiceTestSuite) TestMarkPaid_EmptyPaymentMode() {
	investor := suite.seedInvestor()

	_, err := suite.installmentService.MarkPaid(suite.ctx, investor.Installments[0].ID, domain.PaymentDetails{})
	assert.ErrorIs(suite.T(), err, common.ErrEmptyPaymentMode)
}

func (suite *InstallmentServiceTestSuite) TestMarkPaid_RemarkDoesNotDoubleCount() {
	investor := suite.seedInvestor()
	first := investor.Installments[0]

	_, err := suite.installmentService.MarkPaid(suite.ctx, first.ID, domain.PaymentDetails{PaymentMode: "cash"})
	suite.Require().NoError(err)

	_, err = suite.installmentService.MarkPaid(suite.ctx, first.ID, domain.PaymentDetails{PaymentMode: "upi"})
	suite.Require().NoError(err)

	// A second ledger entry is appended but the investor totals only
	// reflect the first payment.
	var paymentCount int64
	suite.db.Model(&model.Payment{}).Where("installment_id = ?", first.ID).Count(&paymentCount)
	assert.Equal(suite.T(), int64(2), paymentCount)

	refreshed, err := suite.investorRepository.FindByID(suite.ctx, investor.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), investor.TotalPaid+first.Amount, refreshed.TotalPaid)
	assert.Equal(suite.T(), investor.PendingAmount-first.Amount, refreshed.PendingAmount)
}

func (suite *InstallmentServiceTestSuite) TestListByInvestor_UnknownInvestor() {
	_, err := suite.installmentService.ListByInvestor(suite.ctx, 9999)
	assert.ErrorIs(suite.T(), err, common.ErrInvestorNotFound)
}

func (suite *InstallmentServiceTestSuite) TestListByInvestor_ReportsOverdue() {
	investor := suite.seedInvestor()

	installments, err := suite.installmentService.ListByInvestor(suite.ctx, investor.ID)
	suite.Require().NoError(err)
	suite.Require().Len(installments, 4)

	overdue := 0
	for _, inst := range installments {
		if inst.Status == domain.InstallmentOverdue {
			overdue++
		}
	}
	assert.Equal(suite.T(), 3, overdue)
}

func (suite *InstallmentServiceTestSuite) TestListInstallments_StatusFilter() {
	investor := suite.seedInvestor()

	_, err := suite.installmentService.MarkPaid(suite.ctx, investor.Installments[0].ID, domain.PaymentDetails{PaymentMode: "cash"})
	suite.Require().NoError(err)

	paid, err := suite.installmentService.ListInstallments(suite.ctx, string(domain.InstallmentPaid))
	suite.Require().NoError(err)
	assert.Len(suite.T(), paid, 1)

	overdue, err := suite.installmentService.ListInstallments(suite.ctx, string(domain.InstallmentOverdue))
	suite.Require().NoError(err)
	assert.Len(suite.T(), overdue, 2)

	all, err := suite.installmentService.ListInstallments(suite.ctx, "")
	suite.Require().NoError(err)
	assert.Len(suite.T(), all, 4)
}

func (suite *InstallmentServiceTestSuite) TestGetStats() {
	investor := suite.seedInvestor()

	_, err := suite.installmentService.MarkPaid(suite.ctx, investor.Installments[0].ID, domain.PaymentDetails{PaymentMode: "cash"})
	suite.Require().NoError(err)

	stats, err := suite.installmentService.GetStats(suite.ctx)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), int64(4), stats.Total)
	assert.Equal(suite.T(), int64(1), stats.Paid)
	assert.Equal(suite.T(), int64(2), stats.Overdue)
	assert.Equal(suite.T(), int64(1), stats.Pending)
	assert.Equal(suite.T(), int64(400000), stats.TotalAmount)
	assert.Equal(suite.T(), int64(100000), stats.PaidAmount)
	assert.Equal(suite.T(), int64(300000), stats.PendingAmount)
}

func (suite *InstallmentServiceTestSuite) TestListPayments_FilterByInvestor() {
	investor := suite.seedInvestor()

	_, err := suite.installmentService.MarkPaid(suite.ctx, investor.Installments[0].ID, domain.PaymentDetails{PaymentMode: "cash"})
	suite.Require().NoError(err)
	_, err = suite.installmentService.MarkPaid(suite.ctx, investor.Installments[1].ID, domain.PaymentDetails{PaymentMode: "upi"})
	suite.Require().NoError(err)

	payments, err := suite.installmentService.ListPayments(suite.ctx, investor.ID)
	suite.Require().NoError(err)
	assert.Len(suite.T(), payments, 2)

	none, err := suite.installmentService.ListPayments(suite.ctx, 9999)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), none)

	all, err := suite.installmentService.ListPayments(suite.ctx, 0)
	suite.Require().NoError(err)
	assert.Len(suite.T(), all, 2)
}

func TestInstallmentServiceTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	suite.Run(t, new(InstallmentServiceTestSuite))
}
