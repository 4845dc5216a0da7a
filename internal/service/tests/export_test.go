package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/internal/model"
	"github.com/kiritara/resort-admin/internal/repository"
	"github.com/kiritara/resort-admin/internal/service"
	exportsrv "github.com/kiritara/resort-admin/internal/service/export"
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

type ExportServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context

	exportService      service.ExportServices
	investorService    service.InvestorServices
	installmentService service.InstallmentServices

	planRepository        repository.PlanRepository
	investorRepository    repository.InvestorRepository
	installmentRepository repository.InstallmentRepository
	paymentRepository     repository.PaymentRepository

	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger
}

func (suite *ExportServiceTestSuite) SetupSuite() {
	suite.db = openTestDatabase(&suite.Suite)
	suite.ctx = context.Background()

	suite.log = zap.NewNop()
	noopTracerProvider := noop_trace.NewTracerProvider()
	suite.tracer = noopTracerProvider.Tracer("test-export-service-tracer")
	noopMeterProvider := noop_metric.NewMeterProvider()
	suite.meter = noopMeterProvider.Meter("test-export-service-meter")

	err := model.AutoMigrate(suite.db)
	suite.Require().NoError(err)

	suite.planRepository = repository.NewPlanRepository(suite.db)
	suite.investorRepository = repository.NewInvestorRepository(suite.db)
	suite.installmentRepository = repository.NewInstallmentRepository(suite.db)
	suite.paymentRepository = repository.NewPaymentRepository(suite.db)

	suite.exportService = exportsrv.NewExportService(
		suite.db,
		suite.planRepository,
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
	suite.installmentService = installmentsrv.NewInstallmentService(
		suite.db,
		suite.investorRepository,
		suite.installmentRepository,
		suite.paymentRepository,
		suite.meter,
		suite.tracer,
		suite.log,
	)
}

func (suite *ExportServiceTestSuite) TearDownSuite() {
	if suite.db != nil {
		sqlDB, err := suite.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func (suite *ExportServiceTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM payments")
	suite.db.Exec("DELETE FROM installments")
	suite.db.Exec("DELETE FROM investors")
	suite.db.Exec("DELETE FROM membership_plans")
}

// seedDataset builds a plan, an investor with a generated schedule and
// one recorded payment, and returns the investor.
func (suite *ExportServiceTestSuite) seedDataset() *domain.Investor {
	plan := &model.MembershipPlan{
		Name:                 "Gold Tier",
		TotalAmount:          500000,
		DownpaymentPercent:   20,
		MonthlyInstallment:   100000,
		QuarterlyInstallment: 150000,
		Benefits:             []string{"Beachfront Villa Access (14 days/year)"},
		Duration:             "3 Years",
		ROI:                  "15-18%",
	}
	suite.Require().NoError(suite.db.Create(plan).Error)

	investor, err := suite.investorService.CreateInvestor(suite.ctx, &domain.Investor{
		FullName:        "Asha Nair",
		Email:           "asha@example.com",
		Phone:           "9876543210",
		PlanID:          plan.ID,
		DownpaymentPaid: 100000,
		InstallmentType: domain.InstallmentMonthly,
		JoinDate:        time.Now().AddDate(0, -2, -5),
	})
	suite.Require().NoError(err)
	suite.Require().NotEmpty(investor.Installments)

	_, err = suite.installmentService.MarkPaid(suite.ctx, investor.Installments[0].ID, domain.PaymentDetails{
		PaymentMode: "upi",
	})
	suite.Require().NoError(err)

	return investor
}

func (suite *ExportServiceTestSuite) TestFullJSON_ContainsAllCollections() {
	suite.seedDataset()

	data, err := suite.exportService.FullJSON(suite.ctx)
	suite.Require().NoError(err)

	var document struct {
		Plans        []domain.MembershipPlan `json:"plans"`
		Investors    []domain.Investor       `json:"investors"`
		Installments []domain.Installment    `json:"installments"`
		Payments     []domain.Payment        `json:"payments"`
	}
	suite.Require().NoError(json.Unmarshal(data, &document))

	assert.Len(suite.T(), document.Plans, 1)
	assert.Len(suite.T(), document.Investors, 1)
	assert.Len(suite.T(), document.Installments, 4)
	assert.Len(suite.T(), document.Payments, 1)
}

func (suite *ExportServiceTestSuite) TestRestoreJSON_RoundTrip() {
	investor := suite.seedDataset()

	data, err := suite.exportService.FullJSON(suite.ctx)
	suite.Require().NoError(err)

	suite.db.Exec("DELETE FROM payments")
	suite.db.Exec("DELETE FROM installments")
	suite.db.Exec("DELETE FROM investors")
	suite.db.Exec("DELETE FROM membership_plans")

	err = suite.exportService.RestoreJSON(suite.ctx, data)
	suite.Require().NoError(err)

	restored, err := suite.investorRepository.FindByID(suite.ctx, investor.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(restored, "investor should come back under its original ID")
	assert.Equal(suite.T(), "Asha Nair", restored.FullName)
	assert.Equal(suite.T(), int64(200000), restored.TotalPaid)

	installments, err := suite.installmentRepository.FindByInvestorID(suite.ctx, investor.ID)
	suite.Require().NoError(err)
	assert.Len(suite.T(), installments, 4)

	// Exported documents carry the derived overdue status; stored rows
	// must come back as pending or paid only.
	paid := 0
	for _, inst := range installments {
		assert.Contains(suite.T(), []domain.InstallmentStatus{
			domain.InstallmentPending, domain.InstallmentPaid,
		}, inst.Status)
		if inst.Status == domain.InstallmentPaid {
			paid++
		}
	}
	assert.Equal(suite.T(), 1, paid)

	payments, err := suite.paymentRepository.FindByInvestorID(suite.ctx, investor.ID)
	suite.Require().NoError(err)
	assert.Len(suite.T(), payments, 1)
}

func (suite *ExportServiceTestSuite) TestRestoreJSON_ReplacesExistingData() {
	suite.seedDataset()

	data, err := suite.exportService.FullJSON(suite.ctx)
	suite.Require().NoError(err)

	// Data added after the backup must not survive the restore.
	extraPlan := &model.MembershipPlan{
		Name:               "Platinum Tier",
		TotalAmount:        1000000,
		MonthlyInstallment: 200000,
	}
	suite.Require().NoError(suite.db.Create(extraPlan).Error)
	_, err = suite.investorService.CreateInvestor(suite.ctx, &domain.Investor{
		FullName:        "Rohan Mehta",
		Email:           "rohan@example.com",
		PlanID:          extraPlan.ID,
		InstallmentType: domain.InstallmentMonthly,
		JoinDate:        time.Now(),
	})
	suite.Require().NoError(err)

	err = suite.exportService.RestoreJSON(suite.ctx, data)
	suite.Require().NoError(err)

	var planCount, investorCount int64
	suite.db.Model(&model.MembershipPlan{}).Count(&planCount)
	suite.db.Model(&model.Investor{}).Count(&investorCount)
	assert.Equal(suite.T(), int64(1), planCount)
	assert.Equal(suite.T(), int64(1), investorCount)
}

func (suite *ExportServiceTestSuite) TestRestoreJSON_InvalidDocument() {
	suite.seedDataset()

	err := suite.exportService.RestoreJSON(suite.ctx, []byte("not a backup"))
	assert.ErrorIs(suite.T(), err, common.ErrInvalidBackup)

	// Existing data stays untouched on rejection.
	var investorCount int64
	suite.db.Model(&model.Investor{}).Count(&investorCount)
	assert.Equal(suite.T(), int64(1), investorCount)
}

func TestExportServiceTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	suite.Run(t, new(ExportServiceTestSuite))
}
