package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/internal/model"
	"github.com/kiritara/resort-admin/internal/repository"
	"github.com/kiritara/resort-admin/internal/service"
	dashboardsrv "github.com/kiritara/resort-admin/internal/service/dashboard"
	investorsrv "github.com/kiritara/resort-admin/internal/service/investor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/metric"
	noop_metric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	noop_trace "go.opentelemetry.io/otel/trace/noop"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DashboardServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context

	dashboardService service.DashboardServices
	investorService  service.InvestorServices

	planRepository        repository.PlanRepository
	investorRepository    repository.InvestorRepository
	installmentRepository repository.InstallmentRepository

	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger
}

func (suite *DashboardServiceTestSuite) SetupSuite() {
	suite.db = openTestDatabase(&suite.Suite)
	suite.ctx = context.Background()

	suite.log = zap.NewNop()
	noopTracerProvider := noop_trace.NewTracerProvider()
	suite.tracer = noopTracerProvider.Tracer("test-dashboard-service-tracer")
	noopMeterProvider := noop_metric.NewMeterProvider()
	suite.meter = noopMeterProvider.Meter("test-dashboard-service-meter")

	err := model.AutoMigrate(suite.db)
	suite.Require().NoError(err)

	suite.planRepository = repository.NewPlanRepository(suite.db)
	suite.investorRepository = repository.NewInvestorRepository(suite.db)
	suite.installmentRepository = repository.NewInstallmentRepository(suite.db)

	suite.dashboardService = dashboardsrv.NewDashboardService(
		suite.planRepository,
		suite.investorRepository,
		suite.installmentRepository,
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

func (suite *DashboardServiceTestSuite) TearDownSuite() {
	if suite.db != nil {
		sqlDB, err := suite.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func (suite *DashboardServiceTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM payments")
	suite.db.Exec("DELETE FROM installments")
	suite.db.Exec("DELETE FROM investors")
	suite.db.Exec("DELETE FROM membership_plans")
}

func (suite *DashboardServiceTestSuite) seedPlan(name string) *model.MembershipPlan {
	plan := &model.MembershipPlan{
		Name:                 name,
		TotalAmount:          500000,
		DownpaymentPercent:   20,
		MonthlyInstallment:   100000,
		QuarterlyInstallment: 150000,
		Duration:             "3 Years",
		ROI:                  "12-15%",
	}
	suite.Require().NoError(suite.db.Create(plan).Error)

	return plan
}

func (suite *DashboardServiceTestSuite) seedInvestor(planID uint64, name, email string, joinDate time.Time) *domain.Investor {
	investor, err := suite.investorService.CreateInvestor(suite.ctx, &domain.Investor{
		FullName:        name,
		Email:           email,
		PlanID:          planID,
		DownpaymentPaid: 100000,
		InstallmentType: domain.InstallmentMonthly,
		JoinDate:        joinDate,
	})
	suite.Require().NoError(err)

	return investor
}

func (suite *DashboardServiceTestSuite) TestGetSummary_Counts() {
	plan := suite.seedPlan("Silver Tier")
	suite.seedInvestor(plan.ID, "Asha Nair", "asha@example.com", time.Now().AddDate(0, 0, -10))
	suite.seedInvestor(plan.ID, "Rohan Mehta", "rohan@example.com", time.Now().AddDate(0, -3, -5))

	summary, err := suite.dashboardService.GetSummary(suite.ctx)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), int64(2), summary.TotalInvestors)
	assert.Equal(suite.T(), int64(1000000), summary.TotalInvestment)
	assert.Equal(suite.T(), int64(8), summary.PendingInstallments)
	// Rohan joined three months back, so three due dates have passed.
	assert.Equal(suite.T(), int64(3), summary.OverduePayments)
}

func (suite *DashboardServiceTestSuite) TestGetSummary_RecentInvestorsCarryPlanNames() {
	silver := suite.seedPlan("Silver Tier")
	gold := suite.seedPlan("Gold Tier")
	suite.seedInvestor(silver.ID, "Asha Nair", "asha@example.com", time.Now().AddDate(0, 0, -2))
	suite.seedInvestor(gold.ID, "Rohan Mehta", "rohan@example.com", time.Now().AddDate(0, 0, -1))

	summary, err := suite.dashboardService.GetSummary(suite.ctx)
	suite.Require().NoError(err)

	suite.Require().Len(summary.RecentInvestors, 2)
	assert.Equal(suite.T(), "Rohan Mehta", summary.RecentInvestors[0].Name)
	assert.Equal(suite.T(), "Gold Tier", summary.RecentInvestors[0].PlanName)
	assert.Equal(suite.T(), "Asha Nair", summary.RecentInvestors[1].Name)
	assert.Equal(suite.T(), "Silver Tier", summary.RecentInvestors[1].PlanName)
}

func (suite *DashboardServiceTestSuite) TestGetSummary_UpcomingPaymentsResolveInvestorNames() {
	plan := suite.seedPlan("Silver Tier")
	suite.seedInvestor(plan.ID, "Asha Nair", "asha@example.com", time.Now().AddDate(0, -3, -5))
	suite.seedInvestor(plan.ID, "Rohan Mehta", "rohan@example.com", time.Now().AddDate(0, -1, -5))

	summary, err := suite.dashboardService.GetSummary(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().NotEmpty(summary.UpcomingPayments)

	names := make(map[string]bool)
	for _, up := range summary.UpcomingPayments {
		names[up.InvestorName] = true
		assert.NotEmpty(suite.T(), up.InvestorName)
	}
	assert.True(suite.T(), names["Asha Nair"])
	assert.True(suite.T(), names["Rohan Mehta"])

	// Due dates already past are surfaced as overdue.
	assert.Equal(suite.T(), domain.InstallmentOverdue, summary.UpcomingPayments[0].Status)
}

func (suite *DashboardServiceTestSuite) TestGetSummary_UnmatchedInvestorFallsBackToUnknown() {
	plan := suite.seedPlan("Silver Tier")
	investor := suite.seedInvestor(plan.ID, "Asha Nair", "asha@example.com", time.Now().AddDate(0, -1, 0))

	// Orphan the schedule rows so the name lookup finds nothing.
	suite.db.Exec("SET FOREIGN_KEY_CHECKS = 0")
	suite.db.Exec("DELETE FROM investors WHERE id = ?", investor.ID)
	suite.db.Exec("SET FOREIGN_KEY_CHECKS = 1")

	summary, err := suite.dashboardService.GetSummary(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().NotEmpty(summary.UpcomingPayments)

	for _, up := range summary.UpcomingPayments {
		assert.Equal(suite.T(), "Unknown", up.InvestorName)
	}
}

func TestDashboardServiceTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	suite.Run(t, new(DashboardServiceTestSuite))
}
