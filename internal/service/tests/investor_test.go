package service_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/internal/model"
	"github.com/kiritara/resort-admin/internal/repository"
	"github.com/kiritara/resort-admin/internal/service"
	investorsrv "github.com/kiritara/resort-admin/internal/service/investor"
	"github.com/kiritara/resort-admin/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/metric"
	noop_metric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	noop_trace "go.opentelemetry.io/otel/trace/noop"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testDbName = "resort_admin_test"

func openTestDatabase(s *suite.Suite) *gorm.DB {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/?charset=utf8mb4&parseTime=True&loc=Local",
		common.GetEnv("MYSQL_USER", "root"),
		common.GetEnv("MYSQL_PASSWORD", "rootpassword123"),
		common.GetEnv("MYSQL_HOST", "localhost"),
		common.GetEnv("MYSQL_PORT", "3306"),
	)

	db, err := sql.Open("mysql", dsn)
	s.Require().NoError(err)

	_, err = db.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", testDbName))
	s.Require().NoError(err)
	db.Close()

	testDSN := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		common.GetEnv("MYSQL_USER", "root"),
		common.GetEnv("MYSQL_PASSWORD", "rootpassword123"),
		common.GetEnv("MYSQL_HOST", "localhost"),
		common.GetEnv("MYSQL_PORT", "3306"),
		testDbName,
	)

	gormDB, err := gorm.Open(mysql.Open(testDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)

	return gormDB
}

type InvestorServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context

	investorService       service.InvestorServices
	planRepository        repository.PlanRepository
	investorRepository    repository.InvestorRepository
	installmentRepository repository.InstallmentRepository

	meter  metric.Meter
	tracer trace.Tracer
	log    *zap.Logger
}

func (suite *InvestorServiceTestSuite) SetupSuite() {
	suite.db = openTestDatabase(&suite.Suite)
	suite.ctx = context.Background()

	suite.log = zap.NewNop()
	noopTracerProvider := noop_trace.NewTracerProvider()
	suite.tracer = noopTracerProvider.Tracer("test-investor-service-tracer")
	noopMeterProvider := noop_metric.NewMeterProvider()
	suite.meter = noopMeterProvider.Meter("test-investor-service-meter")

	err := model.AutoMigrate(suite.db)
	suite.Require().NoError(err)

	suite.planRepository = repository.NewPlanRepository(suite.db)
	suite.investorRepository = repository.NewInvestorRepository(suite.db)
	suite.installmentRepository = repository.NewInstallmentRepository(suite.db)

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

func (suite *InvestorServiceTestSuite) TearDownSuite() {
	if suite.db != nil {
		sqlDB, err := suite.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func (suite *InvestorServiceTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM payments")
	suite.db.Exec("DELETE FROM installments")
	suite.db.Exec("DELETE FROM investors")
	suite.db.Exec("DELETE FROM membership_plans")
}

func (suite *InvestorServiceTestSuite) seedPlan() *model.MembershipPlan {
	plan := &model.MembershipPlan{
		Name:                 "Silver Tier",
		TotalAmount:          500000,
		DownpaymentPercent:   20,
		MonthlyInstallment:   100000,
		QuarterlyInstallment: 150000,
		Benefits:             []string{"Luxury Suite Access (7 days/year)"},
		Duration:             "3 Years",
		ROI:                  "12-15%",
	}
	err := suite.db.Create(plan).Error
	suite.Require().NoError(err)

	return plan
}

func newInvestor(planID uint64, email string) *domain.Investor {
	return &domain.Investor{
		FullName:        "Asha Nair",
		Email:           email,
		Phone:           "9876543210",
		PlanID:          planID,
		DownpaymentPaid: 100000,
		InstallmentType: domain.InstallmentMonthly,
		JoinDate:        time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *InvestorServiceTestSuite) TestCreateInvestor_GeneratesSchedule() {
	plan := suite.seedPlan()

	created, err := suite.investorService.CreateInvestor(suite.ctx, newInvestor(plan.ID, "asha@example.com"))

	assert.NoError(suite.T(), err)
	suite.Require().NotNil(created)
	assert.NotZero(suite.T(), created.ID)
	assert.Equal(suite.T(), int64(500000), created.TotalInvestment)
	assert.Equal(suite.T(), int64(100000), created.TotalPaid)
	assert.Equal(suite.T(), int64(400000), created.PendingAmount)
	assert.Equal(suite.T(), domain.InvestorActive, created.Status)

	// 400000 remaining at 100000 per month.
	suite.Require().Len(created.Installments, 4)
	var sum int64
	for _, inst := range created.Installments {
		sum += inst.Amount
		assert.Equal(suite.T(), domain.InstallmentPending, inst.Status)
		assert.Equal(suite.T(), created.ID, inst.InvestorID)
	}
	assert.Equal(suite.T(), int64(400000), sum)

	suite.Require().NotNil(created.NextDueDate)
	assert.Equal(suite.T(), "2024-02-15", created.NextDueDate.Format("2006-01-02"))

	// Rows really landed.
	stored, err := suite.installmentRepository.FindByInvestorID(suite.ctx, created.ID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), stored, 4)
}

func (suite *InvestorServiceTestSuite) TestCreateInvestor_DuplicateEmail() {
	plan := suite.seedPlan()

	_, err := suite.investorService.CreateInvestor(suite.ctx, newInvestor(plan.ID, "asha@example.com"))
	suite.Require().NoError(err)

	_, err = suite.investorService.CreateInvestor(suite.ctx, newInvestor(plan.ID, "asha@example.com"))
	assert.ErrorIs(suite.T(), err, common.ErrEmailExists)
}

func (suite *InvestorServiceTestSuite) TestCreateInvestor_UnknownPlan() {
	_, err := suite.investorService.CreateInvestor(suite.ctx, newInvestor(9999, "asha@example.com"))
	assert.ErrorIs(suite.T(), err, common.ErrPlanNotFound)

	// Nothing persisted.
	var count int64
	suite.db.Model(&model.Investor{}).Count(&count)
	assert.Zero(suite.T(), count)
}

func (suite *InvestorServiceTestSuite) TestCreateInvestor_MisconfiguredPlanAborts() {
	plan := &model.MembershipPlan{
		Name:               "Broken Tier",
		TotalAmount:        500000,
		MonthlyInstallment: 0,
	}
	suite.Require().NoError(suite.db.Create(plan).Error)

	_, err := suite.investorService.CreateInvestor(suite.ctx, newInvestor(plan.ID, "asha@example.com"))
	assert.ErrorIs(suite.T(), err, common.ErrInvalidInstallmentAmount)

	var count int64
	suite.db.Model(&model.Investor{}).Count(&count)
	assert.Zero(suite.T(), count)
}

func (suite *InvestorServiceTestSuite) TestCreateInvestor_FullyPaidUpfront() {
	plan := suite.seedPlan()

	investor := newInvestor(plan.ID, "asha@example.com")
	investor.DownpaymentPaid = 500000

	created, err := suite.investorService.CreateInvestor(suite.ctx, investor)

	assert.NoError(suite.T(), err)
	suite.Require().NotNil(created)
	assert.Empty(suite.T(), created.Installments)
	assert.Nil(suite.T(), created.NextDueDate)
	assert.Zero(suite.T(), created.PendingAmount)
}

func (suite *InvestorServiceTestSuite) TestUpdateInvestor_ContactFieldsOnly() {
	plan := suite.seedPlan()
	created, err := suite.investorService.CreateInvestor(suite.ctx, newInvestor(plan.ID, "asha@example.com"))
	suite.Require().NoError(err)

	err = suite.investorService.UpdateInvestor(suite.ctx, created.ID, domain.Investor{
		FullName: "Asha N. Kumar",
		Email:    "asha.kumar@example.com",
		Phone:    "9123456789",
		Status:   domain.InvestorInactive,
	})
	assert.NoError(suite.T(), err)

	updated, err := suite.investorRepository.FindByID(suite.ctx, created.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	assert.Equal(suite.T(), "Asha N. Kumar", updated.FullName)
	assert.Equal(suite.T(), "asha.kumar@example.com", updated.Email)
	assert.Equal(suite.T(), domain.InvestorInactive, updated.Status)

	// Committed amounts stayed untouched.
	assert.Equal(suite.T(), int64(500000), updated.TotalInvestment)
	assert.Equal(suite.T(), int64(400000), updated.PendingAmount)
}

func (suite *InvestorServiceTestSuite) TestUpdateInvestor_NotFound() {
	err := suite.investorService.UpdateInvestor(suite.ctx, 9999, domain.Investor{
		FullName: "Nobody",
		Email:    "nobody@example.com",
		Status:   domain.InvestorActive,
	})
	assert.ErrorIs(suite.T(), err, common.ErrInvestorNotFound)
}

func (suite *InvestorServiceTestSuite) TestDeleteInvestor_CascadesToSchedule() {
	plan := suite.seedPlan()
	created, err := suite.investorService.CreateInvestor(suite.ctx, newInvestor(plan.ID, "asha@example.com"))
	suite.Require().NoError(err)

	err = suite.investorService.DeleteInvestor(suite.ctx, created.ID)
	assert.NoError(suite.T(), err)

	var installmentCount int64
	suite.db.Model(&model.Installment{}).Where("investor_id = ?", created.ID).Count(&installmentCount)
	assert.Zero(suite.T(), installmentCount)
}

func (suite *InvestorServiceTestSuite) TestDeleteInvestor_NotFound() {
	err := suite.investorService.DeleteInvestor(suite.ctx, 9999)
	assert.ErrorIs(suite.T(), err, common.ErrInvestorNotFound)
}

func (suite *InvestorServiceTestSuite) TestGetInvestorByID_ReconcilesAndSorts() {
	plan := suite.seedPlan()

	investor := newInvestor(plan.ID, "asha@example.com")
	// Join far enough in the past that the first installments are due.
	investor.JoinDate = time.Now().AddDate(0, -3, 0)
	created, err := suite.investorService.CreateInvestor(suite.ctx, investor)
	suite.Require().NoError(err)

	got, err := suite.investorService.GetInvestorByID(suite.ctx, created.ID)
	suite.Require().NoError(err)
	suite.Require().NotEmpty(got.Installments)

	assert.Equal(suite.T(), domain.InstallmentOverdue, got.Installments[0].Status)

	// Overdue block first, sorted ascending inside each block.
	seenNonOverdue := false
	for i, inst := range got.Installments {
		if inst.Status != domain.InstallmentOverdue {
			seenNonOverdue = true
		} else {
			assert.False(suite.T(), seenNonOverdue, "overdue after non-overdue at index %d", i)
		}
		if i > 0 && got.Installments[i-1].Status == inst.Status {
			assert.False(suite.T(), inst.DueDate.Before(got.Installments[i-1].DueDate))
		}
	}

	// The stored rows keep their persisted status; overdue is view-only.
	stored, err := suite.installmentRepository.FindByInvestorID(suite.ctx, created.ID)
	suite.Require().NoError(err)
	for _, inst := range stored {
		assert.Equal(suite.T(), domain.InstallmentPending, inst.Status)
	}
}

func (suite *InvestorServiceTestSuite) TestListInvestors_PaginatesAndFilters() {
	plan := suite.seedPlan()

	for i := 0; i < 3; i++ {
		inv := newInvestor(plan.ID, fmt.Sprintf("investor%d@example.com", i))
		inv.JoinDate = time.Date(2024, time.January, 1+i, 0, 0, 0, 0, time.UTC)
		_, err := suite.investorService.CreateInvestor(suite.ctx, inv)
		suite.Require().NoError(err)
	}

	page, err := suite.investorService.ListInvestors(suite.ctx, domain.Params{Page: 1, Limit: 2})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(3), page.Total)
	assert.Equal(suite.T(), 2, page.TotalPages)

	page, err = suite.investorService.ListInvestors(suite.ctx, domain.Params{Status: "inactive", Page: 1, Limit: 20})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(0), page.Total)
}

func TestInvestorServiceTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	suite.Run(t, new(InvestorServiceTestSuite))
}
