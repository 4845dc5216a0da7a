package handler_test

import (
	"context"
	"mime/multipart"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/internal/dto"
)

type MockPrivateService struct {
	MockLoginResult *dto.LoginResponse
	MockError       error
}

func (m *MockPrivateService) Login(ctx context.Context, data dto.LoginRequest) (*dto.LoginResponse, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockLoginResult, nil
}

type MockPlanService struct {
	MockCreatePlanResult  *domain.MembershipPlan
	MockGetPlanByIDResult *domain.MembershipPlan
	MockListPlansResult   []domain.MembershipPlan
	MockError             error
}

func (m *MockPlanService) CreatePlan(ctx context.Context, plan *domain.MembershipPlan) (*domain.MembershipPlan, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockCreatePlanResult, nil
}

func (m *MockPlanService) UpdatePlan(ctx context.Context, id uint64, plan domain.MembershipPlan) error {
	return m.MockError
}

func (m *MockPlanService) DeletePlan(ctx context.Context, id uint64) error {
	return m.MockError
}

func (m *MockPlanService) GetPlanByID(ctx context.Context, id uint64) (*domain.MembershipPlan, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockGetPlanByIDResult, nil
}

func (m *MockPlanService) ListPlans(ctx context.Context) ([]domain.MembershipPlan, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockListPlansResult, nil
}

type MockInvestorService struct {
	MockCreateInvestorResult  *domain.Investor
	MockGetInvestorByIDResult *domain.Investor
	MockListInvestorsResult   *domain.Paginated
	MockError                 error
}

func (m *MockInvestorService) CreateInvestor(ctx context.Context, investor *domain.Investor) (*domain.Investor, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockCreateInvestorResult, nil
}

func (m *MockInvestorService) UpdateInvestor(ctx context.Context, id uint64, investor domain.Investor) error {
	return m.MockError
}

func (m *MockInvestorService) DeleteInvestor(ctx context.Context, id uint64) error {
	return m.MockError
}

func (m *MockInvestorService) GetInvestorByID(ctx context.Context, id uint64) (*domain.Investor, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockGetInvestorByIDResult, nil
}

func (m *MockInvestorService) ListInvestors(ctx context.Context, params domain.Params) (*domain.Paginated, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockListInvestorsResult, nil
}

type MockInstallmentService struct {
	MockListByInvestorResult   []domain.Installment
	MockListInstallmentsResult []domain.Installment
	MockGetStatsResult         *domain.InstallmentStats
	MockMarkPaidResult         *domain.Payment
	MockListPaymentsResult     []domain.Payment
	MockError                  error
}

func (m *MockInstallmentService) ListByInvestor(ctx context.Context, investorID uint64) ([]domain.Installment, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockListByInvestorResult, nil
}

func (m *MockInstallmentService) ListInstallments(ctx context.Context, status string) ([]domain.Installment, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockListInstallmentsResult, nil
}

func (m *MockInstallmentService) GetStats(ctx context.Context) (*domain.InstallmentStats, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockGetStatsResult, nil
}

func (m *MockInstallmentService) MarkPaid(ctx context.Context, installmentID uint64, details domain.PaymentDetails) (*domain.Payment, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockMarkPaidResult, nil
}

func (m *MockInstallmentService) ListPayments(ctx context.Context, investorID uint64) ([]domain.Payment, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockListPaymentsResult, nil
}

type MockDashboardService struct {
	MockGetSummaryResult *domain.DashboardSummary
	MockError            error
}

func (m *MockDashboardService) GetSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockGetSummaryResult, nil
}

type MockExportService struct {
	MockCSVResult   []byte
	MockJSONResult  []byte
	MockError       error
	RestoredPayload []byte
}

func (m *MockExportService) InvestorsCSV(ctx context.Context) ([]byte, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockCSVResult, nil
}

func (m *MockExportService) InstallmentsCSV(ctx context.Context) ([]byte, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockCSVResult, nil
}

func (m *MockExportService) PaymentsCSV(ctx context.Context) ([]byte, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockCSVResult, nil
}

func (m *MockExportService) PlansCSV(ctx context.Context) ([]byte, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockCSVResult, nil
}

func (m *MockExportService) FullJSON(ctx context.Context) ([]byte, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockJSONResult, nil
}

func (m *MockExportService) RestoreJSON(ctx context.Context, data []byte) error {
	if m.MockError != nil {
		return m.MockError
	}
	m.RestoredPayload = data
	return nil
}

type MockMediaService struct {
	MockUploadImageResult *domain.GalleryImage
	MockListImagesResult  []domain.GalleryImage
	MockError             error
}

func (m *MockMediaService) UploadImage(ctx context.Context, file *multipart.FileHeader, caption string, section domain.GallerySection) (*domain.GalleryImage, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockUploadImageResult, nil
}

func (m *MockMediaService) ListImages(ctx context.Context, section string) ([]domain.GalleryImage, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockListImagesResult, nil
}

func (m *MockMediaService) DeleteImage(ctx context.Context, id uint64) error {
	return m.MockError
}
