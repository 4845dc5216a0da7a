package service

import (
	"context"
	"mime/multipart"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/internal/dto"
)

type PrivateServices interface {
	Login(ctx context.Context, data dto.LoginRequest) (*dto.LoginResponse, error)
}

type PlanServices interface {
	CreatePlan(ctx context.Context, plan *domain.MembershipPlan) (*domain.MembershipPlan, error)
	UpdatePlan(ctx context.Context, id uint64, plan domain.MembershipPlan) error
	DeletePlan(ctx context.Context, id uint64) error
	GetPlanByID(ctx context.Context, id uint64) (*domain.MembershipPlan, error)
	ListPlans(ctx context.Context) ([]domain.MembershipPlan, error)
}

type InvestorServices interface {
	CreateInvestor(ctx context.Context, investor *domain.Investor) (*domain.Investor, error)
	UpdateInvestor(ctx context.Context, id uint64, investor domain.Investor) error
	DeleteInvestor(ctx context.Context, id uint64) error
	GetInvestorByID(ctx context.Context, id uint64) (*domain.Investor, error)
	ListInvestors(ctx context.Context, params domain.Params) (*domain.Paginated, error)
}

type InstallmentServices interface {
	ListByInvestor(ctx context.Context, investorID uint64) ([]domain.Installment, error)
	ListInstallments(ctx context.Context, status string) ([]domain.Installment, error)
	GetStats(ctx context.Context) (*domain.InstallmentStats, error)
	MarkPaid(ctx context.Context, installmentID uint64, details domain.PaymentDetails) (*domain.Payment, error)
	ListPayments(ctx context.Context, investorID uint64) ([]domain.Payment, error)
}

type DashboardServices interface {
	GetSummary(ctx context.Context) (*domain.DashboardSummary, error)
}

type ExportServices interface {
	InvestorsCSV(ctx context.Context) ([]byte, error)
	InstallmentsCSV(ctx context.Context) ([]byte, error)
	PaymentsCSV(ctx context.Context) ([]byte, error)
	PlansCSV(ctx context.Context) ([]byte, error)
	FullJSON(ctx context.Context) ([]byte, error)
	RestoreJSON(ctx context.Context, data []byte) error
}

type MediaServices interface {
	UploadImage(ctx context.Context, file *multipart.FileHeader, caption string, section domain.GallerySection) (*domain.GalleryImage, error)
	ListImages(ctx context.Context, section string) ([]domain.GalleryImage, error)
	DeleteImage(ctx context.Context, id uint64) error
}
