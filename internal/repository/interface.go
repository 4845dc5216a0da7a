package repository

import (
	"context"
	"time"

	"github.com/kiritara/resort-admin/internal/domain"
)

type PlanRepository interface {
	Create(ctx context.Context, plan *domain.MembershipPlan) error
	CreateBatch(ctx context.Context, plans []domain.MembershipPlan) error
	Update(ctx context.Context, plan *domain.MembershipPlan) error
	Delete(ctx context.Context, id uint64) (bool, error)
	DeleteAll(ctx context.Context) error
	FindByID(ctx context.Context, id uint64) (*domain.MembershipPlan, error)
	FindAll(ctx context.Context) ([]domain.MembershipPlan, error)
}

type InvestorRepository interface {
	Create(ctx context.Context, investor *domain.Investor) error
	CreateBatch(ctx context.Context, investors []domain.Investor) error
	Update(ctx context.Context, investor *domain.Investor) error
	Delete(ctx context.Context, id uint64) (bool, error)
	DeleteAll(ctx context.Context) error
	FindByID(ctx context.Context, id uint64) (*domain.Investor, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Investor, error)
	FindByIDWithLock(ctx context.Context, id uint64) (*domain.Investor, error)
	FindByEmail(ctx context.Context, email string) (*domain.Investor, error)
	FindPaginated(ctx context.Context, params domain.Params) ([]domain.Investor, int64, error)
	FindRecent(ctx context.Context, limit int) ([]domain.Investor, error)
	Count(ctx context.Context) (int64, error)
	SumTotalInvestment(ctx context.Context) (int64, error)
}

type InstallmentRepository interface {
	CreateBatch(ctx context.Context, installments []domain.Installment) ([]domain.Installment, error)
	Update(ctx context.Context, installment *domain.Installment) error
	FindByID(ctx context.Context, id uint64) (*domain.Installment, error)
	FindByIDWithLock(ctx context.Context, id uint64) (*domain.Installment, error)
	FindByInvestorID(ctx context.Context, investorID uint64) ([]domain.Installment, error)
	FindAll(ctx context.Context) ([]domain.Installment, error)
	FindPendingOrdered(ctx context.Context, limit int) ([]domain.Installment, error)
	CountByStatus(ctx context.Context, status domain.InstallmentStatus) (int64, error)
	CountPendingDueBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteAll(ctx context.Context) error
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	CreateBatch(ctx context.Context, payments []domain.Payment) error
	DeleteAll(ctx context.Context) error
	FindAll(ctx context.Context) ([]domain.Payment, error)
	FindByInvestorID(ctx context.Context, investorID uint64) ([]domain.Payment, error)
}

type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

type GalleryRepository interface {
	Create(ctx context.Context, image *domain.GalleryImage) error
	FindAll(ctx context.Context) ([]domain.GalleryImage, error)
	FindBySection(ctx context.Context, section domain.GallerySection) ([]domain.GalleryImage, error)
	Delete(ctx context.Context, id uint64) (bool, error)
}
