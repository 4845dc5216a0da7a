package repository

import (
	"context"
	"errors"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/internal/model"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// Create implements PaymentRepository. Payments are append-only; there
// is intentionally no update or delete.
func (p *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	row := model.PaymentFromEntity(payment)
	if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}

	payment.ID = row.ID
	return nil
}

// CreateBatch implements PaymentRepository. IDs are preserved so restored
// records keep their original references.
func (p *paymentRepository) CreateBatch(ctx context.Context, payments []domain.Payment) error {
	if len(payments) == 0 {
		return nil
	}

	rows := model.PaymentsFromEntity(payments)
	return p.db.WithContext(ctx).Create(&rows).Error
}

// DeleteAll implements PaymentRepository.
func (p *paymentRepository) DeleteAll(ctx context.Context) error {
	return p.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Payment{}).Error
}

// FindAll implements PaymentRepository.
func (p *paymentRepository) FindAll(ctx context.Context) ([]domain.Payment, error) {
	var payments []model.Payment
	err := p.db.WithContext(ctx).Order("payment_date DESC").Find(&payments).Error

	return model.PaymentsToEntity(payments), err
}

// FindByInvestorID implements PaymentRepository.
func (p *paymentRepository) FindByInvestorID(ctx context.Context, investorID uint64) ([]domain.Payment, error) {
	var payments []model.Payment
	err := p.db.WithContext(ctx).
		Where("investor_id = ?", investorID).
		Order("payment_date DESC").
		Find(&payments).Error

	return model.PaymentsToEntity(payments), err
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{
		db: db,
	}
}

type adminRepository struct {
	db *gorm.DB
}

// Create implements AdminRepository.
func (a *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	row := model.Admin{
		Email:        admin.Email,
		PasswordHash: admin.PasswordHash,
		FullName:     admin.FullName,
	}
	if err := a.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}

	admin.ID = row.ID
	return nil
}

// FindByEmail implements AdminRepository.
func (a *adminRepository) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var admin model.Admin
	if err := a.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return model.AdminToEntity(admin), nil
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{
		db: db,
	}
}
