package repository

import (
	"context"
	"errors"
	"time"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type installmentRepository struct {
	db *gorm.DB
}

// CreateBatch implements InstallmentRepository. IDs assigned by the
// database are copied back into the returned slice.
func (r *installmentRepository) CreateBatch(ctx context.Context, installments []domain.Installment) ([]domain.Installment, error) {
	if len(installments) == 0 {
		return []domain.Installment{}, nil
	}

	rows := model.InstallmentsFromEntity(installments)
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}

	return model.InstallmentsToEntity(rows), nil
}

// Update implements InstallmentRepository.
func (r *installmentRepository) Update(ctx context.Context, installment *domain.Installment) error {
	row := model.InstallmentFromEntity(installment)
	return r.db.WithContext(ctx).Model(&model.Installment{ID: installment.ID}).
		Select("Status", "PaidDate", "PaymentMode", "Remarks").
		Updates(row).Error
}

// FindByID implements InstallmentRepository.
func (r *installmentRepository) FindByID(ctx context.Context, id uint64) (*domain.Installment, error) {
	var installment model.Installment
	if err := r.db.WithContext(ctx).First(&installment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return model.InstallmentToEntity(installment), nil
}

// FindByIDWithLock implements InstallmentRepository. Must run inside a
// transaction.
func (r *installmentRepository) FindByIDWithLock(ctx context.Context, id uint64) (*domain.Installment, error) {
	var installment model.Installment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&installment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return model.InstallmentToEntity(installment), nil
}

// FindByInvestorID implements InstallmentRepository.
func (r *installmentRepository) FindByInvestorID(ctx context.Context, investorID uint64) ([]domain.Installment, error) {
	var installments []model.Installment
	err := r.db.WithContext(ctx).
		Where("investor_id = ?", investorID).
		Order("due_date ASC").
		Find(&installments).Error

	return model.InstallmentsToEntity(installments), err
}

// FindAll implements InstallmentRepository.
func (r *installmentRepository) FindAll(ctx context.Context) ([]domain.Installment, error) {
	var installments []model.Installment
	err := r.db.WithContext(ctx).Order("due_date ASC").Find(&installments).Error

	return model.InstallmentsToEntity(installments), err
}

// FindPendingOrdered implements InstallmentRepository.
func (r *installmentRepository) FindPendingOrdered(ctx context.Context, limit int) ([]domain.Installment, error) {
	var installments []model.Installment
	err := r.db.WithContext(ctx).
		Where("status = ?", model.InstallmentPending).
		Order("due_date ASC").
		Limit(limit).
		Find(&installments).Error

	return model.InstallmentsToEntity(installments), err
}

// CountByStatus implements InstallmentRepository.
func (r *installmentRepository) CountByStatus(ctx context.Context, status domain.InstallmentStatus) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Installment{}).
		Where("status = ?", string(status)).
		Count(&total).Error

	return total, err
}

// CountPendingDueBefore implements InstallmentRepository. The overdue
// transition is never stored, so "overdue" at read time means a pending
// row whose due date has passed.
func (r *installmentRepository) CountPendingDueBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Installment{}).
		Where("status = ? AND due_date < ?", model.InstallmentPending, cutoff).
		Count(&total).Error

	return total, err
}

// DeleteAll implements InstallmentRepository.
func (r *installmentRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Installment{}).Error
}

func NewInstallmentRepository(db *gorm.DB) InstallmentRepository {
	return &installmentRepository{
		db: db,
	}
}
