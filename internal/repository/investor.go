package repository

import (
	"context"
	"errors"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type investorRepository struct {
	db *gorm.DB
}

// Create implements InvestorRepository.
func (i *investorRepository) Create(ctx context.Context, investor *domain.Investor) error {
	row := model.InvestorFromEntity(investor)
	if err := i.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}

	investor.ID = row.ID
	return nil
}

// CreateBatch implements InvestorRepository. IDs are preserved so restored
// records keep their original references.
func (i *investorRepository) CreateBatch(ctx context.Context, investors []domain.Investor) error {
	if len(investors) == 0 {
		return nil
	}

	rows := model.InvestorsFromEntity(investors)
	return i.db.WithContext(ctx).Create(&rows).Error
}

// Update implements InvestorRepository.
func (i *investorRepository) Update(ctx context.Context, investor *domain.Investor) error {
	row := model.InvestorFromEntity(investor)
	return i.db.WithContext(ctx).Model(&model.Investor{ID: investor.ID}).
		Select("FullName", "Email", "Phone", "Status", "NextDueDate", "TotalPaid", "PendingAmount").
		Updates(row).Error
}

// Delete implements InvestorRepository. Installments and payments are
// removed by the foreign-key cascade.
func (i *investorRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	res := i.db.WithContext(ctx).Delete(&model.Investor{}, id)
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// DeleteAll implements InvestorRepository.
func (i *investorRepository) DeleteAll(ctx context.Context) error {
	return i.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Investor{}).Error
}

// FindByID implements InvestorRepository.
func (i *investorRepository) FindByID(ctx context.Context, id uint64) (*domain.Investor, error) {
	var investor model.Investor
	if err := i.db.WithContext(ctx).First(&investor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return model.InvestorToEntity(investor), nil
}

// FindByIDWithLock implements InvestorRepository. Must run inside a
// transaction; the row stays locked until commit or rollback.
func (i *investorRepository) FindByIDWithLock(ctx context.Context, id uint64) (*domain.Investor, error) {
	var investor model.Investor
	err := i.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&investor, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return model.InvestorToEntity(investor), nil
}

// FindByIDs implements InvestorRepository. IDs with no matching row are
// silently absent from the result.
func (i *investorRepository) FindByIDs(ctx context.Context, ids []uint64) ([]domain.Investor, error) {
	if len(ids) == 0 {
		return []domain.Investor{}, nil
	}

	var investors []model.Investor
	if err := i.db.WithContext(ctx).Where("id IN ?", ids).Find(&investors).Error; err != nil {
		return nil, err
	}

	return model.InvestorsToEntity(investors), nil
}

// FindByEmail implements InvestorRepository.
func (i *investorRepository) FindByEmail(ctx context.Context, email string) (*domain.Investor, error) {
	var investor model.Investor
	if err := i.db.WithContext(ctx).Where("email = ?", email).First(&investor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return model.InvestorToEntity(investor), nil
}

// FindPaginated implements InvestorRepository.
func (i *investorRepository) FindPaginated(ctx context.Context, params domain.Params) ([]domain.Investor, int64, error) {
	var investors []model.Investor
	var total int64

	query := i.db.WithContext(ctx).Model(&model.Investor{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (params.Page - 1) * params.Limit
	err := query.Limit(params.Limit).Offset(offset).Order("join_date DESC").Find(&investors).Error
	if err != nil {
		return nil, 0, err
	}

	return model.InvestorsToEntity(investors), total, nil
}

// FindRecent implements InvestorRepository.
func (i *investorRepository) FindRecent(ctx context.Context, limit int) ([]domain.Investor, error) {
	var investors []model.Investor
	err := i.db.WithContext(ctx).Order("join_date DESC").Limit(limit).Find(&investors).Error

	return model.InvestorsToEntity(investors), err
}

// Count implements InvestorRepository.
func (i *investorRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := i.db.WithContext(ctx).Model(&model.Investor{}).Count(&total).Error

	return total, err
}

// SumTotalInvestment implements InvestorRepository.
func (i *investorRepository) SumTotalInvestment(ctx context.Context) (int64, error) {
	var sum int64
	err := i.db.WithContext(ctx).Model(&model.Investor{}).
		Select("COALESCE(SUM(total_investment), 0)").
		Scan(&sum).Error

	return sum, err
}

func NewInvestorRepository(db *gorm.DB) InvestorRepository {
	return &investorRepository{
		db: db,
	}
}
