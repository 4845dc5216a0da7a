package repository

import (
	"context"
	"errors"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/internal/model"
	"gorm.io/gorm"
)

type planRepository struct {
	db *gorm.DB
}

// Create implements PlanRepository.
func (p *planRepository) Create(ctx context.Context, plan *domain.MembershipPlan) error {
	row := model.PlanFromEntity(plan)
	if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}

	plan.ID = row.ID
	return nil
}

// CreateBatch implements PlanRepository. IDs are preserved so restored
// records keep their original references.
func (p *planRepository) CreateBatch(ctx context.Context, plans []domain.MembershipPlan) error {
	if len(plans) == 0 {
		return nil
	}

	rows := model.PlansFromEntity(plans)
	return p.db.WithContext(ctx).Create(&rows).Error
}

// Update implements PlanRepository.
func (p *planRepository) Update(ctx context.Context, plan *domain.MembershipPlan) error {
	row := model.PlanFromEntity(plan)
	return p.db.WithContext(ctx).Model(&model.MembershipPlan{ID: plan.ID}).
		Select("Name", "TotalAmount", "DownpaymentPercent", "MonthlyInstallment",
			"QuarterlyInstallment", "Benefits", "Duration", "ROI").
		Updates(row).Error
}

// Delete implements PlanRepository.
func (p *planRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	res := p.db.WithContext(ctx).Delete(&model.MembershipPlan{}, id)
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// DeleteAll implements PlanRepository.
func (p *planRepository) DeleteAll(ctx context.Context) error {
	return p.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.MembershipPlan{}).Error
}

// FindByID implements PlanRepository.
func (p *planRepository) FindByID(ctx context.Context, id uint64) (*domain.MembershipPlan, error) {
	var plan model.MembershipPlan
	if err := p.db.WithContext(ctx).First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return model.PlanToEntity(plan), nil
}

// FindAll implements PlanRepository.
func (p *planRepository) FindAll(ctx context.Context) ([]domain.MembershipPlan, error) {
	var plans []model.MembershipPlan
	err := p.db.WithContext(ctx).Order("total_amount ASC").Find(&plans).Error

	return model.PlansToEntity(plans), err
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{
		db: db,
	}
}
