package repository

import (
	"context"

	"github.com/kiritara/resort-admin/internal/domain"
	"github.com/kiritara/resort-admin/internal/model"
	"gorm.io/gorm"
)

type galleryRepository struct {
	db *gorm.DB
}

// Create implements GalleryRepository.
func (g *galleryRepository) Create(ctx context.Context, image *domain.GalleryImage) error {
	row := model.GalleryImage{
		URL:     image.URL,
		Caption: image.Caption,
		Section: model.GallerySection(image.Section),
	}
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}

	image.ID = row.ID
	return nil
}

// FindAll implements GalleryRepository.
func (g *galleryRepository) FindAll(ctx context.Context) ([]domain.GalleryImage, error) {
	var images []model.GalleryImage
	err := g.db.WithContext(ctx).Order("created_at DESC").Find(&images).Error

	return model.GalleryImagesToEntity(images), err
}

// FindBySection implements GalleryRepository.
func (g *galleryRepository) FindBySection(ctx context.Context, section domain.GallerySection) ([]domain.GalleryImage, error) {
	var images []model.GalleryImage
	err := g.db.WithContext(ctx).
		Where("section = ?", string(section)).
		Order("created_at DESC").
		Find(&images).Error

	return model.GalleryImagesToEntity(images), err
}

// Delete implements GalleryRepository.
func (g *galleryRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	res := g.db.WithContext(ctx).Delete(&model.GalleryImage{}, id)
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

func NewGalleryRepository(db *gorm.DB) GalleryRepository {
	return &galleryRepository{
		db: db,
	}
}
