package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Lukaspop/Pixel-Dread-website/models"
)

// TaxonomyService manages the independent named entities posts reference:
// categories and tags.
type TaxonomyService struct {
	db *gorm.DB
}

// NewTaxonomyService creates a TaxonomyService.
func NewTaxonomyService(db *gorm.DB) *TaxonomyService {
	return &TaxonomyService{db: db}
}

// ListCategories returns all categories.
func (s *TaxonomyService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory adds a category.
func (s *TaxonomyService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	category := models.Category{Name: name}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// RenameCategory updates a category's name.
func (s *TaxonomyService) RenameCategory(ctx context.Context, id uint, name string) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&category).Update("name", name).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category. Posts referencing it keep existing
// with their category cleared; deletion never cascades to posts.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&models.Post{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
}

// ListTags returns all tags.
func (s *TaxonomyService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag adds a tag.
func (s *TaxonomyService) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	tag := models.Tag{Name: name}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteTag removes a tag together with its post links.
func (s *TaxonomyService) DeleteTag(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.First(&tag, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("tag_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}
