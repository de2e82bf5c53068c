package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taskhub/internal/model"
)

// ErrDuplicateCode is returned when a category is created with a code
// (or name) that already exists.
var ErrDuplicateCode = errors.New("category code already exists")

// CategoryRepository manages the task category registry.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("create category %q: %w", category.Code, ErrDuplicateCode)
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByCode returns the first category with the given code, or nil if
// no category matches.
func (r *CategoryRepository) FindByCode(ctx context.Context, code string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&category).Error
	switch {
	case err == nil:
		return &category, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find category by code: %w", err)
	}
}

func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("sequence ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Exists and DisplayName let categories act as polymorphic reference targets.

func (r *CategoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CategoryRepository) DisplayName(ctx context.Context, id uint) (string, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Select("id", "name").First(&category, id).Error; err != nil {
		return "", err
	}
	return category.Name, nil
}

// CountTasks computes the live task count for a category. Never cached.
func (r *CategoryRepository) CountTasks(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count tasks for category: %w", err)
	}
	return count, nil
}
