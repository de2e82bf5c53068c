package service

import (
	"context"

	"taskhub/internal/model"
	"taskhub/internal/repository"
)

// CategoryInput represents data required to create a category.
type CategoryInput struct {
	Name            string
	Code            string
	Description     string
	Sequence        int
	Color           int
	Icon            string
	DefaultPriority model.Priority
}

// CategoryView is a category with its live task count. The count is
// computed fresh on every read, never denormalized.
type CategoryView struct {
	model.Category
	TaskCount int64 `json:"task_count"`
}

// CategoryService provides helpers around the category registry.
type CategoryService struct {
	categoryRepo *repository.CategoryRepository
	taskSvc      *TaskService
}

func NewCategoryService(categoryRepo *repository.CategoryRepository, taskSvc *TaskService) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, taskSvc: taskSvc}
}

// Create persists a new category. A duplicate code fails with
// repository.ErrDuplicateCode and leaves the original untouched.
func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*model.Category, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if input.Code == "" {
		return nil, ErrCodeRequired
	}

	priority := input.DefaultPriority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}

	sequence := input.Sequence
	if sequence == 0 {
		sequence = 10
	}

	category := model.Category{
		Name:            input.Name,
		Code:            input.Code,
		Description:     input.Description,
		Sequence:        sequence,
		Color:           input.Color,
		Icon:            input.Icon,
		Active:          true,
		DefaultPriority: priority,
	}
	if err := s.categoryRepo.Create(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*CategoryView, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.categoryRepo.CountTasks(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CategoryView{Category: *category, TaskCount: count}, nil
}

func (s *CategoryService) List(ctx context.Context) ([]CategoryView, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]CategoryView, 0, len(categories))
	for _, category := range categories {
		count, err := s.categoryRepo.CountTasks(ctx, category.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, CategoryView{Category: category, TaskCount: count})
	}
	return views, nil
}

// ListTasks is the filtered task query fixed to one category.
func (s *CategoryService) ListTasks(ctx context.Context, categoryID uint, limit int) ([]TaskView, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return s.taskSvc.Query(ctx, TaskCriteria{CategoryCode: category.Code, Limit: limit})
}
