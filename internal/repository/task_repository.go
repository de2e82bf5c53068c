package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskhub/internal/model"
)

// DefaultQueryLimit caps criteria queries when no limit is supplied.
const DefaultQueryLimit = 100

// TaskFilter is the AND-combined criteria set for task queries. Zero
// values mean "no filter on that dimension".
type TaskFilter struct {
	UseCase        string
	CategoryID     *uint
	AssignedUserID uint
	Status         model.Status
	Priority       model.Priority
	OverdueOnly    bool
	DueDateFrom    *time.Time
	DueDateTo      *time.Time
	Limit          int
}

// TaskRepository handles CRUD and criteria queries for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// Query lists tasks matching the filter, ordered by priority (urgent
// first) then due date with empty due dates last.
func (r *TaskRepository) Query(ctx context.Context, f TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Model(&model.Task{})

	if f.UseCase != "" {
		q = q.Where("use_case = ?", f.UseCase)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.AssignedUserID != 0 {
		q = q.Where("assigned_user_id = ?", f.AssignedUserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.OverdueOnly {
		q = q.Where("is_overdue = ?", true)
	}
	if f.DueDateFrom != nil {
		q = q.Where("due_date >= ?", *f.DueDateFrom)
	}
	if f.DueDateTo != nil {
		q = q.Where("due_date <= ?", *f.DueDateTo)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	var tasks []model.Task
	err := q.Order("CASE priority WHEN 'urgent' THEN 3 WHEN 'high' THEN 2 WHEN 'medium' THEN 1 ELSE 0 END DESC").
		Order("due_date IS NULL, due_date ASC, id ASC").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	return tasks, nil
}

// RefreshOverdue flips the stored overdue flag for open tasks whose due
// date has passed since their last write. Returns the number of rows
// updated.
func (r *TaskRepository) RefreshOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("is_overdue = ?", false).
		Where("due_date IS NOT NULL AND due_date < ?", now).
		Where("status NOT IN ?", []model.Status{model.StatusCompleted, model.StatusCancelled}).
		Update("is_overdue", true)
	if res.Error != nil {
		return 0, fmt.Errorf("refresh overdue: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Exists and DisplayName let tasks act as polymorphic reference targets.

func (r *TaskRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TaskRepository) DisplayName(ctx context.Context, id uint) (string, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Select("id", "title").First(&task, id).Error; err != nil {
		return "", err
	}
	return task.Title, nil
}
