package service

import (
	"context"
	"time"

	"taskhub/internal/model"
	"taskhub/internal/refs"
	"taskhub/internal/repository"
)

// TaskInput represents data required to create a task. CategoryCode is
// resolved against the category registry when CategoryID is not set.
type TaskInput struct {
	Title           string
	Description     string
	CategoryID      *uint
	CategoryCode    string
	UseCase         string
	Tags            string
	Priority        model.Priority
	Status          model.Status
	DueDate         *time.Time
	EstimatedHours  float64
	AssignedUserID  uint
	ReviewerID      *uint
	RelatedModel    string
	RelatedRecordID uint
	ContactID       *uint
	CustomData      model.JSONMap
}

// TaskCriteria mirrors TaskInput for queries; all criteria are optional
// and AND-combined. CategoryCode is resolved to a category id; an
// unknown code drops the criterion, same as at creation time.
type TaskCriteria struct {
	UseCase        string
	CategoryCode   string
	AssignedUserID uint
	Status         model.Status
	Priority       model.Priority
	OverdueOnly    bool
	DueDateFrom    *time.Time
	DueDateTo      *time.Time
	Limit          int
}

// TaskView is a task enriched with the resolved display name of its
// polymorphic target. The name is computed at read time, never stored.
type TaskView struct {
	model.Task
	RelatedRecordName string `json:"related_record_name,omitempty"`
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	registry     *refs.Registry
}

func NewTaskService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository, registry *refs.Registry) *TaskService {
	return &TaskService{taskRepo: taskRepo, categoryRepo: categoryRepo, registry: registry}
}

// Create persists a new task for the acting user. Defaults: priority
// medium, status pending, progress 0, creator = actor.
func (s *TaskService) Create(ctx context.Context, actorID uint, input TaskInput) (*model.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.AssignedUserID == 0 {
		return nil, ErrAssigneeRequired
	}

	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}

	status := input.Status
	if status == "" {
		status = model.StatusPending
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	categoryID := input.CategoryID
	if categoryID == nil && input.CategoryCode != "" {
		category, err := s.categoryRepo.FindByCode(ctx, input.CategoryCode)
		if err != nil {
			return nil, err
		}
		// No match: the code is silently ignored.
		if category != nil {
			categoryID = &category.ID
		}
	}

	task := model.Task{
		Title:           input.Title,
		Description:     input.Description,
		CategoryID:      categoryID,
		UseCase:         input.UseCase,
		Tags:            input.Tags,
		Priority:        priority,
		Status:          status,
		DueDate:         input.DueDate,
		EstimatedHours:  input.EstimatedHours,
		AssignedUserID:  input.AssignedUserID,
		CreatedByID:     actorID,
		ReviewerID:      input.ReviewerID,
		RelatedModel:    input.RelatedModel,
		RelatedRecordID: input.RelatedRecordID,
		ContactID:       input.ContactID,
		CustomData:      input.CustomData,
	}
	task.RecomputeOverdue(time.Now().UTC())

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) Get(ctx context.Context, taskID uint) (*TaskView, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	view := s.annotate(ctx, *task)
	return &view, nil
}

// MarkCompleted sets status completed, progress 100 and stamps the
// completed date. Idempotent: calling again re-stamps the date.
func (s *TaskService) MarkCompleted(ctx context.Context, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task.Status = model.StatusCompleted
	task.CompletedDate = &now
	task.Progress = 100
	task.RecomputeOverdue(now)

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// MarkInProgress sets status in_progress and stamps the start date only
// if one is not already set.
func (s *TaskService) MarkInProgress(ctx context.Context, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task.Status = model.StatusInProgress
	if task.StartDate == nil {
		task.StartDate = &now
	}
	task.RecomputeOverdue(now)

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ResolveTarget returns a navigable reference to the task's polymorphic
// target, or nil when no target is set or it cannot be resolved to a
// live record. Never an error for unresolvable targets.
func (s *TaskService) ResolveTarget(ctx context.Context, taskID uint) (*refs.Target, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return s.registry.Resolve(ctx, task.RelatedModel, task.RelatedRecordID), nil
}

// Query lists tasks matching the criteria, each annotated with its
// resolved target name.
func (s *TaskService) Query(ctx context.Context, criteria TaskCriteria) ([]TaskView, error) {
	filter := repository.TaskFilter{
		UseCase:        criteria.UseCase,
		AssignedUserID: criteria.AssignedUserID,
		Status:         criteria.Status,
		Priority:       criteria.Priority,
		OverdueOnly:    criteria.OverdueOnly,
		DueDateFrom:    criteria.DueDateFrom,
		DueDateTo:      criteria.DueDateTo,
		Limit:          criteria.Limit,
	}

	if criteria.CategoryCode != "" {
		category, err := s.categoryRepo.FindByCode(ctx, criteria.CategoryCode)
		if err != nil {
			return nil, err
		}
		if category != nil {
			filter.CategoryID = &category.ID
		}
	}

	tasks, err := s.taskRepo.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, s.annotate(ctx, task))
	}
	return views, nil
}

func (s *TaskService) annotate(ctx context.Context, task model.Task) TaskView {
	return TaskView{
		Task:              task,
		RelatedRecordName: s.registry.DisplayName(ctx, task.RelatedModel, task.RelatedRecordID),
	}
}
