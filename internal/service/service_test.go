package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskhub/internal/model"
	"taskhub/internal/refs"
	"taskhub/internal/repository"
)

type testEnv struct {
	db           *gorm.DB
	userRepo     *repository.UserRepository
	contactRepo  *repository.ContactRepository
	categoryRepo *repository.CategoryRepository
	taskRepo     *repository.TaskRepository
	messageRepo  *repository.MessageRepository
	registry     *refs.Registry

	tasks      *TaskService
	categories *CategoryService
	messages   *MessageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := repository.NewDB(dsn)
	require.NoError(t, err)

	env := &testEnv{
		db:           db,
		userRepo:     repository.NewUserRepository(db),
		contactRepo:  repository.NewContactRepository(db),
		categoryRepo: repository.NewCategoryRepository(db),
		taskRepo:     repository.NewTaskRepository(db),
		messageRepo:  repository.NewMessageRepository(db),
		registry:     refs.NewRegistry(),
	}
	env.registry.Register("task", env.taskRepo)
	env.registry.Register("category", env.categoryRepo)
	env.registry.Register("user", env.userRepo)
	env.registry.Register("contact", env.contactRepo)

	env.tasks = NewTaskService(env.taskRepo, env.categoryRepo, env.registry)
	env.categories = NewCategoryService(env.categoryRepo, env.tasks)
	env.messages = NewMessageService(env.messageRepo, env.userRepo, env.registry)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return env
}

func (e *testEnv) mustUser(t *testing.T, login string) model.User {
	t.Helper()
	user := model.User{Login: login, Name: login, Active: true}
	require.NoError(t, e.userRepo.Create(context.Background(), &user))
	return user
}

func (e *testEnv) mustCategory(t *testing.T, name, code string, priority model.Priority) model.Category {
	t.Helper()
	category, err := e.categories.Create(context.Background(), CategoryInput{
		Name:            name,
		Code:            code,
		DefaultPriority: priority,
	})
	require.NoError(t, err)
	return *category
}
