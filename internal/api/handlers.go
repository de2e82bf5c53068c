package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"taskhub/internal/model"
	"taskhub/internal/service"
)

// userHeader carries the acting user's id, set by the hosting platform
// that owns sessions. Authentication is not reimplemented here.
const userHeader = "X-User-ID"

var errNoUser = errors.New("missing or invalid user identity")

func actingUser(r *http.Request) (uint, error) {
	raw := r.Header.Get(userHeader)
	if raw == "" {
		return 0, errNoUser
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errNoUser
	}
	return uint(id), nil
}

func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// CreateTaskIn is the create-task request body.
type CreateTaskIn struct {
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	CategoryCode   string `json:"category_code,omitempty"`
	Priority       string `json:"priority,omitempty"`
	AssignedUserID uint   `json:"assigned_user_id,omitempty"`
	UseCase        string `json:"use_case,omitempty"`
}

// Register mounts the JSON endpoints on the mux.
func Register(mux *http.ServeMux, log *slog.Logger, tasks *service.TaskService, messages *service.MessageService, timeout time.Duration) {
	mux.HandleFunc("GET /api/tasks", NewListTasksHandler(log, tasks, timeout))
	mux.HandleFunc("POST /api/tasks/create", NewCreateTaskHandler(log, tasks, timeout))
	mux.HandleFunc("GET /api/messages", NewListMessagesHandler(log, messages, timeout))
}

// NewListTasksHandler lists tasks assigned to the acting user.
func NewListTasksHandler(log *slog.Logger, svc *service.TaskService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actingUser(r)
		if err != nil {
			fail(w, err)
			return
		}

		limit := parseLimit(r)
		if limit == 0 {
			limit = 50
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		views, err := svc.Query(ctx, service.TaskCriteria{AssignedUserID: userID, Limit: limit})
		if err != nil {
			log.Error("list tasks", "user", userID, "error", err)
			fail(w, err)
			return
		}
		ok(w, map[string]any{"tasks": views})
	}
}

// NewCreateTaskHandler creates a task for the acting user. The assignee
// defaults to the acting user, the category code to "general".
func NewCreateTaskHandler(log *slog.Logger, svc *service.TaskService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actingUser(r)
		if err != nil {
			fail(w, err)
			return
		}

		var in CreateTaskIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			fail(w, errors.New("invalid json"))
			return
		}

		if in.CategoryCode == "" {
			in.CategoryCode = "general"
		}
		if in.AssignedUserID == 0 {
			in.AssignedUserID = userID
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		task, err := svc.Create(ctx, userID, service.TaskInput{
			Title:          in.Title,
			Description:    in.Description,
			CategoryCode:   in.CategoryCode,
			Priority:       model.Priority(in.Priority),
			AssignedUserID: in.AssignedUserID,
			UseCase:        in.UseCase,
		})
		if err != nil {
			log.Error("create task", "user", userID, "error", err)
			fail(w, err)
			return
		}
		ok(w, map[string]any{"task_id": task.ID})
	}
}

// NewListMessagesHandler lists messages addressed to the acting user,
// each annotated with that user's personal read state.
func NewListMessagesHandler(log *slog.Logger, svc *service.MessageService, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actingUser(r)
		if err != nil {
			fail(w, err)
			return
		}

		unreadOnly, _ := strconv.ParseBool(r.URL.Query().Get("unread_only"))
		limit := parseLimit(r)
		if limit == 0 {
			limit = 50
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		views, err := svc.Query(ctx, service.MessageCriteria{
			RecipientID: userID,
			UnreadOnly:  unreadOnly,
			Limit:       limit,
		})
		if err != nil {
			log.Error("list messages", "user", userID, "error", err)
			fail(w, err)
			return
		}
		ok(w, map[string]any{"messages": views})
	}
}
