package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"taskpulse/internal/domain"
	"taskpulse/internal/service"
)

// dueDateLayout matches the value format of datetime-local inputs.
const dueDateLayout = "2006-01-02T15:04"

// TaskHandler handles task mutation requests issued from the dashboard.
// Mutations respond 204; the updated view arrives over the SSE stream.
type TaskHandler struct {
	tasks *service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// HandleCreate processes the add-task form.
// POST /tasks
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	text := r.FormValue("text")

	var dueDate *time.Time
	if v := r.FormValue("due_date"); v != "" {
		parsed, err := time.ParseInLocation(dueDateLayout, v, time.Local)
		if err != nil {
			http.Error(w, "Invalid due date.", http.StatusUnprocessableEntity)
			return
		}
		dueDate = &parsed
	}

	if _, err := h.tasks.Add(r.Context(), user.ID, text, dueDate); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			http.Error(w, "Task text is required.", http.StatusUnprocessableEntity)
			return
		}
		slog.Error("create task", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleToggle flips a task's completion state and adjusts reward points.
// POST /tasks/{id}/toggle
func (h *TaskHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := h.tasks.Toggle(r.Context(), user, r.PathValue("id")); err != nil {
		handleTaskError(w, err, "toggle task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete removes a task.
// DELETE /tasks/{id}
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.tasks.Delete(r.Context(), user, r.PathValue("id")); err != nil {
		handleTaskError(w, err, "delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleTaskError maps task mutation failures to responses. Tasks owned
// by another user present as not found rather than forbidden.
func handleTaskError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUnauthorized):
		http.Error(w, "Task not found.", http.StatusNotFound)
	default:
		slog.Error(op, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
