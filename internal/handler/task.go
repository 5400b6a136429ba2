package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/msomdec/todo-list/internal/domain"
	"github.com/msomdec/todo-list/internal/service"
	"github.com/msomdec/todo-list/internal/view"
)

// TaskHandler handles toggling and deleting a single task.
type TaskHandler struct {
	tasks   *service.TaskService
	flashes *Flashes
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *service.TaskService, flashes *Flashes) *TaskHandler {
	return &TaskHandler{tasks: tasks, flashes: flashes}
}

// HandleToggle flips a task between pending and done.
// POST /toggle/{taskID}
func (h *TaskHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	taskID, ok := parseTaskID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if _, err := h.tasks.Toggle(r.Context(), user.ID, taskID); err != nil {
		h.handleTaskError(w, r, "toggle task", err)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleDelete removes a task permanently.
// POST /delete/{taskID}
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	taskID, ok := parseTaskID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := h.tasks.Delete(r.Context(), user.ID, taskID); err != nil {
		h.handleTaskError(w, r, "delete task", err)
		return
	}

	h.flashes.Add(w, r, view.FlashOK, "Task deleted.")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleTaskError answers 404 for tasks the user does not own or that do
// not exist, and 500 for anything else.
func (h *TaskHandler) handleTaskError(w http.ResponseWriter, r *http.Request, action string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	slog.Error(action, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func parseTaskID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("taskID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
