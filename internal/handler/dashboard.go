package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/msomdec/todo-list/internal/domain"
	"github.com/msomdec/todo-list/internal/service"
	"github.com/msomdec/todo-list/internal/view"
)

// DashboardHandler handles the dashboard page and task creation.
type DashboardHandler struct {
	tasks   *service.TaskService
	flashes *Flashes
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(tasks *service.TaskService, flashes *Flashes) *DashboardHandler {
	return &DashboardHandler{tasks: tasks, flashes: flashes}
}

// HandleDashboard renders the user's tasks, 7-day stats and calendar.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	dashboard, err := h.tasks.Dashboard(r.Context(), user.ID)
	if err != nil {
		slog.Error("build dashboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.DashboardPage(user.Email, dashboard, h.flashes.Pop(w, r)).Render(r.Context(), w)
}

// HandleCreateTask adds a task from the dashboard form.
func (h *DashboardHandler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if _, err := h.tasks.Create(r.Context(), user.ID, r.FormValue("title")); err != nil {
		if !errors.Is(err, domain.ErrInvalidInput) {
			slog.Error("create task", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		h.flashes.Add(w, r, view.FlashError, taskInputMessage(r.FormValue("title")))
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	h.flashes.Add(w, r, view.FlashOK, "Task added!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func taskInputMessage(title string) string {
	if utf8.RuneCountInString(strings.TrimSpace(title)) > domain.MaxTitleLength {
		return "Task title is too long."
	}
	return "Please enter a task."
}
