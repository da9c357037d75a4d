package handler

import (
	"log/slog"
	"net/http"
	"time"

	datastar "github.com/starfederation/datastar-go/datastar"

	"taskpulse/internal/live"
	"taskpulse/internal/service"
	"taskpulse/internal/view"
)

// DashboardHandler handles the dashboard page and its live update stream.
type DashboardHandler struct {
	auth   *service.AuthService
	tasks  *service.TaskService
	broker *live.Broker
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(auth *service.AuthService, tasks *service.TaskService, broker *live.Broker) *DashboardHandler {
	return &DashboardHandler{auth: auth, tasks: tasks, broker: broker}
}

// HandleRoot sends visitors to the dashboard, establishing a session on
// the way in when none exists.
// GET /
func (h *DashboardHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleDashboard renders the dashboard with the user's tasks, stats,
// and the quote of the day.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tasks, err := h.tasks.ListForUser(r.Context(), user.ID)
	if err != nil {
		slog.Error("list tasks for dashboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	stats := service.ComputeStats(tasks)
	quote := service.QuoteOfDay(now)

	view.DashboardPage(user, tasks, stats, quote, now).Render(r.Context(), w)
}

// HandleStream is the SSE endpoint that keeps the dashboard live. Each
// task change event re-renders the task list and stat cards; each notify
// event patches the notification slot.
func (h *DashboardHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	events, cancel := h.broker.Subscribe(user.ID)
	defer cancel()

	sse := datastar.NewSSE(w, r)

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := h.patchEvent(sse, r, user.ID, ev); err != nil {
				slog.Error("patch dashboard stream", "error", err, "user_id", user.ID)
				return
			}
		}
	}
}

func (h *DashboardHandler) patchEvent(sse *datastar.ServerSentEventGenerator, r *http.Request, userID int64, ev live.Event) error {
	switch ev.Kind {
	case live.EventTasksChanged:
		// Re-read so the patch reflects the committed state, including
		// the updated point total.
		user, err := h.auth.GetUserByID(r.Context(), userID)
		if err != nil {
			return err
		}
		tasks, err := h.tasks.ListForUser(r.Context(), userID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := sse.PatchElementTempl(
			view.TaskList(tasks, now),
			datastar.WithSelectorID("task-list"),
		); err != nil {
			return err
		}
		return sse.PatchElementTempl(
			view.StatCards(service.ComputeStats(tasks), user.RewardPoints),
			datastar.WithSelectorID("stat-cards"),
		)

	case live.EventNotify:
		return sse.PatchElementTempl(
			view.NotificationToast(ev.Title, ev.Body),
			datastar.WithSelectorID("notification-slot"),
		)
	}
	return nil
}
