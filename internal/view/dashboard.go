package view

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"

	"taskpulse/internal/domain"
	"taskpulse/internal/service"
)

const permissionScript = `
if ("Notification" in window && Notification.permission !== "granted" && Notification.permission !== "denied") {
	Notification.requestPermission();
}
`

// DashboardPage renders the full dashboard: stat cards, daily quote,
// the add-task form, and the live-updating task list.
func DashboardPage(user *domain.User, tasks []domain.Task, stats service.Stats, quote string, now time.Time) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<header class="top">`+
				`<h1>TaskPulse</h1>`+
				`<form class="inline" method="post" action="/logout"><button type="submit" class="danger">Logout</button></form>`+
				`</header>`+
				`<script>%s</script>`+
				`<main data-on-load="@get('/dashboard/stream')">`,
			permissionScript,
		); err != nil {
			return err
		}

		if err := StatCards(stats, user.RewardPoints).Render(ctx, w); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w,
			`<div class="card"><p class="quote">&ldquo;%s&rdquo;</p></div>`,
			templ.EscapeString(quote),
		); err != nil {
			return err
		}

		if _, err := io.WriteString(w,
			`<div class="card"><h3>Your Tasks</h3>`+
				`<form data-on-submit="@post('/tasks', {contentType: 'form'})">`+
				`<input type="text" name="text" placeholder="What's your next task?">`+
				`<input type="datetime-local" name="due_date">`+
				`<button type="submit">Add Task</button>`+
				`</form>`,
		); err != nil {
			return err
		}

		if err := TaskList(tasks, now).Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</div><div id="notification-slot" hidden></div></main>`)
		return err
	})
	return Layout("Dashboard - TaskPulse", body)
}

// StatCards renders the three dashboard counters. Patched over SSE when
// the task set or point total changes.
func StatCards(stats service.Stats, rewardPoints int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div id="stat-cards" class="stat-grid">`+
				`<div class="stat stat-active"><p class="label">Active Tasks</p><p class="value">%d</p></div>`+
				`<div class="stat stat-points"><p class="label">Reward Points</p><p class="value">%d</p></div>`+
				`<div class="stat stat-done"><p class="label">Tasks Completed</p><p class="value">%d</p></div>`+
				`</div>`,
			stats.Active, rewardPoints, stats.Completed,
		)
		return err
	})
}

// NotificationToast renders a fragment that fires a browser notification
// when patched into the page.
func NotificationToast(title, body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div id="notification-slot" hidden data-on-load="%s"></div>`,
			templ.EscapeString(jsCall("notifyUser", title, body)),
		)
		return err
	})
}
