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

// TaskList renders the user's sorted task list. Replaced wholesale on
// every SSE push.
func TaskList(tasks []domain.Task, now time.Time) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div id="task-list">`); err != nil {
			return err
		}
		if len(tasks) == 0 {
			if _, err := io.WriteString(w, `<p class="empty">No tasks yet. Add one to get started!</p>`); err != nil {
				return err
			}
		}
		for i := range tasks {
			if err := TaskItem(&tasks[i], now).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// TaskItem renders a single task row with toggle and delete controls.
func TaskItem(task *domain.Task, now time.Time) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		class := "task"
		if task.Completed {
			class += " completed"
		}

		toggleLabel := "Mark complete"
		if task.Completed {
			toggleLabel = "Mark incomplete"
		}

		if _, err := fmt.Fprintf(w,
			`<div class="%s" id="task-%s">`+
				`<button type="button" class="ghost" aria-label="%s" data-on-click="@post('/tasks/%s/toggle')">%s</button>`+
				`<div class="text"><p>%s</p>`,
			class, templ.EscapeString(task.ID),
			toggleLabel, templ.EscapeString(task.ID), toggleMark(task.Completed),
			templ.EscapeString(task.Text),
		); err != nil {
			return err
		}

		if task.DueDate != nil {
			dueClass := "due"
			if service.TaskDueState(task, now) == service.DueStateOverdue {
				dueClass = "due overdue"
			}
			if _, err := fmt.Fprintf(w,
				`<p class="%s">Due %s</p>`,
				dueClass, templ.EscapeString(task.DueDate.Local().Format("Jan 2, 2006 3:04 PM")),
			); err != nil {
				return err
			}
		}

		_, err := fmt.Fprintf(w,
			`</div><button type="button" class="danger" aria-label="Delete task" data-on-click="@delete('/tasks/%s')">&times;</button></div>`,
			templ.EscapeString(task.ID),
		)
		return err
	})
}

func toggleMark(completed bool) string {
	if completed {
		return "&#10003;"
	}
	return "&#9675;"
}
