// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records application-level counters.
type Collector struct {
	tasksCreated   prometheus.Counter
	tasksCompleted prometheus.Counter
	tasksDeleted   prometheus.Counter
	remindersFired prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		tasksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskpulse_tasks_created_total",
			Help: "Total number of tasks created.",
		}),
		tasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskpulse_tasks_completed_total",
			Help: "Total number of task completions.",
		}),
		tasksDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskpulse_tasks_deleted_total",
			Help: "Total number of tasks deleted.",
		}),
		remindersFired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskpulse_reminders_fired_total",
			Help: "Total number of due-soon reminders pushed.",
		}),
	}

	reg.MustRegister(
		c.tasksCreated,
		c.tasksCompleted,
		c.tasksDeleted,
		c.remindersFired,
	)

	return c
}

func (c *Collector) RecordTaskCreated()   { c.tasksCreated.Inc() }
func (c *Collector) RecordTaskCompleted() { c.tasksCompleted.Inc() }
func (c *Collector) RecordTaskDeleted()   { c.tasksDeleted.Inc() }
func (c *Collector) RecordReminderFired() { c.remindersFired.Inc() }

// Handler returns an HTTP handler serving the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
