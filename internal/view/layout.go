// Package view renders the application's pages and fragments as templ
// components built in Go.
package view

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

const datastarCDN = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"

const baseStyles = `
body { margin: 0; min-height: 100vh; background: #111827; color: #f9fafb; font-family: system-ui, sans-serif; }
.container { max-width: 56rem; margin: 0 auto; padding: 1rem; }
.card { background: #1f2937; border: 1px solid #374151; border-radius: 1rem; padding: 1.5rem; margin-top: 1.5rem; }
.stat-grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 1rem; margin-top: 1.5rem; }
.stat { border-radius: 1rem; padding: 1.5rem; }
.stat .label { font-size: 0.875rem; opacity: 0.8; }
.stat .value { font-size: 2rem; font-weight: 700; }
.stat-active { background: #2563eb; }
.stat-points { background: #d97706; }
.stat-done { background: #059669; }
.quote { font-style: italic; color: #d1d5db; text-align: center; }
.task { display: flex; align-items: center; gap: 1rem; background: #374151; border-radius: 0.5rem; padding: 1rem; margin-top: 0.75rem; }
.task.completed { opacity: 0.5; }
.task.completed .text { text-decoration: line-through; color: #9ca3af; }
.task .text { flex-grow: 1; }
.task .due { font-size: 0.875rem; color: #9ca3af; }
.task .due.overdue { color: #f87171; }
.error { background: #7f1d1d; color: #fecaca; border-radius: 0.5rem; padding: 0.75rem; margin-bottom: 1rem; }
.empty { text-align: center; color: #9ca3af; padding: 1rem; }
form.inline { display: inline; }
input, button { font: inherit; border-radius: 0.5rem; border: 1px solid #4b5563; padding: 0.5rem 0.75rem; }
input { background: #374151; color: #f9fafb; width: 100%; box-sizing: border-box; margin-bottom: 1rem; }
button { background: #2563eb; color: #fff; border: none; cursor: pointer; }
button.danger { background: #dc2626; }
button.ghost { background: #374151; }
header.top { display: flex; justify-content: space-between; align-items: center; padding-top: 1rem; }
`

const notifyScript = `
function notifyUser(title, body) {
	if ("Notification" in window && Notification.permission === "granted") {
		new Notification(title, { body: body, icon: "/favicon.ico" });
	}
}
`

// Layout wraps body in the HTML skeleton shared by every page.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
				`<meta name="viewport" content="width=device-width, initial-scale=1">`+
				`<title>%s</title>`+
				`<script type="module" src="%s"></script>`+
				`<script>%s</script>`+
				`<style>%s</style>`+
				`</head><body><div class="container">`,
			templ.EscapeString(title), datastarCDN, notifyScript, baseStyles,
		); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div></body></html>`)
		return err
	})
}

// jsCall builds a Javascript call expression with the arguments encoded
// as string literals, safe for use inside datastar attributes.
func jsCall(fn string, args ...string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		b, _ := json.Marshal(a)
		parts[i] = string(b)
	}
	return fn + "(" + strings.Join(parts, ", ") + ")"
}
