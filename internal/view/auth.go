package view

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// LoginPage renders the login form. errMsg, when non-empty, is shown
// above the form.
func LoginPage(email, errMsg string) templ.Component {
	return Layout("Log In - TaskPulse", authForm(authFormData{
		heading:    "Welcome Back",
		subheading: "Log in to manage your tasks.",
		action:     "/login",
		submit:     "Log In",
		altText:    "Don't have an account?",
		altHref:    "/signup",
		altLabel:   "Sign Up",
		email:      email,
		errMsg:     errMsg,
		showGuest:  true,
	}))
}

// SignupPage renders the account creation form.
func SignupPage(email, errMsg string) templ.Component {
	return Layout("Sign Up - TaskPulse", authForm(authFormData{
		heading:    "Create Your Account",
		subheading: "Join TaskPulse to boost your productivity.",
		action:     "/signup",
		submit:     "Sign Up",
		altText:    "Already have an account?",
		altHref:    "/login",
		altLabel:   "Log In",
		email:      email,
		errMsg:     errMsg,
	}))
}

type authFormData struct {
	heading    string
	subheading string
	action     string
	submit     string
	altText    string
	altHref    string
	altLabel   string
	email      string
	errMsg     string
	showGuest  bool
}

func authForm(d authFormData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<div class="card" style="max-width: 28rem; margin: 2.5rem auto 0;">`+
				`<h2 style="text-align: center;">%s</h2>`+
				`<p style="text-align: center; color: #9ca3af;">%s</p>`,
			templ.EscapeString(d.heading), templ.EscapeString(d.subheading),
		); err != nil {
			return err
		}
		if d.errMsg != "" {
			if _, err := fmt.Fprintf(w, `<p class="error">%s</p>`, templ.EscapeString(d.errMsg)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w,
			`<form method="post" action="%s">`+
				`<label>Email</label>`+
				`<input type="email" name="email" value="%s" required>`+
				`<label>Password</label>`+
				`<input type="password" name="password" required>`+
				`<button type="submit" style="width: 100%%;">%s</button>`+
				`</form>`,
			d.action, templ.EscapeString(d.email), templ.EscapeString(d.submit),
		); err != nil {
			return err
		}
		if d.showGuest {
			if _, err := io.WriteString(w,
				`<form method="post" action="/auth/anonymous" style="margin-top: 0.75rem;">`+
					`<button type="submit" class="ghost" style="width: 100%;">Continue as Guest</button>`+
					`</form>`,
			); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w,
			`<p style="text-align: center; color: #9ca3af; margin-top: 1.5rem;">%s <a href="%s" style="color: #60a5fa;">%s</a></p></div>`,
			templ.EscapeString(d.altText), d.altHref, templ.EscapeString(d.altLabel),
		)
		return err
	})
}
