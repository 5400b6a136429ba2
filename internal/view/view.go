// Package view renders the HTML pages. Each page is a templ.Component so
// handlers render every page the same way: view.XPage(...).Render(ctx, w).
package view

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/msomdec/todo-list/internal/domain"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pages = map[string]*template.Template{
	"login":     parsePage("login"),
	"register":  parsePage("register"),
	"dashboard": parsePage("dashboard"),
}

func parsePage(name string) *template.Template {
	return template.Must(template.ParseFS(templateFiles, "templates/layout.html", "templates/"+name+".html"))
}

// Flash is a one-shot notice shown at the top of the next rendered page.
type Flash struct {
	Kind    string // FlashOK or FlashError
	Message string
}

const (
	FlashOK    = "ok"
	FlashError = "error"
)

type pageData struct {
	Title     string
	UserEmail string
	Flashes   []Flash
	Dashboard *domain.Dashboard
}

func render(name string, data pageData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return pages[name].ExecuteTemplate(w, "layout", data)
	})
}

// LoginPage renders the login form.
func LoginPage(flashes []Flash) templ.Component {
	return render("login", pageData{Title: "Log in", Flashes: flashes})
}

// RegisterPage renders the registration form.
func RegisterPage(flashes []Flash) templ.Component {
	return render("register", pageData{Title: "Create account", Flashes: flashes})
}

// DashboardPage renders the task lists, the 7-day chart and the calendar.
func DashboardPage(email string, d *domain.Dashboard, flashes []Flash) templ.Component {
	return render("dashboard", pageData{
		Title:     "Dashboard",
		UserEmail: email,
		Flashes:   flashes,
		Dashboard: d,
	})
}
