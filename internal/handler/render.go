package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"microblog/internal/middleware"
	"microblog/internal/models"
)

//go:embed templates
var templateFS embed.FS

// ViewData is passed to every page template. Fields a page does not use stay zero.
type ViewData struct {
	User      *models.User
	Path      string
	Page      *models.Page
	Group     *models.Group
	Author    *models.User
	Following bool
	PostCount int
	Post      *models.Post
	Comments  []models.Comment
	Groups    []models.Group
	Form      *Form
	IsEdit    bool
	Next      string
}

type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data *ViewData) error
}

type TemplateRenderer struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("02.01.2006")
	},
	"year": func() int {
		return time.Now().Year()
	},
	"truncate": func(s string, n int) string {
		if utf8.RuneCountInString(s) <= n {
			return s
		}
		return string([]rune(s)[:n]) + "…"
	},
}

// NewTemplateRenderer parses every page under templates/ together with the
// base layout and the shared includes.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	pages := make(map[string]*template.Template)

	err := fs.WalkDir(templateFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") {
			return nil
		}

		name := strings.TrimPrefix(p, "templates/")
		if name == "base.html" || strings.HasPrefix(name, "includes/") {
			return nil
		}

		tmpl, err := template.New(path.Base(name)).Funcs(templateFuncs).ParseFS(templateFS,
			"templates/base.html",
			"templates/includes/*.html",
			p,
		)
		if err != nil {
			return fmt.Errorf("ошибка разбора шаблона %s: %w", name, err)
		}

		pages[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &TemplateRenderer{pages: pages}, nil
}

// Render executes the page into a buffer first so that a template error
// never leaves a half-written response.
func (t *TemplateRenderer) Render(w http.ResponseWriter, status int, name string, data *ViewData) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("шаблон %s не найден", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("ошибка рендеринга шаблона %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name string, data *ViewData) {
	if data == nil {
		data = &ViewData{}
	}
	if data.Form == nil {
		data.Form = NewForm()
	}
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		data.User = user
	}
	data.Path = r.URL.Path

	if err := h.Renderer.Render(w, status, name, data); err != nil {
		h.Logger.Error("ошибка рендеринга страницы", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
