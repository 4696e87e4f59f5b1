package router

import (
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"time"

	"polls/internal/utils"

	"github.com/dustin/go-humanize"
	"github.com/gin-contrib/multitemplate"
)

// views maps the names handlers render to their files under templates/views.
var views = map[string]string{
	"polls/index.html":   "polls/index.html",
	"polls/detail.html":  "polls/detail.html",
	"polls/results.html": "polls/results.html",
	"error.html":         "error.html",
}

var funcMap = template.FuncMap{
	"add": func(a, b int) int {
		return a + b
	},
	"sub": func(a, b int) int {
		return a - b
	},
	"naturaltime": func(t time.Time) string {
		return humanize.Time(t)
	},
	"pluralize": func(n int) string {
		if n == 1 {
			return ""
		}
		return "s"
	},
	"markdown": utils.RenderMarkdown,
}

// LoadTemplates builds one template set per view: the layouts plus the view,
// which overrides the layout's "content" block.
func LoadTemplates(fsys fs.FS) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()

	layouts, err := fs.Glob(fsys, "templates/layouts/*.html")
	if err != nil {
		return nil, err
	}
	if len(layouts) == 0 {
		return nil, fmt.Errorf("no layouts found")
	}

	for name, view := range views {
		files := make([]string, 0, len(layouts)+1)
		files = append(files, layouts...)
		files = append(files, "templates/views/"+view)

		tmpl, err := template.New(path.Base(files[0])).Funcs(funcMap).ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.Add(name, tmpl)
	}
	return r, nil
}
