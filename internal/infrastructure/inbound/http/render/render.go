package render

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	model "yatube-post-service/internal/domain/models"

	"github.com/gin-gonic/gin"
	gin_render "github.com/gin-gonic/gin/render"
	"github.com/jackc/pgx/v5/pgtype"
)

//go:embed templates
var templateFS embed.FS

const layout = "base"

// Templates renders each page inside the shared layout. Every page is parsed
// into its own set since all of them define the same "content" block.
type Templates struct {
	pages map[string]*template.Template
}

var _ gin_render.HTMLRender = (*Templates)(nil)

func New() (*Templates, error) {
	shared := []string{"templates/base.html", "templates/partials/*.html"}

	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	t := &Templates{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		name := path.Base(page)
		if name == "base.html" {
			continue
		}
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, append(shared, page)...)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		t.pages[name] = tmpl
	}
	return t, nil
}

func MustNew() *Templates {
	t, err := New()
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Templates) Instance(name string, data any) gin_render.Render {
	tmpl, ok := t.pages[name]
	if !ok {
		panic(fmt.Sprintf("template %q is not registered", name))
	}
	return gin_render.HTML{Template: tmpl, Name: layout, Data: data}
}

func NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", page(c, gin.H{"Path": c.Request.URL.Path}))
}

func ServerError(c *gin.Context) {
	c.HTML(http.StatusInternalServerError, "500.html", page(c, gin.H{}))
}

// Page merges the per-request values every layout needs into data.
func Page(c *gin.Context, data gin.H) gin.H {
	return page(c, data)
}

func page(c *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	if user, ok := c.Get(CurrentUserKey); ok {
		data["CurrentUser"] = user
	}
	return data
}

// CurrentUserKey is the gin context key the identity middleware stores the
// resolved *model.User under.
const CurrentUserKey = "current_user"

var funcs = template.FuncMap{
	"date": func(ts pgtype.Timestamptz) string {
		if !ts.Valid {
			return ""
		}
		return ts.Time.Format("02 Jan 2006 15:04")
	},
	"excerpt": func(p *model.Post, n int) string {
		return p.Excerpt(n)
	},
	"lines": func(s string) []string {
		return strings.Split(s, "\n")
	},
	"selected": func(value string, id int64) bool {
		return value == fmt.Sprint(id)
	},
}
