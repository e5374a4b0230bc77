// Package render renders jet templates as full pages or as htmx fragments,
// depending on the flag the annotator stored in the request locals.
package render

import (
	"bytes"
	"fmt"
	"net/http"
	"path"

	"github.com/CloudyKit/jet/v6"

	"github.com/go-kyugo/pagekit/locals"
	"github.com/go-kyugo/pagekit/middleware"
)

// Options configures a Renderer.
type Options struct {
	// Layout wraps every non-htmx page. The layout receives the page name in
	// the "pageTemplate" variable and is expected to {{ include pageTemplate . }}.
	Layout string
	// DevMode reloads templates on each render.
	DevMode bool
	// VaryHeader is added to Vary on every page. Defaults to HX-Request.
	VaryHeader string
}

type Renderer struct {
	views *jet.Set
	opts  Options
}

// New returns a Renderer reading templates from loader.
func New(loader jet.Loader, opts Options) *Renderer {
	var setOpts []jet.Option
	if opts.DevMode {
		setOpts = append(setOpts, jet.InDevelopmentMode())
	}
	if opts.VaryHeader == "" {
		opts.VaryHeader = middleware.HeaderHXRequest
	}
	if opts.Layout != "" {
		opts.Layout = templatePath(opts.Layout)
	}
	return &Renderer{views: jet.NewSet(loader, setOpts...), opts: opts}
}

// NewFromDir returns a Renderer reading templates from dir.
func NewFromDir(dir string, opts Options) *Renderer {
	return New(jet.NewOSFileSystemLoader(dir), opts)
}

func templatePath(name string) string {
	return path.Join("/", name)
}

// Vars returns the variables every template receives.
func Vars(r *http.Request) jet.VarMap {
	return make(jet.VarMap).
		Set("isHTMX", middleware.IsHTMX(r)).
		Set("locals", locals.FromRequest(r).All()).
		Set("request", r).
		Set("currentPath", r.URL.Path)
}

// Fragment reports whether r gets the page without its layout.
func (rd *Renderer) Fragment(r *http.Request) bool {
	return rd.opts.Layout == "" || middleware.IsHTMX(r)
}

// Render executes the page into a buffer, wrapped in the layout unless the
// request is an htmx request.
func (rd *Renderer) Render(r *http.Request, name string, data interface{}) ([]byte, error) {
	page := templatePath(name)
	vars := Vars(r).Set("pageTemplate", page)

	tplName := rd.opts.Layout
	if rd.Fragment(r) {
		tplName = page
	}

	t, err := rd.views.GetTemplate(tplName)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", tplName, err)
	}

	buf := new(bytes.Buffer)
	if err := t.Execute(buf, vars, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", page, err)
	}
	return buf.Bytes(), nil
}

// Write sends an already rendered page with the given status.
func (rd *Renderer) Write(w http.ResponseWriter, status int, b []byte) error {
	w.Header().Add("Vary", rd.opts.VaryHeader)
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	w.WriteHeader(status)
	_, err := w.Write(b)
	return err
}

// Page renders then writes the page. Nothing is written when rendering fails.
func (rd *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) error {
	b, err := rd.Render(r, name, data)
	if err != nil {
		return err
	}
	return rd.Write(w, status, b)
}
