package render_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/CloudyKit/jet/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-kyugo/pagekit/locals"
	"github.com/go-kyugo/pagekit/middleware"
	"github.com/go-kyugo/pagekit/render"
)

type pageData struct {
	Title string
}

func newLoader() *jet.InMemLoader {
	loader := jet.NewInMemLoader()
	loader.Set("/layout.jet", `<html>{{ include pageTemplate . }}</html>`)
	loader.Set("/page.jet", `<p>{{ .Title }}</p>`)
	loader.Set("/flag.jet", `{{ if isHTMX }}fragment{{ else }}full{{ end }}`)
	loader.Set("/locals.jet", `{{ locals["user"] }} {{ currentPath }}`)
	return loader
}

// serve renders name through the locals and annotator middlewares.
func serve(t *testing.T, rd *render.Renderer, name string, data interface{}, htmx bool) *httptest.ResponseRecorder {
	t.Helper()
	h := locals.Middleware(middleware.HTMX(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locals.FromRequest(r).Set("user", "alice")
		require.NoError(t, rd.Page(w, r, http.StatusOK, name, data))
	})))

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPageFullAndFragment(t *testing.T) {
	rd := render.New(newLoader(), render.Options{Layout: "layout.jet"})

	rec := serve(t, rd, "page.jet", pageData{Title: "Hi"}, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html><p>Hi</p></html>", rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "HX-Request", rec.Header().Get("Vary"))

	rec = serve(t, rd, "page.jet", pageData{Title: "Hi"}, true)
	assert.Equal(t, "<p>Hi</p>", rec.Body.String())
	assert.Equal(t, "HX-Request", rec.Header().Get("Vary"))
}

func TestTemplatesSeeFlag(t *testing.T) {
	rd := render.New(newLoader(), render.Options{})

	assert.Equal(t, "full", serve(t, rd, "flag.jet", nil, false).Body.String())
	assert.Equal(t, "fragment", serve(t, rd, "flag.jet", nil, true).Body.String())
}

func TestTemplatesSeeLocals(t *testing.T) {
	rd := render.New(newLoader(), render.Options{})
	assert.Equal(t, "alice /home", serve(t, rd, "locals.jet", nil, false).Body.String())
}

func TestMissingTemplate(t *testing.T) {
	rd := render.New(newLoader(), render.Options{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	err := rd.Page(rec, req, http.StatusOK, "nope.jet", nil)

	require.Error(t, err)
	assert.Zero(t, rec.Body.Len())
	assert.Empty(t, rec.Header().Get("Content-Type"))
}

func TestFragmentWithoutAnnotator(t *testing.T) {
	rd := render.New(newLoader(), render.Options{Layout: "/layout.jet"})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Request", "true")
	assert.False(t, rd.Fragment(req))
}

func TestNewFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.jet"), []byte(`hello {{ .Title }}`), 0o600))

	rd := render.NewFromDir(dir, render.Options{DevMode: true})
	b, err := rd.Render(httptest.NewRequest(http.MethodGet, "/", nil), "hello.jet", pageData{Title: "you"})
	require.NoError(t, err)
	assert.Equal(t, "hello you", string(b))
}

func TestExampleViews(t *testing.T) {
	rd := render.NewFromDir("../example/views", render.Options{Layout: "layout.jet"})

	full := serve(t, rd, "home.jet", pageData{Title: "Welcome"}, false).Body.String()
	assert.Contains(t, full, "<!doctype html>")
	assert.Contains(t, full, "<main><h1>Welcome</h1>")
	assert.Contains(t, full, "Rendered as a full page.")

	fragment := serve(t, rd, "home.jet", pageData{Title: "Welcome"}, true).Body.String()
	assert.NotContains(t, fragment, "<html")
	assert.Contains(t, fragment, "<h1>Welcome</h1>")
	assert.Contains(t, fragment, "Rendered as a fragment.")

	counter := serve(t, rd, "counter.jet", struct{ Count int }{3}, true).Body.String()
	assert.Contains(t, counter, "Clicks: 3")
}

func TestWriteSetsHeadersOnce(t *testing.T) {
	rd := render.New(newLoader(), render.Options{VaryHeader: "X-Partial"})

	rec := httptest.NewRecorder()
	rec.Header().Set("Content-Type", "text/plain")
	require.NoError(t, rd.Write(rec, http.StatusCreated, []byte("ok")))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	assert.Equal(t, "X-Partial", rec.Header().Get("Vary"))
	assert.Equal(t, "ok", rec.Body.String())
}
