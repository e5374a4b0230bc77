package controllers

import (
	"net/http"
	"sync/atomic"

	"github.com/go-kyugo/pagekit"
)

type counter struct {
	Count int64
}

type Pages struct {
	clicks atomic.Int64
}

func NewPages() *Pages { return &Pages{} }

func (p *Pages) Init(*pagekit.Server) {}

func (p *Pages) Home(resp *pagekit.Response, req *pagekit.Request) {
	resp.Page(http.StatusOK, "home.jet", struct{ Title string }{"Welcome"})
}

func (p *Pages) Counter(resp *pagekit.Response, req *pagekit.Request) {
	resp.Page(http.StatusOK, "counter.jet", counter{Count: p.clicks.Load()})
}

// Increment only makes sense from the button, so plain requests get redirected.
func (p *Pages) Increment(resp *pagekit.Response, req *pagekit.Request) {
	n := p.clicks.Add(1)
	if !req.IsHTMX() {
		http.Redirect(resp.W, req.R, "/counter", http.StatusSeeOther)
		return
	}
	resp.Page(http.StatusOK, "counter.jet", counter{Count: n})
}

func (p *Pages) RegisterRoutes(r *pagekit.Router) {
	r.Get("/", p.Home)
	r.Get("/counter", p.Counter)
	r.Post("/counter", p.Increment)
}
