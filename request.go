package pagekit

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-kyugo/pagekit/locals"
	"github.com/go-kyugo/pagekit/middleware"
)

// Request wraps *http.Request with helpers used by handlers.
type Request struct {
	R *http.Request
}

func NewRequest(r *http.Request) *Request {
	return &Request{R: r}
}

// Param returns a URL parameter value by name.
func (r *Request) Param(name string) string {
	if r == nil || r.R == nil {
		return ""
	}
	return Param(r.R, name)
}

// IsHTMX reports whether the request was issued by htmx.
func (r *Request) IsHTMX() bool {
	if r == nil || r.R == nil {
		return false
	}
	return middleware.IsHTMX(r.R)
}

// Locals returns the per-request locals, or nil outside of a pagekit server.
func (r *Request) Locals() *locals.Locals {
	if r == nil {
		return nil
	}
	return locals.FromRequest(r.R)
}

// BindJSON decodes the request body into v.
func (r *Request) BindJSON(v any) error {
	if r == nil || r.R == nil {
		return errors.New("nil request")
	}
	return json.NewDecoder(r.R.Body).Decode(v)
}

func (r *Request) Method() string {
	if r == nil || r.R == nil {
		return ""
	}
	return r.R.Method
}

func (r *Request) Path() string {
	if r == nil || r.R == nil {
		return ""
	}
	return r.R.URL.Path
}
