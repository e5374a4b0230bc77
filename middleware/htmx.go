package middleware

import (
	"fmt"
	"net/http"
	"strings"

	v10 "github.com/go-playground/validator/v10"

	"github.com/go-kyugo/pagekit/locals"
)

const (
	// HeaderHXRequest is the header htmx sends with every request it issues.
	HeaderHXRequest = "HX-Request"
	// HXRequestTrue is the only value that marks a request as htmx.
	HXRequestTrue = "true"
)

// Options configures the request flag annotator.
type Options struct {
	// Header is the request header to inspect. Defaults to HX-Request.
	Header string `validate:"required,httptoken"`
	// Value is compared byte for byte with the header value. Defaults to "true".
	Value string `validate:"required,printascii"`
}

var validate = newValidator()

func newValidator() *v10.Validate {
	v := v10.New()
	_ = v.RegisterValidation("httptoken", func(fl v10.FieldLevel) bool {
		return isToken(fl.Field().String())
	})
	return v
}

// isToken reports whether s is an RFC 7230 token, the grammar of header names.
func isToken(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c > 0x7e || c <= 0x20 || strings.ContainsRune(`"(),/:;<=>?@[\]{}`, c) {
			return false
		}
	}
	return true
}

func (o Options) withDefaults() Options {
	if o.Header == "" {
		o.Header = HeaderHXRequest
	}
	if o.Value == "" {
		o.Value = HXRequestTrue
	}
	return o
}

// Annotator returns a middleware that sets locals.HTMX to whether the
// configured header equals the configured value, then calls next.
func Annotator(opts Options) (func(http.Handler) http.Handler, error) {
	opts = opts.withDefaults()
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid annotator options: %w", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l, r := locals.Ensure(r)
			l.HTMX = r.Header.Get(opts.Header) == opts.Value
			next.ServeHTTP(w, r)
		})
	}, nil
}

// MustAnnotator is like Annotator but panics on invalid options.
func MustAnnotator(opts Options) func(http.Handler) http.Handler {
	mw, err := Annotator(opts)
	if err != nil {
		panic(err)
	}
	return mw
}

// HTMX marks requests sent with "HX-Request: true".
var HTMX = MustAnnotator(Options{})

// IsHTMX reports the flag set by the annotator. It is false when the
// annotator did not run for r.
func IsHTMX(r *http.Request) bool {
	l := locals.FromRequest(r)
	return l != nil && l.HTMX
}
