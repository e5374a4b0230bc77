package pagekit

import (
	"net/http"
)

// Adapt converts a func(*Response, *Request) into an http.HandlerFunc.
func Adapt(h func(*Response, *Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(NewResponse(w, r), NewRequest(r))
	}
}
