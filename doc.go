// Package pagekit is a small chi-based server kit for htmx driven pages.
//
// Every request served by a pagekit Server carries per-request locals
// (see package locals) on which the htmx annotator records whether the
// request was sent with "HX-Request: true". Handlers read the flag with
// Request.IsHTMX and Response.Page renders a fragment instead of the full
// layout when it is set.
package pagekit
