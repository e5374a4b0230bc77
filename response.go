package pagekit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-kyugo/pagekit/logger"
	"github.com/go-kyugo/pagekit/render"
)

type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorBody struct {
	Type    string        `json:"type"`
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Fields  []ErrorDetail `json:"fields,omitempty"`
}

type ErrorEnvelope struct {
	Status string    `json:"status"`
	Code   int       `json:"code"`
	Error  ErrorBody `json:"error"`
}

type SuccessEnvelope struct {
	Status  string      `json:"status"`
	Code    int         `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// ErrNoRenderer is returned by Response.Page outside of a server with views.
var ErrNoRenderer = errors.New("no renderer configured")

type ctxKey string

const rendererKey ctxKey = "pagekit.renderer"

func withRenderer(ctx context.Context, rd *render.Renderer) context.Context {
	return context.WithValue(ctx, rendererKey, rd)
}

// RendererFrom returns the renderer the server attached to r, or nil.
func RendererFrom(r *http.Request) *render.Renderer {
	rd, _ := r.Context().Value(rendererKey).(*render.Renderer)
	return rd
}

// Response wraps http.ResponseWriter and the current request.
type Response struct {
	W http.ResponseWriter
	R *http.Request
}

func NewResponse(w http.ResponseWriter, r *http.Request) *Response {
	return &Response{W: w, R: r}
}

// JSON writes a success envelope for 2xx statuses and an error envelope otherwise.
func (resp *Response) JSON(status int, message string, v interface{}) {
	if status >= 200 && status < 300 {
		SuccessResponse(resp.W, status, message, v)
		return
	}
	ErrorResponse(resp.W, status, "HTTP_ERROR", http.StatusText(status), message, nil)
}

// Page renders the named template, as a fragment for htmx requests.
// Rendering failures are logged and answered with a 500 error envelope.
// A failure while writing the rendered page is only logged since the
// status line is already sent.
func (resp *Response) Page(status int, name string, data interface{}) {
	rd := RendererFrom(resp.R)
	if rd == nil {
		resp.renderFailed(name, ErrNoRenderer)
		return
	}
	b, err := rd.Render(resp.R, name, data)
	if err != nil {
		resp.renderFailed(name, err)
		return
	}
	if err := rd.Write(resp.W, status, b); err != nil {
		logger.Warn("Response.Page write", logger.Fields{"template": name, "err": err.Error()})
	}
}

func (resp *Response) renderFailed(name string, err error) {
	logger.Error("Response.Page", logger.Fields{"template": name, "err": err.Error()})
	ErrorResponse(resp.W, http.StatusInternalServerError, "INTERNAL_ERROR", "RENDER_ERROR", "Internal Server Error", nil)
}

func SuccessResponse(w http.ResponseWriter, code int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(SuccessEnvelope{Status: "success", Code: code, Message: message, Data: data})
}

// ErrorResponse writes the error envelope. details end up under error.fields.
func ErrorResponse(w http.ResponseWriter, code int, _type, _code, message string, details []ErrorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	eb := ErrorBody{Type: _type, Code: _code, Message: message, Fields: details}
	_ = json.NewEncoder(w).Encode(ErrorEnvelope{Status: "error", Code: code, Error: eb})
}
