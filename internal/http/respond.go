// Package http provides the JSON API server and handler implementations.
//
// This file implements the Builder Pattern for constructing API responses.
// It provides a fluent API for setting status, headers and bodies, plus
// constructors for the error shapes every handler shares.

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/core"
	applog "github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/log"
)

// ResponseBuilder provides a fluent API for building API responses.
type ResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       []byte
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the response body as raw bytes.
func (b *ResponseBuilder) Body(content []byte) *ResponseBuilder {
	b.body = content
	return b
}

// JSON marshals v as the response body and sets the JSON content type.
// A marshal failure downgrades the response to a generic 500.
func (b *ResponseBuilder) JSON(v any) *ResponseBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal response body", "error", err)
		b.statusCode = http.StatusInternalServerError
		b.headers["Content-Type"] = "application/json"
		b.body = []byte(`{"error":"internal server error"}`)
		return b
	}
	b.headers["Content-Type"] = "application/json"
	b.body = data
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// MessageResponse creates a 200 response with a {"message": ...} body.
func MessageResponse(message string) *ResponseBuilder {
	return NewResponse().JSON(map[string]string{"message": message})
}

// ErrorResponse creates an error response with an {"error": ...} body.
func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	return NewResponse().Status(statusCode).JSON(map[string]string{"error": message})
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// ValidationError creates a 400 response listing every failed field:
//
//	{"error": "validation failed", "fields": [{"field": ..., "message": ...}]}
func ValidationError(fields []core.FieldError) *ResponseBuilder {
	return NewResponse().Status(http.StatusBadRequest).JSON(map[string]any{
		"error":  "validation failed",
		"fields": fields,
	})
}

// UnauthorizedError creates a 401 error response.
func UnauthorizedError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusUnauthorized, message)
}

// ForbiddenError creates a 403 error response.
func ForbiddenError() *ResponseBuilder {
	return ErrorResponse(http.StatusForbidden, "forbidden")
}

// NotFoundError creates a 404 error response.
func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

// InternalError logs the cause and creates a generic 500 response. The cause
// never reaches the client.
func InternalError(r *http.Request, cause error) *ResponseBuilder {
	applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", cause)
	return ErrorResponse(http.StatusInternalServerError, "internal server error")
}
