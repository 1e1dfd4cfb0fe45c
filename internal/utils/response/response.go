// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client, and
// every error body has one of two shapes:
//
//	{ "error": "Student not found" }
//	{ "errors": ["Name is required", "Phone is required"] }
//
// The second shape is used only for validation failures, which report every
// failing rule at once.
package response

import (
	"net/http"

	"github.com/go-chi/render"
)

// Messages shared by handlers and middleware.
const (
	MsgInternal       = "Internal Server Error"
	MsgInvalidID      = "Invalid student ID"
	MsgNotFound       = "Student not found"
	MsgDuplicatePhone = "Phone number already exists"
	MsgDeleted        = "Student deleted successfully"
	MsgEmptyBody      = "request body is empty"
	MsgMalformedBody  = "request body must be a JSON object with string fields name, address and phone"
)

// Error is the single-error body.
type Error struct {
	Error string `json:"error"`
}

// Errors is the batch validation body.
type Errors struct {
	Errors []string `json:"errors"`
}

// Message is the body of a successful operation with nothing to echo back.
type Message struct {
	Message string `json:"message"`
}

// WriteJSON writes data as JSON with the given HTTP status code.
// render sets Content-Type: application/json and writes the status before
// the body.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	render.Status(r, status)
	render.JSON(w, r, data)
}

// GeneralError wraps a human-readable message into the single-error shape.
func GeneralError(message string) Error {
	return Error{Error: message}
}

// ValidationError wraps the failing rule messages into the batch shape.
func ValidationError(messages []string) Errors {
	return Errors{Errors: messages}
}
