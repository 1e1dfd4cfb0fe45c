// Package student contains all HTTP handlers related to the Student resource.
//
// Each exported function is a factory: it receives the storage dependency
// once, at route registration, and returns the http.HandlerFunc that runs on
// every request. The returned closure keeps access to storage.
//
//	r.Post("/", student.New(storage))
//
// Handlers validate input before touching storage and translate the typed
// storage errors into status codes in one place, writeStorageError.
package student

import (
	"errors"
	"io"
	"net/http"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/utils/response"
	"github.com/aanand-mishra/student-records/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"
)

// New handles POST /api/students (and POST /api/students/student).
//
// Request body (JSON):
//
//	{ "name": "Asha Rao", "address": "12 MG Road, Pune", "phone": "9876543210" }
//
// Success response (201 Created): the stored student, including its id.
//
// Error responses:
//
//	400 Bad Request  - empty body, malformed JSON, or failed validation
//	409 Conflict     - phone already used by another student
//	500 Internal     - database error
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := zerolog.Ctx(r.Context())
		log.Debug().Msg("creating a student")

		in, ok := decodeInput(w, r)
		if !ok {
			return
		}

		student, err := storage.CreateStudent(r.Context(), in)
		if err != nil {
			writeStorageError(w, r, err)
			return
		}

		log.Info().Str("id", student.ID).Msg("student created")
		response.WriteJSON(w, r, http.StatusCreated, student)
	}
}

// GetByID handles GET /api/students/{id}.
//
// Error responses:
//
//	400 Bad Request  - id is not a valid identifier
//	404 Not Found    - no student with this id
//	500 Internal     - database error
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		zerolog.Ctx(r.Context()).Debug().Str("id", id).Msg("getting a student")

		student, err := storage.GetStudentByID(r.Context(), id)
		if err != nil {
			writeStorageError(w, r, err)
			return
		}

		response.WriteJSON(w, r, http.StatusOK, student)
	}
}

// GetList handles GET /api/students.
// Returns an empty array [] (not null) when there are no students.
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Debug().Msg("getting all students")

		students, err := storage.GetStudents(r.Context())
		if err != nil {
			writeStorageError(w, r, err)
			return
		}

		response.WriteJSON(w, r, http.StatusOK, students)
	}
}

// Update handles PUT /api/students/{id}.
// All three fields are required; they replace the stored ones and the
// response carries the student as stored after the update.
//
// Error responses:
//
//	400 Bad Request  - invalid id, empty body, or validation failure
//	404 Not Found    - no student with this id
//	409 Conflict     - phone already used by another student
//	500 Internal     - database error
func Update(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		log := zerolog.Ctx(r.Context())
		log.Debug().Str("id", id).Msg("updating a student")

		in, ok := decodeInput(w, r)
		if !ok {
			return
		}

		updated, err := storage.UpdateStudentByID(r.Context(), id, in)
		if err != nil {
			writeStorageError(w, r, err)
			return
		}

		log.Info().Str("id", id).Msg("student updated")
		response.WriteJSON(w, r, http.StatusOK, updated)
	}
}

// Delete handles DELETE /api/students/{id}.
// Permanently removes a student; deleting a missing id is a 404.
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		log := zerolog.Ctx(r.Context())
		log.Debug().Str("id", id).Msg("deleting a student")

		if err := storage.DeleteStudentByID(r.Context(), id); err != nil {
			writeStorageError(w, r, err)
			return
		}

		log.Info().Str("id", id).Msg("student deleted")
		response.WriteJSON(w, r, http.StatusOK, response.Message{Message: response.MsgDeleted})
	}
}

// decodeInput reads, trims and validates the request body. When it returns false
// the 400 response has already been written.
func decodeInput(w http.ResponseWriter, r *http.Request) (types.StudentInput, bool) {
	var in types.StudentInput

	err := render.DecodeJSON(r.Body, &in)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, r, http.StatusBadRequest, response.GeneralError(response.MsgEmptyBody))
		return in, false
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("malformed request body")
		response.WriteJSON(w, r, http.StatusBadRequest, response.GeneralError(response.MsgMalformedBody))
		return in, false
	}

	// Rules apply to the trimmed values, the ones that end up stored.
	in = in.Normalized()
	if messages := validation.Student(in); messages != nil {
		response.WriteJSON(w, r, http.StatusBadRequest, response.ValidationError(messages))
		return in, false
	}

	return in, true
}

// writeStorageError maps the storage error taxonomy to HTTP. Only
// unexpected failures are logged at error level; their details never reach
// the client.
func writeStorageError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *storage.ValidationError

	switch {
	case errors.As(err, &validationErr):
		response.WriteJSON(w, r, http.StatusBadRequest, response.ValidationError(validationErr.Messages))
	case errors.Is(err, storage.ErrInvalidID):
		response.WriteJSON(w, r, http.StatusBadRequest, response.GeneralError(response.MsgInvalidID))
	case errors.Is(err, storage.ErrNotFound):
		response.WriteJSON(w, r, http.StatusNotFound, response.GeneralError(response.MsgNotFound))
	case errors.Is(err, storage.ErrDuplicatePhone):
		response.WriteJSON(w, r, http.StatusConflict, response.GeneralError(response.MsgDuplicatePhone))
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("storage failure")
		response.WriteJSON(w, r, http.StatusInternalServerError, response.GeneralError(response.MsgInternal))
	}
}
