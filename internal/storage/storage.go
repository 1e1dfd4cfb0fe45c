// Package storage defines the Storage interface - a contract that any
// database backend must satisfy to work with this application - and the
// typed errors every backend reports through.
//
// Handlers depend only on this package. They never see a driver error:
// each backend translates its own failure shapes (a Mongo write exception,
// a SQLite constraint code, a map lookup miss) into the errors below, and
// the handler matches them with errors.Is / errors.As.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrInvalidID is returned when an id is not a well-formed identifier.
	ErrInvalidID = errors.New("invalid student id")

	// ErrNotFound is returned when a well-formed id matches no record.
	ErrNotFound = errors.New("student not found")

	// ErrDuplicatePhone is returned when a write would give two records the
	// same phone number. Backends detect it from their own unique constraint
	// at write time; nobody checks with a read first.
	ErrDuplicatePhone = errors.New("phone number already exists")

	// ErrUnavailable wraps any other fault of the underlying store.
	ErrUnavailable = errors.New("storage unavailable")
)

// ValidationError is returned by CreateStudent / UpdateStudentByID when the
// input violates the data model. Handlers validate first, so reaching it
// means a caller skipped that step.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid student: " + strings.Join(e.Messages, "; ")
}

// Storage is the database contract.
// Any concrete type that implements ALL of these methods automatically
// satisfies this interface.
type Storage interface {
	// GetStudents returns every student, in the backend's natural order.
	// Returns an empty slice (not nil) if there are no students.
	GetStudents(ctx context.Context) ([]types.Student, error)

	// GetStudentByID fetches a single student.
	// ErrInvalidID for a malformed id, ErrNotFound for an unknown one.
	GetStudentByID(ctx context.Context, id string) (types.Student, error)

	// CreateStudent persists a new student and assigns its id.
	CreateStudent(ctx context.Context, in types.StudentInput) (types.Student, error)

	// UpdateStudentByID replaces name, address and phone of an existing
	// student and returns the record as stored after the update.
	UpdateStudentByID(ctx context.Context, id string, in types.StudentInput) (types.Student, error)

	// DeleteStudentByID removes a student permanently. Deleting an id that
	// does not exist reports ErrNotFound.
	DeleteStudentByID(ctx context.Context, id string) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the connection handle.
	Close(ctx context.Context) error
}

// NewID returns a fresh identifier in the format every backend uses.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id is a well-formed identifier.
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// Prepare normalizes in and validates the result, so the value it returns is
// exactly what gets persisted and satisfies every rule.
// Backends call it first thing in every write.
func Prepare(in types.StudentInput) (types.StudentInput, error) {
	in = in.Normalized()
	if messages := validation.Student(in); messages != nil {
		return types.StudentInput{}, &ValidationError{Messages: messages}
	}
	return in, nil
}

// Unavailable wraps a driver error so it matches ErrUnavailable while keeping
// the driver error in the chain for logging.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
