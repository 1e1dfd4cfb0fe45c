// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite stores everything in a single file on disk. There is no network,
// no separate server process, and no installation beyond the driver, which
// makes it a convenient stand-in for the document store on a laptop.
//
// Records keep the same shape as the Mongo documents: a text id holding an
// ObjectID hex string and the three student fields. Phone uniqueness is a
// UNIQUE column constraint, checked by SQLite inside the INSERT / UPDATE.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"

	// Registers the "sqlite3" driver and exposes its error codes.
	"github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at path, creates the students table if it
// does not already exist, and returns a ready-to-use *SQLite.
func New(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent - safe to run on every
	// startup. rowid keeps insertion order for GetStudents.
	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS students (
			id      TEXT NOT NULL PRIMARY KEY,
			name    TEXT NOT NULL,
			address TEXT NOT NULL,
			phone   TEXT NOT NULL UNIQUE
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// CreateStudent inserts a new row into the students table.
// Values go through placeholders, never through string concatenation.
func (s *SQLite) CreateStudent(ctx context.Context, in types.StudentInput) (types.Student, error) {
	in, err := storage.Prepare(in)
	if err != nil {
		return types.Student{}, err
	}

	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO students (id, name, address, phone) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return types.Student{}, storage.Unavailable("CreateStudent: prepare", err)
	}
	defer stmt.Close()

	student := in.WithID(storage.NewID())
	if _, err := stmt.ExecContext(ctx, student.ID, student.Name, student.Address, student.Phone); err != nil {
		return types.Student{}, writeError("CreateStudent: exec", err)
	}

	return student, nil
}

// GetStudentByID fetches exactly one student row matched by id.
func (s *SQLite) GetStudentByID(ctx context.Context, id string) (types.Student, error) {
	if !storage.ValidID(id) {
		return types.Student{}, storage.ErrInvalidID
	}

	var student types.Student
	err := s.Db.QueryRowContext(ctx,
		"SELECT id, name, address, phone FROM students WHERE id = ? LIMIT 1", id,
	).Scan(&student.ID, &student.Name, &student.Address, &student.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, fmt.Errorf("GetStudentByID %s: %w", id, storage.ErrNotFound)
		}
		return types.Student{}, storage.Unavailable("GetStudentByID: scan", err)
	}

	return student, nil
}

// GetStudents returns all student rows in insertion order.
func (s *SQLite) GetStudents(ctx context.Context) ([]types.Student, error) {
	rows, err := s.Db.QueryContext(ctx,
		"SELECT id, name, address, phone FROM students ORDER BY rowid",
	)
	if err != nil {
		return nil, storage.Unavailable("GetStudents: query", err)
	}
	defer rows.Close()

	// Returning [] instead of null in JSON is better API behaviour.
	students := make([]types.Student, 0)

	for rows.Next() {
		var student types.Student
		if err := rows.Scan(&student.ID, &student.Name, &student.Address, &student.Phone); err != nil {
			return nil, storage.Unavailable("GetStudents: scan row", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, storage.Unavailable("GetStudents: rows iteration", err)
	}

	return students, nil
}

// UpdateStudentByID replaces a student's data with the provided values and
// returns the row as stored.
func (s *SQLite) UpdateStudentByID(ctx context.Context, id string, in types.StudentInput) (types.Student, error) {
	if !storage.ValidID(id) {
		return types.Student{}, storage.ErrInvalidID
	}
	in, err := storage.Prepare(in)
	if err != nil {
		return types.Student{}, err
	}

	result, err := s.Db.ExecContext(ctx,
		"UPDATE students SET name = ?, address = ?, phone = ? WHERE id = ?",
		in.Name, in.Address, in.Phone, id,
	)
	if err != nil {
		return types.Student{}, writeError("UpdateStudentByID: exec", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return types.Student{}, storage.Unavailable("UpdateStudentByID: rows affected", err)
	}
	if affected == 0 {
		return types.Student{}, fmt.Errorf("UpdateStudentByID %s: %w", id, storage.ErrNotFound)
	}

	// Re-fetch the record so we return exactly what is stored in the DB.
	return s.GetStudentByID(ctx, id)
}

// DeleteStudentByID removes a student row by id.
func (s *SQLite) DeleteStudentByID(ctx context.Context, id string) error {
	if !storage.ValidID(id) {
		return storage.ErrInvalidID
	}

	result, err := s.Db.ExecContext(ctx, "DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return storage.Unavailable("DeleteStudentByID: exec", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return storage.Unavailable("DeleteStudentByID: rows affected", err)
	}
	if affected == 0 {
		return fmt.Errorf("DeleteStudentByID %s: %w", id, storage.ErrNotFound)
	}

	return nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	if err := s.Db.PingContext(ctx); err != nil {
		return storage.Unavailable("Ping", err)
	}
	return nil
}

func (s *SQLite) Close(ctx context.Context) error {
	return s.Db.Close()
}

// writeError maps a failed INSERT / UPDATE. A UNIQUE violation can only come
// from the phone column: the id is generated and never collides.
func writeError(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%s: %w", op, storage.ErrDuplicatePhone)
	}
	return storage.Unavailable(op, err)
}
