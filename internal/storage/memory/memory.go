// Package memory provides an in-process implementation of storage.Storage.
//
// Records live in a map for the lifetime of the process. It is meant for
// local development and tests; nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

// Memory keeps students in insertion order. The phone index is maintained
// under the same write lock as the records, so the uniqueness check and the
// write happen atomically.
type Memory struct {
	mu       sync.RWMutex
	students map[string]types.Student
	order    []string
	phones   map[string]string // phone -> id
}

// New returns an empty store.
func New() *Memory {
	return &Memory{
		students: make(map[string]types.Student),
		phones:   make(map[string]string),
	}
}

func (m *Memory) GetStudents(ctx context.Context) ([]types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	students := make([]types.Student, 0, len(m.order))
	for _, id := range m.order {
		students = append(students, m.students[id])
	}
	return students, nil
}

func (m *Memory) GetStudentByID(ctx context.Context, id string) (types.Student, error) {
	if !storage.ValidID(id) {
		return types.Student{}, storage.ErrInvalidID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	student, ok := m.students[id]
	if !ok {
		return types.Student{}, fmt.Errorf("GetStudentByID %s: %w", id, storage.ErrNotFound)
	}
	return student, nil
}

func (m *Memory) CreateStudent(ctx context.Context, in types.StudentInput) (types.Student, error) {
	in, err := storage.Prepare(in)
	if err != nil {
		return types.Student{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.phones[in.Phone]; taken {
		return types.Student{}, fmt.Errorf("CreateStudent: %w", storage.ErrDuplicatePhone)
	}

	student := in.WithID(storage.NewID())
	m.students[student.ID] = student
	m.order = append(m.order, student.ID)
	m.phones[student.Phone] = student.ID

	return student, nil
}

func (m *Memory) UpdateStudentByID(ctx context.Context, id string, in types.StudentInput) (types.Student, error) {
	if !storage.ValidID(id) {
		return types.Student{}, storage.ErrInvalidID
	}
	in, err := storage.Prepare(in)
	if err != nil {
		return types.Student{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.students[id]
	if !ok {
		return types.Student{}, fmt.Errorf("UpdateStudentByID %s: %w", id, storage.ErrNotFound)
	}
	if owner, taken := m.phones[in.Phone]; taken && owner != id {
		return types.Student{}, fmt.Errorf("UpdateStudentByID %s: %w", id, storage.ErrDuplicatePhone)
	}

	delete(m.phones, current.Phone)
	updated := in.WithID(id)
	m.students[id] = updated
	m.phones[updated.Phone] = id

	return updated, nil
}

func (m *Memory) DeleteStudentByID(ctx context.Context, id string) error {
	if !storage.ValidID(id) {
		return storage.ErrInvalidID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	student, ok := m.students[id]
	if !ok {
		return fmt.Errorf("DeleteStudentByID %s: %w", id, storage.ErrNotFound)
	}

	delete(m.students, id)
	delete(m.phones, student.Phone)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	return nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Close(ctx context.Context) error { return nil }
