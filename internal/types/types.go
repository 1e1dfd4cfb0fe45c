// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles -
// handlers, storage, and validation can all import types without
// depending on each other.
package types

import "strings"

// Student represents a persisted student record.
//
// ID is assigned by the storage backend on creation and never changes
// afterwards. It is always a 24-character hexadecimal ObjectID, whichever
// backend produced it.
type Student struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// StudentInput is the client-supplied part of a Student: the body of a
// create or update request. It carries no ID because clients never pick one.
//
// There are no validate struct tags here: struct validation stops at the
// first failing tag per field, and the API reports every failing rule.
// See validation.Student for the rule lists.
type StudentInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Normalized returns a copy of the input with surrounding whitespace removed
// from name and address. Validation runs on this copy. Phone is constrained
// to digits by validation and is left untouched.
func (in StudentInput) Normalized() StudentInput {
	return StudentInput{
		Name:    strings.TrimSpace(in.Name),
		Address: strings.TrimSpace(in.Address),
		Phone:   in.Phone,
	}
}

// WithID builds the Student that results from persisting in under id.
func (in StudentInput) WithID(id string) Student {
	return Student{
		ID:      id,
		Name:    in.Name,
		Address: in.Address,
		Phone:   in.Phone,
	}
}
