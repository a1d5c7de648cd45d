// Package repository contains the CRUD layer abstractions. Implementations
// live in subpackages (sqlstore) and contain no business logic.
//
// Lookups of a missing row return sql.ErrNoRows unwrapped so callers can map
// it; unique constraint violations are reported as ErrDuplicate.
package repository

import "errors"

// ErrDuplicate is returned when an insert or update violates a unique key.
var ErrDuplicate = errors.New("duplicate record")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// DeptFilter narrows department listings. Empty strings and nil values are ignored.
type DeptFilter struct {
	Name   string
	Leader string
	Phone  string
	Status *int
}

type UserFilter struct {
	DeptID   *int64
	Username string
	Phone    string
	Status   *int
}

type RoleFilter struct {
	Name   string
	Status *int
}

type MenuFilter struct {
	Title  string
	Status *int
}
