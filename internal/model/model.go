// Package model contains the domain entities of the admin backend.
// These are pure domain models with no database-specific dependencies or tags;
// persistence mapping lives in repository/sqlstore and wire shapes in schema.
package model

// Status values shared by departments, users, roles and menus.
const (
	StatusDisabled = 0
	StatusEnabled  = 1
)

// Role data scopes.
const (
	DataScopeAll    = 1
	DataScopeCustom = 2
)

// Menu types.
const (
	MenuTypeDirectory = 0
	MenuTypeMenu      = 1
	MenuTypeButton    = 2
)
