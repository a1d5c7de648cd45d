// Package security issues and verifies JWTs backed by a Redis token store,
// hashes passwords and enforces role-menu permissions.
package security

import "errors"

var (
	ErrTokenInvalid     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token has expired")
	ErrPermissionDenied = errors.New("permission denied")
)
