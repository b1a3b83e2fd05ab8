package errors

import "errors"

var (
	ErrAdminOnly       = errors.New("admin only")
	ErrInvalidIdentity = errors.New("invalid identity")
	ErrInvalidRole     = errors.New("invalid role")
)
