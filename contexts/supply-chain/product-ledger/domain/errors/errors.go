package errors

import "errors"

var (
	ErrInvalidProductID           = errors.New("invalid product id")
	ErrInvalidRecipient           = errors.New("invalid recipient")
	ErrInvalidViewer              = errors.New("invalid viewer")
	ErrRoleMismatch               = errors.New("caller role mismatch")
	ErrProductAlreadyExists       = errors.New("product already exists")
	ErrProductNotFound            = errors.New("product not found")
	ErrNotOwner                   = errors.New("caller is not the current owner")
	ErrNoPendingTransferForCaller = errors.New("no pending transfer for caller")
	ErrTransferAlreadyPending     = errors.New("transfer already pending")
	ErrUnauthorized               = errors.New("unauthorized")
)
