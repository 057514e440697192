package domain

import "errors"

var (
	// ErrInternalServerError will throw if any Internal Server Error happens
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item does not exist
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")
	// ErrUnavailable will throw if a backing store is not ready to serve;
	// callers may retry
	ErrUnavailable = errors.New("Service is temporarily unavailable")

	ErrInvalidStatus     = errors.New("invalid listing status")
	ErrInvalidJsonFormat = errors.New("invalid JSON format")
	ErrTooManyFiles      = errors.New("too many uploaded files")
)
