package file

import "errors"

var (
	ErrInvalidKey      = errors.New("invalid session key")
	ErrCreateDirectory = errors.New("failed to create session directory")
	ErrWriteRecord     = errors.New("failed to write session record")
	ErrReadRecord      = errors.New("failed to read session record")
)
