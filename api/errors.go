package api

import "errors"

var (
	ErrIncompleteAuth   = errors.New("auth response is missing user or tokens")
	ErrEmptyValue       = errors.New("value must not be empty")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrInvalidCount     = errors.New("invite count must be positive")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrCommentRequired  = errors.New("comment is required when rejecting")
	ErrNoFiles          = errors.New("at least one file is required")
	ErrTooManyFiles     = errors.New("too many files")
	ErrInvalidFile      = errors.New("invalid upload file")
)
