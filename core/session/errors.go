package session

import "errors"

var (
	// ErrNotFound is returned by a Store when no record exists under the key.
	ErrNotFound = errors.New("session record not found")
	// ErrInvalidRecord is returned when a persisted record cannot be decoded.
	ErrInvalidRecord = errors.New("invalid session record")
	// ErrInconsistentRecord is returned when a decoded record holds a partial session
	// (tokens without a user or a user without tokens).
	ErrInconsistentRecord = errors.New("inconsistent session record")
	// ErrLoadSession is returned when the Store fails to read the record.
	ErrLoadSession = errors.New("failed to load session")
	// ErrSaveSession is returned when the Store fails to write the record.
	ErrSaveSession = errors.New("failed to save session")
	// ErrInvalidEncryptionKey is returned when an EncryptedStore is given a bad key.
	ErrInvalidEncryptionKey = errors.New("invalid session encryption key")
)
