package poicontent

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrUnauthenticated indicates missing or invalid credentials.
	ErrUnauthenticated = errors.New("invalid username or password")

	// ErrForbidden indicates an authenticated caller without entitlement.
	ErrForbidden = errors.New("not the owner of that content")

	// ErrFieldNotModifiable indicates a modification touching a field outside
	// the mutable set.
	ErrFieldNotModifiable = errors.New("field not modifiable")

	// ErrMissingContent indicates a creation with neither a comment nor an
	// upload announcement.
	ErrMissingContent = errors.New("missing content")

	// ErrUnexpectedUpload indicates an upload bind against a token no content
	// is waiting for. Deliberately indistinguishable from a consumed token.
	ErrUnexpectedUpload = errors.New("not expected file")

	// ErrUnsupportedFileType indicates an upload with a disallowed extension.
	ErrUnsupportedFileType = errors.New("file type not allowed")

	// ErrPayloadTooLarge indicates an upload exceeding the configured ceiling.
	ErrPayloadTooLarge = errors.New("upload exceeds size limit")

	// ErrContentNotFound indicates a content row was not found.
	ErrContentNotFound = errors.New("content not found")

	// ErrUserNotFound indicates a user was not found.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists indicates a registration against a taken name.
	ErrUserExists = errors.New("username already taken")

	// ErrInvalidEmail indicates a registration email failing the address check.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrInvalidRegistration indicates a registration missing name or password.
	ErrInvalidRegistration = errors.New("missing username or password")

	// ErrFileNotFound indicates a stored file was not found. Deletion treats
	// it as a no-op.
	ErrFileNotFound = errors.New("file not found")
)

// ContentError represents an error related to content operations
type ContentError struct {
	ContentID int64
	Op        string
	Err       error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("content operation %s failed for content %d: %v", e.Op, e.ContentID, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to stored-file operations
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
