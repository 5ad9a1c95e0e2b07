package poicontent

import (
	"context"
	"io"
	"time"
)

// FileStore defines the interface for uploaded-file storage backends.
type FileStore interface {
	// Upload stores the content of reader under key.
	Upload(ctx context.Context, key string, reader io.Reader) error

	// Download opens the stored file for reading.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the stored file. A missing file yields ErrFileNotFound.
	Delete(ctx context.Context, key string) error

	// GetMeta retrieves metadata for a stored file.
	GetMeta(ctx context.Context, key string) (*FileMeta, error)
}

// FileMeta contains metadata about a stored file.
type FileMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
}

// Repository defines the interface for row persistence.
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, name string) (*User, error)
	CreateAdmin(ctx context.Context, name string) error
	IsAdmin(ctx context.Context, name string) (bool, error)

	// Content operations. CreateContent assigns the numeric id.
	CreateContent(ctx context.Context, content *Content) error
	GetContent(ctx context.Context, id int64) (*Content, error)
	GetContentByPendingFilename(ctx context.Context, filename string) (*Content, error)
	UpdateContent(ctx context.Context, content *Content) error
	DeleteContent(ctx context.Context, id int64) error
	ListContent(ctx context.Context, limit, offset int) ([]*Content, int, error)

	// Like operations
	UpsertLike(ctx context.Context, like *Like) error
	DeleteLikesForContent(ctx context.Context, contentID int64) error
	TallyLikes(ctx context.Context, contentID int64) (Tally, error)
}
