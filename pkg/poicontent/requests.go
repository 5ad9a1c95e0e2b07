package poicontent

import "io"

// Request/Response DTOs

// RegisterUserRequest contains parameters for registering a user.
type RegisterUserRequest struct {
	Name     string `json:"name"`
	Password string `json:"psw"`
	Email    string `json:"email"`
}

// CreateContentRequest contains parameters for creating content. At least one
// of Comment or UploadAnnouncement must be present.
type CreateContentRequest struct {
	POI                int64  `json:"poi"`
	Comment            string `json:"comment"`
	UploadAnnouncement bool   `json:"upload_announcement"`
}

// UpdateContentRequest contains the mutable fields of a content row. A nil
// pointer leaves the field unchanged. Fields lists every field name present
// in the inbound request, including unknown ones, so the guard can reject
// modifications outside the mutable schema.
type UpdateContentRequest struct {
	ContentID       int64
	Comment         *string
	FileDescription *string
	Fields          []string
}

// ListContentRequest contains pagination parameters for listing content.
// A zero Page means the first page; a zero PerPage means the default size.
type ListContentRequest struct {
	Page    int
	PerPage int
}

// RecordLikeRequest contains parameters for recording a like/unlike vote.
type RecordLikeRequest struct {
	ContentID int64 `json:"content_id"`
	DoLike    bool  `json:"do_like"`
}

// FileOpener hands the uploaded file to BindUpload once authorization has
// passed. It returns the client-supplied file name and the data stream.
// An error wrapping ErrPayloadTooLarge voids the announcement.
type FileOpener func() (name string, data io.ReadCloser, err error)
