package poicontent

import (
	"path/filepath"
	"strings"
)

// ContentStatus is the domain type for content lifecycle states.
type ContentStatus string

// Content status constants (typed).
const (
	// ContentStatusAnnounced means a token was issued and a file upload is
	// still expected for this content.
	ContentStatusAnnounced ContentStatus = "announced"
	// ContentStatusBound means the announced file has been uploaded and bound.
	ContentStatusBound ContentStatus = "bound"
	// ContentStatusCommented is the terminal state for comment-only content.
	ContentStatusCommented ContentStatus = "commented"
)

// User is a registered account. The name is the primary key and immutable
// once created. PasswordHash holds a bcrypt hash and is never serialized.
type User struct {
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	Email        string `json:"email"`
	CreationTime int64  `json:"creation_time"`
}

// Admin marks a user name as holding elevated privilege. An Admin row always
// references an existing User.
type Admin struct {
	Name string `json:"name"`
}

// Content is a comment and/or file attached to a point-of-interest reference.
//
// POI > 0 denotes a finding, POI < 0 an intervention; the sign encodes a
// category, not a foreign key. While an upload is pending, Filename holds the
// decimal upload token as a placeholder; after a successful bind it holds the
// final token-derived name ("<token><ext>").
type Content struct {
	ID              int64         `json:"id"`
	POI             int64         `json:"poi"`
	Owner           string        `json:"user"`
	CreationTime    int64         `json:"creation_time"`
	Comment         string        `json:"comment,omitempty"`
	Filename        string        `json:"filename,omitempty"`
	FileDescription string        `json:"file_description,omitempty"`
	PhotoThumb      string        `json:"photo_thumb,omitempty"`
	Status          ContentStatus `json:"status"`

	// UploadToken is only set on the response to a creation that announced
	// an upload. It is not persisted as a separate column.
	UploadToken int64 `json:"upload_token,omitempty"`
}

// Like is a single user's vote on a piece of content. At most one row exists
// per (User, ContentID) pair; a repeated vote overwrites the flag.
type Like struct {
	User      string `json:"user"`
	ContentID int64  `json:"content_id"`
	DoLike    bool   `json:"do_like"`
}

// Tally is the computed like/unlike count for one content id.
type Tally struct {
	Likes   int `json:"like"`
	Unlikes int `json:"unlike"`
}

// ContentView is a content row enriched with its tally, as returned by list
// responses.
type ContentView struct {
	Content
	Tally
}

// ContentPage is a page of enriched content rows plus the pagination envelope
// consumed by the front-end.
type ContentPage struct {
	Items      []*ContentView `json:"objects"`
	NumResults int            `json:"num_results"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

// Identity is an authenticated caller.
type Identity struct {
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
}

// Credentials are the raw caller credentials extracted from a request.
type Credentials struct {
	Name     string
	Password string
}

// imageExtensions are the file extensions treated as images: uploads with one
// of these get a thumbnail attempt on bind.
var imageExtensions = map[string]bool{
	".bmp": true, ".dib": true, ".dcx": true, ".eps": true, ".ps": true,
	".gif": true, ".im": true, ".jpg": true, ".jpe": true, ".jpeg": true,
	".pcd": true, ".pcx": true, ".png": true, ".pbm": true, ".pgm": true,
	".ppm": true, ".tif": true, ".tiff": true, ".xbm": true, ".xpm": true,
}

// genericExtensions are the non-image file extensions accepted for upload.
var genericExtensions = map[string]bool{
	".odf": true, ".gnumeric": true, ".plist": true, ".7z": true, ".ods": true,
	".xml": true, ".docx": true, ".abw": true, ".zip": true, ".wav": true,
	".yaml": true, ".xlsx": true, ".yml": true, ".rtf": true, ".ini": true,
	".svg": true, ".aac": true, ".doc": true, ".mp3": true, ".xls": true,
	".tar": true, ".json": true, ".csv": true, ".flac": true, ".bz2": true,
	".txt": true, ".tgz": true, ".txz": true, ".ogg": true, ".oga": true,
	".gz": true, ".psd": true, ".pdf": true,
}

// IsImageExtension reports whether ext (with leading dot, any case) is a
// recognized image extension.
func IsImageExtension(ext string) bool {
	return imageExtensions[strings.ToLower(ext)]
}

// IsAllowedExtension reports whether ext is accepted for upload at all.
func IsAllowedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	return imageExtensions[ext] || genericExtensions[ext]
}

// splitExtension returns the base name and lower-cased extension of an
// uploaded file name.
func splitExtension(name string) (base, ext string) {
	ext = filepath.Ext(name)
	return strings.TrimSuffix(name, ext), strings.ToLower(ext)
}

// escapeHTML neutralizes angle brackets in user-supplied text before it is
// persisted.
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "<", " ")
	return strings.ReplaceAll(s, ">", " ")
}
