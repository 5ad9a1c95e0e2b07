package poicontent

import "context"

// Service is the main interface for the POI content system. Every mutating
// operation authenticates the supplied credentials through the guard before
// touching storage; operations on existing content additionally enforce the
// owner-or-admin rule.
type Service interface {
	// RegisterUser validates and creates a new account.
	RegisterUser(ctx context.Context, req RegisterUserRequest) (*User, error)

	// Login authenticates the credentials and reports the caller's identity.
	Login(ctx context.Context, creds Credentials) (*Identity, error)

	// CreateContent creates a content row. If the request announces an
	// upload, the returned content carries the issued upload token and waits
	// in the announced state for a later bind.
	CreateContent(ctx context.Context, creds Credentials, req CreateContentRequest) (*Content, error)

	// BindUpload binds an uploaded file to the content awaiting the token.
	// The opener is only invoked after the token and ownership checks pass.
	BindUpload(ctx context.Context, creds Credentials, uploadToken int64, open FileOpener) (*Content, error)

	// GetContent fetches a single content row.
	GetContent(ctx context.Context, id int64) (*Content, error)

	// UpdateContent modifies the mutable fields of a content row.
	UpdateContent(ctx context.Context, creds Credentials, req UpdateContentRequest) (*Content, error)

	// DeleteContent removes a content row, cascading to its likes and, once
	// the row removal is confirmed, to any bound file.
	DeleteContent(ctx context.Context, creds Credentials, id int64) error

	// ListContent returns a page of content enriched with like tallies.
	ListContent(ctx context.Context, req ListContentRequest) (*ContentPage, error)

	// RecordLike upserts the caller's vote for a content id.
	RecordLike(ctx context.Context, creds Credentials, req RecordLikeRequest) (*Like, error)

	// TallyLikes computes the fresh like/unlike counts for a content id.
	TallyLikes(ctx context.Context, contentID int64) (Tally, error)
}
