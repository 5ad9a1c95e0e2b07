package poicontent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/archeomap/poi-content/pkg/poicontent/token"
)

// Pagination bounds for list responses.
const (
	DefaultPageSize = 10
	MaxPageSize     = 20
)

var emailPattern = regexp.MustCompile(`^.+@.+\..+$`)

// service implements the Service interface
type service struct {
	repo   Repository
	store  FileStore
	issuer token.Issuer
	guard  *Guard

	// bindMu serializes the lookup-and-consume sequence of BindUpload so two
	// concurrent binds against the same token cannot both succeed.
	bindMu sync.Mutex

	createContent *Pipeline
	updateContent *Pipeline
	deleteContent *Pipeline
	listContent   *Pipeline
	recordLike    *Pipeline
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the row repository for the service.
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repo = repo
	}
}

// WithFileStore sets the uploaded-file store for the service.
func WithFileStore(store FileStore) Option {
	return func(s *service) {
		s.store = store
	}
}

// WithTokenIssuer sets the upload-token issuer for the service.
func WithTokenIssuer(issuer token.Issuer) Option {
	return func(s *service) {
		s.issuer = issuer
	}
}

// New creates a new service instance with the given options.
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.store == nil {
		return nil, fmt.Errorf("file store is required")
	}
	if s.issuer == nil {
		return nil, fmt.Errorf("token issuer is required")
	}

	s.guard = NewGuard(s.repo)
	s.registerPipelines()

	return s, nil
}

// registerPipelines wires the operation pipelines once at construction.
func (s *service) registerPipelines() {
	s.createContent = NewPipeline("content.create",
		Stage{"pre-validate", s.stageValidateCreate},
		Stage{"pre-authorize", s.stageAuthenticate},
		Stage{"mutate", s.stageCreateContent},
	)
	s.updateContent = NewPipeline("content.update",
		Stage{"pre-validate", s.stageValidateUpdate},
		Stage{"pre-authorize", s.stageAuthorizeTarget},
		Stage{"mutate", s.stageUpdateContent},
	)
	s.deleteContent = NewPipeline("content.delete",
		Stage{"pre-authorize", s.stageAuthorizeTarget},
		Stage{"mutate-cascade-likes", s.stageCascadeLikes},
		Stage{"mutate-delete-row", s.stageDeleteRow},
		Stage{"post-remove-file", s.stageRemoveFile},
	)
	s.listContent = NewPipeline("content.list",
		Stage{"pre-validate", s.stageValidateList},
		Stage{"fetch", s.stageFetchPage},
		Stage{"post-enrich", s.stageEnrichTallies},
	)
	s.recordLike = NewPipeline("like.record",
		Stage{"pre-authorize", s.stageAuthenticate},
		Stage{"mutate", s.stageUpsertLike},
	)
}

// User operations

func (s *service) RegisterUser(ctx context.Context, req RegisterUserRequest) (*User, error) {
	if req.Name == "" || req.Password == "" {
		return nil, ErrInvalidRegistration
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, ErrInvalidEmail
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Name:         escapeHTML(req.Name),
		PasswordHash: hash,
		Email:        escapeHTML(req.Email),
		CreationTime: time.Now().Unix(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) Login(ctx context.Context, creds Credentials) (*Identity, error) {
	return s.guard.Authenticate(ctx, creds)
}

// Content operations

func (s *service) CreateContent(ctx context.Context, creds Credentials, req CreateContentRequest) (*Content, error) {
	octx := &OpContext{Context: ctx, Creds: creds, Create: &req}
	if err := s.createContent.Run(octx); err != nil {
		return nil, err
	}
	return octx.Content, nil
}

func (s *service) GetContent(ctx context.Context, id int64) (*Content, error) {
	return s.repo.GetContent(ctx, id)
}

func (s *service) UpdateContent(ctx context.Context, creds Credentials, req UpdateContentRequest) (*Content, error) {
	octx := &OpContext{Context: ctx, Creds: creds, Update: &req, ContentID: req.ContentID}
	if err := s.updateContent.Run(octx); err != nil {
		return nil, err
	}
	return octx.Content, nil
}

func (s *service) DeleteContent(ctx context.Context, creds Credentials, id int64) error {
	octx := &OpContext{Context: ctx, Creds: creds, ContentID: id}
	return s.deleteContent.Run(octx)
}

func (s *service) ListContent(ctx context.Context, req ListContentRequest) (*ContentPage, error) {
	octx := &OpContext{Context: ctx, List: &req}
	if err := s.listContent.Run(octx); err != nil {
		return nil, err
	}
	return octx.Page, nil
}

// Like operations

func (s *service) RecordLike(ctx context.Context, creds Credentials, req RecordLikeRequest) (*Like, error) {
	octx := &OpContext{Context: ctx, Creds: creds, Like: &req}
	if err := s.recordLike.Run(octx); err != nil {
		return nil, err
	}
	return &Like{User: octx.Identity.Name, ContentID: req.ContentID, DoLike: req.DoLike}, nil
}

func (s *service) TallyLikes(ctx context.Context, contentID int64) (Tally, error) {
	return s.repo.TallyLikes(ctx, contentID)
}

// Upload binding

// BindUpload looks up the content awaiting the token, verifies ownership and
// binds the uploaded file to it. The whole lookup-and-consume sequence runs
// under bindMu; a refused upload (oversized body or disallowed extension)
// voids the announcement by deleting the pending row.
func (s *service) BindUpload(ctx context.Context, creds Credentials, uploadToken int64, open FileOpener) (*Content, error) {
	identity, err := s.guard.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}

	s.bindMu.Lock()
	defer s.bindMu.Unlock()

	content, err := s.repo.GetContentByPendingFilename(ctx, strconv.FormatInt(uploadToken, 10))
	if err != nil {
		if errors.Is(err, ErrContentNotFound) {
			return nil, ErrUnexpectedUpload
		}
		return nil, err
	}

	// Ownership only: administrators do not upload on behalf of others.
	if identity.Name != content.Owner {
		return nil, ErrForbidden
	}

	name, data, err := open()
	if err != nil {
		if errors.Is(err, ErrPayloadTooLarge) {
			s.refuseUpload(ctx, content)
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMissingContent, err)
	}
	defer data.Close()

	base, ext := splitExtension(name)
	if !IsAllowedExtension(ext) {
		s.refuseUpload(ctx, content)
		return nil, ErrUnsupportedFileType
	}

	key := strconv.FormatInt(uploadToken, 10) + ext
	if err := s.store.Upload(ctx, key, data); err != nil {
		return nil, &StorageError{Key: key, Op: "upload", Err: err}
	}

	if IsImageExtension(ext) {
		if thumb, err := s.generateThumbnail(ctx, key); err == nil {
			content.PhotoThumb = thumb
		}
		// Thumbnail failures are cosmetic: the file stays, the bind goes on.
	}

	content.FileDescription = escapeHTML(base)
	content.Filename = key
	content.Status = ContentStatusBound

	if err := s.repo.UpdateContent(ctx, content); err != nil {
		return nil, &ContentError{ContentID: content.ID, Op: "bind", Err: err}
	}

	return content, nil
}

// refuseUpload voids an announcement whose upload was rejected, releasing the
// pending row so the token cannot be replayed.
func (s *service) refuseUpload(ctx context.Context, content *Content) {
	if err := s.repo.DeleteContent(ctx, content.ID); err != nil {
		slog.Error("failed to void refused announcement", "content_id", content.ID, "err", err)
	}
}

// Pipeline stages

func (s *service) stageAuthenticate(octx *OpContext) error {
	identity, err := s.guard.Authenticate(octx.Context, octx.Creds)
	if err != nil {
		return err
	}
	octx.Identity = identity
	return nil
}

// stageAuthorizeTarget authenticates the caller, loads the target row and
// enforces the owner-or-admin rule.
func (s *service) stageAuthorizeTarget(octx *OpContext) error {
	if err := s.stageAuthenticate(octx); err != nil {
		return err
	}

	content, err := s.repo.GetContent(octx.Context, octx.ContentID)
	if err != nil {
		return err
	}
	octx.Content = content

	return s.guard.AssertOwnerOrAdmin(octx.Identity, content)
}

func (s *service) stageValidateCreate(octx *OpContext) error {
	req := octx.Create
	if req.POI == 0 {
		return fmt.Errorf("%w: poi reference is required", ErrMissingContent)
	}
	if req.Comment == "" && !req.UploadAnnouncement {
		return ErrMissingContent
	}
	return nil
}

func (s *service) stageCreateContent(octx *OpContext) error {
	req := octx.Create
	content := &Content{
		POI:          req.POI,
		Owner:        octx.Identity.Name,
		CreationTime: time.Now().Unix(),
		Comment:      escapeHTML(req.Comment),
		Status:       ContentStatusCommented,
	}

	var uploadToken int64
	if req.UploadAnnouncement {
		t, err := s.issuer.Next(octx.Context)
		if err != nil {
			return fmt.Errorf("failed to issue upload token: %w", err)
		}
		uploadToken = t
		content.Filename = strconv.FormatInt(t, 10)
		content.Status = ContentStatusAnnounced
	}

	if err := s.repo.CreateContent(octx.Context, content); err != nil {
		return &ContentError{ContentID: content.ID, Op: "create", Err: err}
	}

	content.UploadToken = uploadToken
	octx.Content = content
	return nil
}

func (s *service) stageValidateUpdate(octx *OpContext) error {
	return s.guard.AssertMutableFields(octx.Update.Fields)
}

func (s *service) stageUpdateContent(octx *OpContext) error {
	content := octx.Content
	if octx.Update.Comment != nil {
		content.Comment = escapeHTML(*octx.Update.Comment)
	}
	if octx.Update.FileDescription != nil {
		content.FileDescription = escapeHTML(*octx.Update.FileDescription)
	}

	if err := s.repo.UpdateContent(octx.Context, content); err != nil {
		return &ContentError{ContentID: content.ID, Op: "update", Err: err}
	}
	return nil
}

func (s *service) stageCascadeLikes(octx *OpContext) error {
	if err := s.repo.DeleteLikesForContent(octx.Context, octx.ContentID); err != nil {
		return &ContentError{ContentID: octx.ContentID, Op: "cascade_likes", Err: err}
	}
	return nil
}

func (s *service) stageDeleteRow(octx *OpContext) error {
	// Remember the bound file first; it is removed only after the row delete
	// is confirmed, so a failed delete never orphans the file reference.
	octx.pendingFile = octx.Content.Filename

	if err := s.repo.DeleteContent(octx.Context, octx.ContentID); err != nil {
		return &ContentError{ContentID: octx.ContentID, Op: "delete", Err: err}
	}
	return nil
}

func (s *service) stageRemoveFile(octx *OpContext) error {
	if octx.pendingFile == "" {
		return nil
	}

	err := s.store.Delete(octx.Context, octx.pendingFile)
	if err == nil || errors.Is(err, ErrFileNotFound) {
		// An announced-but-never-bound row has a placeholder filename with no
		// file behind it; removal is an idempotent no-op.
		return nil
	}
	return &StorageError{Key: octx.pendingFile, Op: "delete", Err: err}
}

func (s *service) stageValidateList(octx *OpContext) error {
	req := octx.List
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage < 1 {
		req.PerPage = DefaultPageSize
	}
	if req.PerPage > MaxPageSize {
		req.PerPage = MaxPageSize
	}
	return nil
}

func (s *service) stageFetchPage(octx *OpContext) error {
	req := octx.List
	items, total, err := s.repo.ListContent(octx.Context, req.PerPage, (req.Page-1)*req.PerPage)
	if err != nil {
		return err
	}

	page := &ContentPage{
		Items:      make([]*ContentView, 0, len(items)),
		NumResults: total,
		Page:       req.Page,
		TotalPages: (total + req.PerPage - 1) / req.PerPage,
	}
	for _, c := range items {
		page.Items = append(page.Items, &ContentView{Content: *c})
	}
	octx.Page = page
	return nil
}

// stageEnrichTallies computes each item's tally freshly per request. This is
// O(likes per content) and fine at expected scale; large content sets would
// want a counter cache.
func (s *service) stageEnrichTallies(octx *OpContext) error {
	for _, item := range octx.Page.Items {
		tally, err := s.repo.TallyLikes(octx.Context, item.ID)
		if err != nil {
			return err
		}
		item.Tally = tally
	}
	return nil
}

func (s *service) stageUpsertLike(octx *OpContext) error {
	if _, err := s.repo.GetContent(octx.Context, octx.Like.ContentID); err != nil {
		return err
	}

	like := &Like{
		User:      octx.Identity.Name,
		ContentID: octx.Like.ContentID,
		DoLike:    octx.Like.DoLike,
	}
	if err := s.repo.UpsertLike(octx.Context, like); err != nil {
		return &ContentError{ContentID: like.ContentID, Op: "like", Err: err}
	}
	return nil
}
