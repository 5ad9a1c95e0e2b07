package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/archeomap/poi-content/pkg/poicontent"
)

// likeKey identifies the single vote row for a (user, content) pair.
type likeKey struct {
	user      string
	contentID int64
}

// Repository implements poicontent.Repository using in-memory storage
type Repository struct {
	mu       sync.RWMutex
	users    map[string]*poicontent.User
	admins   map[string]bool
	contents map[int64]*poicontent.Content
	likes    map[likeKey]*poicontent.Like
	nextID   int64
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		users:    make(map[string]*poicontent.User),
		admins:   make(map[string]bool),
		contents: make(map[int64]*poicontent.Content),
		likes:    make(map[likeKey]*poicontent.Like),
	}
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *poicontent.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Name]; exists {
		return poicontent.ErrUserExists
	}

	userCopy := *user
	r.users[user.Name] = &userCopy
	return nil
}

func (r *Repository) GetUser(ctx context.Context, name string) (*poicontent.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[name]
	if !exists {
		return nil, poicontent.ErrUserNotFound
	}

	userCopy := *user
	return &userCopy, nil
}

func (r *Repository) CreateAdmin(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[name]; !exists {
		return poicontent.ErrUserNotFound
	}
	r.admins[name] = true
	return nil
}

func (r *Repository) IsAdmin(ctx context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.admins[name], nil
}

// Content operations

func (r *Repository) CreateContent(ctx context.Context, content *poicontent.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	content.ID = r.nextID

	contentCopy := *content
	r.contents[content.ID] = &contentCopy
	return nil
}

func (r *Repository) GetContent(ctx context.Context, id int64) (*poicontent.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	content, exists := r.contents[id]
	if !exists {
		return nil, poicontent.ErrContentNotFound
	}

	contentCopy := *content
	return &contentCopy, nil
}

func (r *Repository) GetContentByPendingFilename(ctx context.Context, filename string) (*poicontent.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, content := range r.contents {
		if content.Filename == filename {
			contentCopy := *content
			return &contentCopy, nil
		}
	}
	return nil, poicontent.ErrContentNotFound
}

func (r *Repository) UpdateContent(ctx context.Context, content *poicontent.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[content.ID]; !exists {
		return poicontent.ErrContentNotFound
	}

	contentCopy := *content
	r.contents[content.ID] = &contentCopy
	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[id]; !exists {
		return poicontent.ErrContentNotFound
	}
	delete(r.contents, id)
	return nil
}

func (r *Repository) ListContent(ctx context.Context, limit, offset int) ([]*poicontent.Content, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*poicontent.Content, 0, len(r.contents))
	for _, content := range r.contents {
		all = append(all, content)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}

	result := make([]*poicontent.Content, 0, end-offset)
	for _, content := range all[offset:end] {
		contentCopy := *content
		result = append(result, &contentCopy)
	}
	return result, total, nil
}

// Like operations

func (r *Repository) UpsertLike(ctx context.Context, like *poicontent.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	likeCopy := *like
	r.likes[likeKey{like.User, like.ContentID}] = &likeCopy
	return nil
}

func (r *Repository) DeleteLikesForContent(ctx context.Context, contentID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.likes {
		if key.contentID == contentID {
			delete(r.likes, key)
		}
	}
	return nil
}

func (r *Repository) TallyLikes(ctx context.Context, contentID int64) (poicontent.Tally, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tally poicontent.Tally
	for key, like := range r.likes {
		if key.contentID != contentID {
			continue
		}
		if like.DoLike {
			tally.Likes++
		} else {
			tally.Unlikes++
		}
	}
	return tally, nil
}
