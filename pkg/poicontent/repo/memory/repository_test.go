package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archeomap/poi-content/pkg/poicontent"
)

func TestUsers(t *testing.T) {
	repo := New()
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, &poicontent.User{Name: "alice", PasswordHash: "h"}))

	t.Run("duplicate name", func(t *testing.T) {
		err := repo.CreateUser(ctx, &poicontent.User{Name: "alice"})
		assert.ErrorIs(t, err, poicontent.ErrUserExists)
	})

	t.Run("get returns a copy", func(t *testing.T) {
		got, err := repo.GetUser(ctx, "alice")
		require.NoError(t, err)
		got.PasswordHash = "tampered"

		again, err := repo.GetUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "h", again.PasswordHash)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.GetUser(ctx, "mallory")
		assert.ErrorIs(t, err, poicontent.ErrUserNotFound)
	})

	t.Run("admin requires existing user", func(t *testing.T) {
		assert.ErrorIs(t, repo.CreateAdmin(ctx, "ghost"), poicontent.ErrUserNotFound)

		require.NoError(t, repo.CreateAdmin(ctx, "alice"))
		admin, err := repo.IsAdmin(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, admin)
	})
}

func TestContent(t *testing.T) {
	repo := New()
	ctx := context.Background()

	t.Run("create assigns sequential ids", func(t *testing.T) {
		first := &poicontent.Content{Owner: "alice", POI: 1}
		second := &poicontent.Content{Owner: "alice", POI: 2}
		require.NoError(t, repo.CreateContent(ctx, first))
		require.NoError(t, repo.CreateContent(ctx, second))
		assert.Equal(t, int64(1), first.ID)
		assert.Equal(t, int64(2), second.ID)
	})

	t.Run("lookup by pending filename", func(t *testing.T) {
		pending := &poicontent.Content{
			Owner:    "alice",
			Filename: "17",
			Status:   poicontent.ContentStatusAnnounced,
		}
		require.NoError(t, repo.CreateContent(ctx, pending))

		got, err := repo.GetContentByPendingFilename(ctx, "17")
		require.NoError(t, err)
		assert.Equal(t, pending.ID, got.ID)

		_, err = repo.GetContentByPendingFilename(ctx, "99")
		assert.ErrorIs(t, err, poicontent.ErrContentNotFound)
	})

	t.Run("update unknown id", func(t *testing.T) {
		err := repo.UpdateContent(ctx, &poicontent.Content{ID: 404})
		assert.ErrorIs(t, err, poicontent.ErrContentNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		c := &poicontent.Content{Owner: "alice", POI: 9}
		require.NoError(t, repo.CreateContent(ctx, c))
		require.NoError(t, repo.DeleteContent(ctx, c.ID))
		assert.ErrorIs(t, repo.DeleteContent(ctx, c.ID), poicontent.ErrContentNotFound)
	})
}

func TestListContent(t *testing.T) {
	repo := New()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		require.NoError(t, repo.CreateContent(ctx, &poicontent.Content{Owner: "alice", POI: int64(i)}))
	}

	t.Run("ordered page", func(t *testing.T) {
		items, total, err := repo.ListContent(ctx, 3, 0)
		require.NoError(t, err)
		assert.Equal(t, 7, total)
		require.Len(t, items, 3)
		assert.Equal(t, int64(1), items[0].ID)
		assert.Equal(t, int64(3), items[2].ID)
	})

	t.Run("offset into the tail", func(t *testing.T) {
		items, total, err := repo.ListContent(ctx, 10, 5)
		require.NoError(t, err)
		assert.Equal(t, 7, total)
		require.Len(t, items, 2)
		assert.Equal(t, int64(6), items[0].ID)
	})

	t.Run("offset past the end", func(t *testing.T) {
		items, total, err := repo.ListContent(ctx, 10, 100)
		require.NoError(t, err)
		assert.Equal(t, 7, total)
		assert.Empty(t, items)
	})
}

func TestLikes(t *testing.T) {
	repo := New()
	ctx := context.Background()

	content := &poicontent.Content{Owner: "alice", POI: 1}
	require.NoError(t, repo.CreateContent(ctx, content))

	require.NoError(t, repo.UpsertLike(ctx, &poicontent.Like{User: "bob", ContentID: content.ID, DoLike: true}))
	require.NoError(t, repo.UpsertLike(ctx, &poicontent.Like{User: "carol", ContentID: content.ID, DoLike: false}))

	t.Run("tally", func(t *testing.T) {
		tally, err := repo.TallyLikes(ctx, content.ID)
		require.NoError(t, err)
		assert.Equal(t, poicontent.Tally{Likes: 1, Unlikes: 1}, tally)
	})

	t.Run("upsert overwrites", func(t *testing.T) {
		require.NoError(t, repo.UpsertLike(ctx, &poicontent.Like{User: "bob", ContentID: content.ID, DoLike: false}))

		tally, err := repo.TallyLikes(ctx, content.ID)
		require.NoError(t, err)
		assert.Equal(t, poicontent.Tally{Likes: 0, Unlikes: 2}, tally)
	})

	t.Run("cascade delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteLikesForContent(ctx, content.ID))

		tally, err := repo.TallyLikes(ctx, content.ID)
		require.NoError(t, err)
		assert.Equal(t, poicontent.Tally{}, tally)
	})
}
