package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"postboard/app/models"
	"postboard/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPosts(t *testing.T) {
	ctx := context.Background()
	store := mock.NewStore()
	service := NewPostService(store, 10)
	alice := newUser(t, store, "alice")
	bob := newUser(t, store, "bob")

	for i := 1; i <= 25; i++ {
		newPost(t, store, alice, fmt.Sprintf("Post %d", i), "Body text")
	}
	golang := newPost(t, store, bob, "About Golang", "Channels")
	_, err := NewLikeService(store).Toggle(ctx, bob, golang.ID)
	require.NoError(t, err)

	t.Run("second page", func(t *testing.T) {
		page, err := service.ListPosts(ctx, nil, "", 2, 10)
		require.NoError(t, err)
		assert.Len(t, page.Posts, 10)
		assert.Equal(t, 2, page.Page.Number)
		assert.Equal(t, 3, page.Page.TotalPages)
		assert.Equal(t, 26, page.Page.TotalCount)
		assert.True(t, page.Page.HasNext())
		assert.True(t, page.Page.HasPrevious())
	})

	t.Run("newest first", func(t *testing.T) {
		page, err := service.ListPosts(ctx, nil, "", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, "About Golang", page.Posts[0].Title)
		assert.Equal(t, "Post 25", page.Posts[1].Title)
	})

	t.Run("out of range pages are clamped", func(t *testing.T) {
		for _, requested := range []int{0, -3} {
			page, err := service.ListPosts(ctx, nil, "", requested, 10)
			require.NoError(t, err)
			assert.Equal(t, 1, page.Page.Number)
		}
		page, err := service.ListPosts(ctx, nil, "", 9999, 10)
		require.NoError(t, err)
		assert.Equal(t, 3, page.Page.Number)
		assert.Len(t, page.Posts, 6)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		page, err := service.ListPosts(ctx, nil, "GOLANG", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, "GOLANG", page.Search)
		require.Len(t, page.Posts, 1)
		assert.Equal(t, golang.ID, page.Posts[0].ID)
	})

	t.Run("search keeps surrounding whitespace", func(t *testing.T) {
		page, err := service.ListPosts(ctx, nil, " golang", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, " golang", page.Search)
		require.Len(t, page.Posts, 1)
		assert.Equal(t, golang.ID, page.Posts[0].ID)

		page, err = service.ListPosts(ctx, nil, "   ", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, "   ", page.Search)
		assert.Empty(t, page.Posts)
		assert.Equal(t, 0, page.Page.TotalCount)
	})

	t.Run("search without matches", func(t *testing.T) {
		page, err := service.ListPosts(ctx, nil, "rust", 1, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Posts)
		assert.Equal(t, 1, page.Page.TotalPages)
		assert.False(t, page.Page.HasNext())
	})

	t.Run("is_liked follows the viewer", func(t *testing.T) {
		page, err := service.ListPosts(ctx, bob, "golang", 1, 10)
		require.NoError(t, err)
		assert.True(t, page.Posts[0].IsLiked)
		assert.Equal(t, 1, page.Posts[0].TotalLikes)

		page, err = service.ListPosts(ctx, alice, "golang", 1, 10)
		require.NoError(t, err)
		assert.False(t, page.Posts[0].IsLiked)

		page, err = service.ListPosts(ctx, nil, "golang", 1, 10)
		require.NoError(t, err)
		assert.False(t, page.Posts[0].IsLiked)
	})

	t.Run("store failure", func(t *testing.T) {
		store.Err = errors.New("disk on fire")
		defer func() { store.Err = nil }()

		_, err := service.ListPosts(ctx, nil, "", 1, 10)
		assert.ErrorIs(t, err, store.Err)
	})
}

func TestSearchPosts(t *testing.T) {
	ctx := context.Background()
	store := mock.NewStore()
	service := NewPostService(store, 10)
	alice := newUser(t, store, "alice")

	for i := 0; i < 15; i++ {
		newPost(t, store, alice, fmt.Sprintf("Go tip %d", i), "content")
	}
	newPost(t, store, alice, "Other", "nothing to see")

	for _, q := range []string{"", "   "} {
		results, err := service.SearchPosts(ctx, nil, q)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}

	results, err := service.SearchPosts(ctx, nil, "go tip")
	require.NoError(t, err)
	assert.Len(t, results, 10)
	assert.Equal(t, "Go tip 14", results[0].Title)

	results, err = service.SearchPosts(ctx, nil, "SEE")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Other", results[0].Title)
}

func TestGetPost(t *testing.T) {
	ctx := context.Background()
	store := mock.NewStore()
	service := NewPostService(store, 10)
	alice := newUser(t, store, "alice")
	post := newPost(t, store, alice, "Title", "Content")
	newComments(t, store, post, alice, 3)

	detail, err := service.GetPost(ctx, nil, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Title", detail.Post.Title)
	assert.Equal(t, 3, detail.Post.TotalComments)
	require.Len(t, detail.Comments, 3)
	assert.Equal(t, "comment 0", detail.Comments[0].Text)
	assert.Equal(t, "comment 2", detail.Comments[2].Text)

	_, err = service.GetPost(ctx, nil, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	store := mock.NewStore()
	service := NewPostService(store, 10)
	alice := newUser(t, store, "alice")

	t.Run("anonymous", func(t *testing.T) {
		_, err := service.CreatePost(ctx, nil, models.PostInput{Title: "T", Content: "C"})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := service.CreatePost(ctx, alice, models.PostInput{Title: "   ", Content: "C"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"This field is required."}, verr.Fields["title"])
		assert.NotContains(t, verr.Fields, "content")

		count, err := store.Posts().Count(ctx, "")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("success", func(t *testing.T) {
		view, err := service.CreatePost(ctx, alice, models.PostInput{Title: "  Hello ", Content: "World"})
		require.NoError(t, err)
		assert.NotZero(t, view.ID)
		assert.Equal(t, "Hello", view.Title)
		assert.Equal(t, alice.ID, view.AuthorID)
		assert.Equal(t, "alice", view.Author.Username)
		assert.Equal(t, view.CreatedAt, view.UpdatedAt)
		assert.Zero(t, view.TotalLikes)
	})
}

func TestUpdatePost(t *testing.T) {
	ctx := context.Background()
	store := mock.NewStore()
	service := NewPostService(store, 10)
	alice := newUser(t, store, "alice")
	bob := newUser(t, store, "bob")
	post := newPost(t, store, alice, "Title", "Content")

	tests := []struct {
		name    string
		viewer  *models.User
		id      int64
		input   models.PostInput
		wantErr error
	}{
		{"anonymous", nil, post.ID, models.PostInput{Title: "x", Content: "y"}, ErrUnauthorized},
		{"missing", alice, 999, models.PostInput{Title: "x", Content: "y"}, ErrNotFound},
		{"not the author", bob, post.ID, models.PostInput{Title: "x", Content: "y"}, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.UpdatePost(ctx, tt.viewer, tt.id, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)

			stored, err := store.Posts().GetByID(ctx, post.ID)
			require.NoError(t, err)
			assert.Equal(t, "Title", stored.Title)
		})
	}

	t.Run("invalid input", func(t *testing.T) {
		_, err := service.UpdatePost(ctx, alice, post.ID, models.PostInput{Title: "x", Content: ""})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "content")
	})

	t.Run("author updates", func(t *testing.T) {
		view, err := service.UpdatePost(ctx, alice, post.ID, models.PostInput{Title: "New", Content: "Body"})
		require.NoError(t, err)
		assert.Equal(t, "New", view.Title)
		assert.Equal(t, "Body", view.Content)
		assert.Equal(t, post.CreatedAt, view.CreatedAt)
		assert.False(t, view.UpdatedAt.Before(post.UpdatedAt))
	})
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()
	store := mock.NewStore()
	service := NewPostService(store, 10)
	alice := newUser(t, store, "alice")
	bob := newUser(t, store, "bob")
	post := newPost(t, store, alice, "Title", "Content")
	newComments(t, store, post, bob, 2)

	assert.ErrorIs(t, service.DeletePost(ctx, nil, post.ID), ErrUnauthorized)
	assert.ErrorIs(t, service.DeletePost(ctx, bob, post.ID), ErrForbidden)
	assert.ErrorIs(t, service.DeletePost(ctx, alice, 999), ErrNotFound)

	require.NoError(t, service.DeletePost(ctx, alice, post.ID))
	_, err := service.GetPost(ctx, nil, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	n, err := store.Comments().CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
