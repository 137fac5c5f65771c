package services

import (
	"context"
	"fmt"
	"testing"

	"postboard/app/auth"
	"postboard/app/models"
	"postboard/app/repositories/mock"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	auth.Cost = bcrypt.MinCost
}

func newUser(t *testing.T, store *mock.Store, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, FirstName: "Test", LastName: username}
	u.BeforeCreate()
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

func newPost(t *testing.T, store *mock.Store, author *models.User, title, content string) *models.Post {
	t.Helper()
	p := &models.Post{Title: title, Content: content, AuthorID: author.ID}
	p.BeforeCreate()
	require.NoError(t, store.Posts().Create(context.Background(), p))
	return p
}

func newComments(t *testing.T, store *mock.Store, post *models.Post, author *models.User, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		c := &models.Comment{PostID: post.ID, AuthorID: author.ID, Text: fmt.Sprintf("comment %d", i)}
		c.BeforeCreate()
		require.NoError(t, store.Comments().Create(context.Background(), c))
	}
}
