package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPostValidation(t *testing.T) {
	tests := []struct {
		name    string
		post    *Post
		wantErr bool
	}{
		{
			name: "valid post",
			post: &Post{
				ID:        1,
				Title:     "Valid Title",
				Content:   "This is valid content",
				AuthorID:  1,
				CreatedAt: time.Now(),
			},
			wantErr: false,
		},
		{
			name: "empty title",
			post: &Post{
				ID:        1,
				Content:   "This is valid content",
				AuthorID:  1,
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "title too long",
			post: &Post{
				ID:        1,
				Title:     strings.Repeat("a", 201),
				Content:   "This is valid content",
				AuthorID:  1,
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "missing author",
			post: &Post{
				ID:        1,
				Title:     "Valid Title",
				Content:   "This is valid content",
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "zero creation time",
			post: &Post{
				ID:        1,
				Title:     "Valid Title",
				Content:   "This is valid content",
				AuthorID:  1,
				CreatedAt: time.Time{},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostBeforeCreate(t *testing.T) {
	post := &Post{
		Title:   "Test Post",
		Content: "Test Content",
	}

	assert.True(t, post.CreatedAt.IsZero())
	post.BeforeCreate()
	assert.False(t, post.CreatedAt.IsZero())
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)
	assert.Equal(t, time.UTC, post.CreatedAt.Location())
}

func TestPostApply(t *testing.T) {
	created := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	post := &Post{Title: "Old", Content: "Old content", CreatedAt: created, UpdatedAt: created}

	post.Apply(PostInput{Title: "New", Content: "New content"})

	assert.Equal(t, "New", post.Title)
	assert.Equal(t, "New content", post.Content)
	assert.False(t, post.UpdatedAt.Before(post.CreatedAt), "updated_at must never precede created_at")
}

func TestPostIsAuthoredBy(t *testing.T) {
	post := &Post{AuthorID: 7}

	assert.True(t, post.IsAuthoredBy(&User{ID: 7}))
	assert.False(t, post.IsAuthoredBy(&User{ID: 8}))
	assert.False(t, post.IsAuthoredBy(nil))
}

func TestPostInputValidate(t *testing.T) {
	t.Run("trims fields", func(t *testing.T) {
		in := PostInput{Title: "  Hello  ", Content: "\n body \t"}
		assert.NoError(t, in.Validate())
		assert.Equal(t, "Hello", in.Title)
		assert.Equal(t, "body", in.Content)
	})

	t.Run("whitespace only is missing", func(t *testing.T) {
		in := PostInput{Title: "   ", Content: "  "}
		err := in.Validate()
		assert.Error(t, err)

		fields := FieldErrors(err)
		assert.Equal(t, []string{"This field is required."}, fields["title"])
		assert.Equal(t, []string{"This field is required."}, fields["content"])
	})

	t.Run("title too long", func(t *testing.T) {
		in := PostInput{Title: strings.Repeat("x", 201), Content: "ok"}
		fields := FieldErrors(in.Validate())
		assert.Equal(t, []string{"Ensure this field has no more than 200 characters."}, fields["title"])
	})
}
