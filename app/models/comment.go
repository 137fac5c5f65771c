package models

import (
	"errors"
	"strings"
)

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate() {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = Now()
	}
	c.UpdatedAt = c.CreatedAt
}

// SetPost sets the parent post and updates the PostID
func (c *Comment) SetPost(post *Post) error {
	if post == nil {
		return errors.New("post cannot be nil")
	}

	c.PostID = post.ID
	return nil
}

// Edit replaces the text and refreshes updated_at.
func (c *Comment) Edit(text string) {
	c.Text = text
	now := Now()
	if now.Before(c.CreatedAt) {
		now = c.CreatedAt
	}
	c.UpdatedAt = now
}

// IsAuthoredBy reports whether u wrote the comment.
func (c *Comment) IsAuthoredBy(u *User) bool {
	return u != nil && u.ID == c.AuthorID
}

// Validate trims the text and checks it.
func (in *CommentInput) Validate() error {
	in.Text = strings.TrimSpace(in.Text)
	return validate.Struct(in)
}
