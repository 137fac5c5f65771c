package models

import (
	"errors"
	"strings"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = Now()
	}
	p.UpdatedAt = p.CreatedAt
}

// Apply copies validated input onto the post and refreshes updated_at.
func (p *Post) Apply(in PostInput) {
	p.Title = in.Title
	p.Content = in.Content
	p.Touch()
}

// Touch refreshes updated_at, never moving it before created_at.
func (p *Post) Touch() {
	now := Now()
	if now.Before(p.CreatedAt) {
		now = p.CreatedAt
	}
	p.UpdatedAt = now
}

// IsAuthoredBy reports whether u wrote the post.
func (p *Post) IsAuthoredBy(u *User) bool {
	return u != nil && u.ID == p.AuthorID
}

// Normalize trims surrounding whitespace from every field.
func (in *PostInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
}

// Validate normalizes the input and checks it.
func (in *PostInput) Validate() error {
	in.Normalize()
	return validate.Struct(in)
}
