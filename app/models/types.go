package models

import "time"

// User is an account resolved by the identity provider.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Post represents a blog post. Like and comment totals are never stored on it.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title" validate:"required,max=200"`
	Content   string    `json:"content" validate:"required"`
	AuthorID  int64     `json:"author_id" validate:"required,gt=0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment represents a comment on a blog post.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id" validate:"required,gt=0"`
	AuthorID  int64     `json:"author_id" validate:"required,gt=0"`
	Text      string    `json:"text" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostView is a post joined with its author and the aggregates computed at read time
// relative to the viewer that asked for it.
type PostView struct {
	Post
	Author        User
	TotalLikes    int
	TotalComments int
	IsLiked       bool
}

// CommentView is a comment joined with its author.
type CommentView struct {
	Comment
	Author User
}

// PostInput carries the writable fields of a post.
type PostInput struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

// CommentInput carries the writable fields of a comment.
type CommentInput struct {
	Text string `json:"text" validate:"required"`
}

// Registration carries the fields needed to create an account.
type Registration struct {
	Username  string `json:"username" validate:"required,min=3,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}
