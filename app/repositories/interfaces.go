package repositories

import (
	"context"

	"postboard/app/models"
)

// PostQuery selects a window of posts, newest first.
type PostQuery struct {
	// Search filters to posts whose title or content contains it, ignoring case. Empty matches everything.
	Search string
	// ViewerID is the user is_liked is computed for; zero means anonymous.
	ViewerID int64
	// Limit caps the window; zero or less returns everything from Offset.
	Limit  int
	Offset int
}

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	View(ctx context.Context, id, viewerID int64) (*models.PostView, error)
	Count(ctx context.Context, search string) (int, error)
	List(ctx context.Context, q PostQuery) ([]*models.PostView, error)
	Update(ctx context.Context, post *models.Post) error
	// Delete removes the post together with its comments and likes.
	Delete(ctx context.Context, id int64) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create fails with ErrNotFound when the parent post does not exist.
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	View(ctx context.Context, id int64) (*models.CommentView, error)
	CountByPost(ctx context.Context, postID int64) (int, error)
	// ListByPost returns comments oldest first, ties broken by id. A non-positive limit returns all of them.
	ListByPost(ctx context.Context, postID int64, limit, offset int) ([]*models.CommentView, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id int64) error
}

// LikeRepository defines the interface for the post likes relation
type LikeRepository interface {
	// Toggle flips the membership of userID in the likes of postID in one
	// transaction and returns the new membership with the updated total.
	Toggle(ctx context.Context, postID, userID int64) (liked bool, total int, err error)
	Count(ctx context.Context, postID int64) (int, error)
	IsLiked(ctx context.Context, postID, userID int64) (bool, error)
}

// UserRepository defines the interface for account data access
type UserRepository interface {
	// Create fails with ErrDuplicate when the username is taken.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Store bundles the repositories of one backend.
type Store interface {
	Posts() PostRepository
	Comments() CommentRepository
	Likes() LikeRepository
	Users() UserRepository
	// Clear removes every record, keeping the schema.
	Clear(ctx context.Context) error
	Close() error
}
