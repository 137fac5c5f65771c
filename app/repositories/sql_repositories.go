package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"postboard/app/models"
)

// SQLPostRepository implements PostRepository with SQL
type SQLPostRepository struct {
	store *SQLStore
}

// postViewColumns selects a post, its author and its aggregates; $1 is the viewer id.
const postViewColumns = `
SELECT p.id, p.title, p.content, p.author_id, p.created_at, p.updated_at,
       u.id, u.username, u.first_name, u.last_name, u.created_at,
       (SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id),
       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id),
       EXISTS (SELECT 1 FROM post_likes l WHERE l.post_id = p.id AND l.user_id = $1)
FROM posts p
JOIN users u ON u.id = p.author_id`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPostView(row scanner) (*models.PostView, error) {
	var v models.PostView
	err := row.Scan(
		&v.ID, &v.Title, &v.Content, &v.AuthorID, timestamp{&v.CreatedAt}, timestamp{&v.UpdatedAt},
		&v.Author.ID, &v.Author.Username, &v.Author.FirstName, &v.Author.LastName, timestamp{&v.Author.CreatedAt},
		&v.TotalLikes, &v.TotalComments, &v.IsLiked,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create creates a new post
func (r *SQLPostRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.store.db.QueryRowContext(ctx,
		`INSERT INTO posts (title, content, author_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		post.Title, post.Content, post.AuthorID, post.CreatedAt.UTC(), post.UpdatedAt.UTC(),
	).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by ID
func (r *SQLPostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var p models.Post
	err := r.store.db.QueryRowContext(ctx,
		`SELECT id, title, content, author_id, created_at, updated_at FROM posts WHERE id = $1`, id,
	).Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, timestamp{&p.CreatedAt}, timestamp{&p.UpdatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// View retrieves a post with its author and aggregates as seen by viewerID.
func (r *SQLPostRepository) View(ctx context.Context, id, viewerID int64) (*models.PostView, error) {
	view, err := scanPostView(r.store.db.QueryRowContext(ctx, postViewColumns+` WHERE p.id = $2`, viewerID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Count returns the number of posts matching search.
func (r *SQLPostRepository) Count(ctx context.Context, search string) (int, error) {
	query := `SELECT COUNT(*) FROM posts p`
	var args []interface{}
	if search != "" {
		query += ` WHERE LOWER(p.title) LIKE $1 ESCAPE '\' OR LOWER(p.content) LIKE $1 ESCAPE '\'`
		args = append(args, likePattern(search))
	}
	var count int
	if err := r.store.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// List retrieves a window of posts, newest first
func (r *SQLPostRepository) List(ctx context.Context, q PostQuery) ([]*models.PostView, error) {
	query := postViewColumns
	args := []interface{}{q.ViewerID}
	if q.Search != "" {
		query += ` WHERE LOWER(p.title) LIKE $2 ESCAPE '\' OR LOWER(p.content) LIKE $2 ESCAPE '\'`
		args = append(args, likePattern(q.Search))
	}
	query += ` ORDER BY p.created_at DESC, p.id DESC`
	page, pageArgs := pageClause(q.Limit, q.Offset, len(args)+1)
	query += page
	args = append(args, pageArgs...)

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []*models.PostView{}
	for rows.Next() {
		view, err := scanPostView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

// Update updates an existing post
func (r *SQLPostRepository) Update(ctx context.Context, post *models.Post) error {
	res, err := r.store.db.ExecContext(ctx,
		`UPDATE posts SET title = $1, content = $2, updated_at = $3 WHERE id = $4`,
		post.Title, post.Content, post.UpdatedAt.UTC(), post.ID,
	)
	return affected(res, err)
}

// Delete deletes a post; comments and likes go with it through ON DELETE CASCADE.
func (r *SQLPostRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.store.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	return affected(res, err)
}

// SQLCommentRepository implements CommentRepository with SQL
type SQLCommentRepository struct {
	store *SQLStore
}

const commentViewColumns = `
SELECT c.id, c.post_id, c.author_id, c.text, c.created_at, c.updated_at,
       u.id, u.username, u.first_name, u.last_name, u.created_at
FROM comments c
JOIN users u ON u.id = c.author_id`

func scanCommentView(row scanner) (*models.CommentView, error) {
	var v models.CommentView
	err := row.Scan(
		&v.ID, &v.PostID, &v.AuthorID, &v.Text, timestamp{&v.CreatedAt}, timestamp{&v.UpdatedAt},
		&v.Author.ID, &v.Author.Username, &v.Author.FirstName, &v.Author.LastName, timestamp{&v.Author.CreatedAt},
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create creates a new comment after checking the post in the same transaction
func (r *SQLCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.store.inTx(ctx, func(tx *sql.Tx) error {
		if err := postExists(ctx, tx, comment.PostID, r.store.lockPost()); err != nil {
			return err
		}
		err := tx.QueryRowContext(ctx,
			`INSERT INTO comments (post_id, author_id, text, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			comment.PostID, comment.AuthorID, comment.Text, comment.CreatedAt.UTC(), comment.UpdatedAt.UTC(),
		).Scan(&comment.ID)
		if err != nil {
			return fmt.Errorf("failed to insert comment: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a comment by ID
func (r *SQLCommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var c models.Comment
	err := r.store.db.QueryRowContext(ctx,
		`SELECT id, post_id, author_id, text, created_at, updated_at FROM comments WHERE id = $1`, id,
	).Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, timestamp{&c.CreatedAt}, timestamp{&c.UpdatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// View retrieves a comment joined with its author.
func (r *SQLCommentRepository) View(ctx context.Context, id int64) (*models.CommentView, error) {
	view, err := scanCommentView(r.store.db.QueryRowContext(ctx, commentViewColumns+` WHERE c.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return view, nil
}

// CountByPost returns the number of comments on a post.
func (r *SQLCommentRepository) CountByPost(ctx context.Context, postID int64) (int, error) {
	var count int
	err := r.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID).Scan(&count)
	return count, err
}

// ListByPost retrieves a window of comments for a post, oldest first
func (r *SQLCommentRepository) ListByPost(ctx context.Context, postID int64, limit, offset int) ([]*models.CommentView, error) {
	query := commentViewColumns + ` WHERE c.post_id = $1 ORDER BY c.created_at ASC, c.id ASC`
	page, pageArgs := pageClause(limit, offset, 2)
	rows, err := r.store.db.QueryContext(ctx, query+page, append([]interface{}{postID}, pageArgs...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []*models.CommentView{}
	for rows.Next() {
		view, err := scanCommentView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

// Update updates the text of an existing comment
func (r *SQLCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	res, err := r.store.db.ExecContext(ctx,
		`UPDATE comments SET text = $1, updated_at = $2 WHERE id = $3`,
		comment.Text, comment.UpdatedAt.UTC(), comment.ID,
	)
	return affected(res, err)
}

// Delete deletes a comment by ID
func (r *SQLCommentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.store.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return affected(res, err)
}

// SQLLikeRepository implements LikeRepository on the post_likes table.
type SQLLikeRepository struct {
	store *SQLStore
}

// Toggle flips the like of userID on postID in one transaction.
func (r *SQLLikeRepository) Toggle(ctx context.Context, postID, userID int64) (bool, int, error) {
	var liked bool
	var total int
	err := r.store.inTx(ctx, func(tx *sql.Tx) error {
		if err := postExists(ctx, tx, postID, r.store.lockPost()); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
		if err != nil {
			return err
		}
		removed, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if removed == 0 {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, postID, userID)
			if err != nil {
				return err
			}
			liked = true
		}

		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&total)
	})
	if err != nil {
		return false, 0, err
	}
	return liked, total, nil
}

// Count returns the number of users liking postID.
func (r *SQLLikeRepository) Count(ctx context.Context, postID int64) (int, error) {
	var total int
	err := r.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&total)
	return total, err
}

// IsLiked reports whether userID likes postID.
func (r *SQLLikeRepository) IsLiked(ctx context.Context, postID, userID int64) (bool, error) {
	var liked bool
	err := r.store.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)`, postID, userID,
	).Scan(&liked)
	return liked, err
}

// SQLUserRepository implements UserRepository with SQL
type SQLUserRepository struct {
	store *SQLStore
}

const userColumns = `SELECT id, username, first_name, last_name, password_hash, created_at FROM users`

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.PasswordHash, timestamp{&u.CreatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create creates a new user
func (r *SQLUserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.store.db.QueryRowContext(ctx,
		`INSERT INTO users (username, first_name, last_name, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		user.Username, user.FirstName, user.LastName, user.PasswordHash, user.CreatedAt.UTC(),
	).Scan(&user.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *SQLUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.store.db.QueryRowContext(ctx, userColumns+` WHERE id = $1`, id))
}

// GetByUsername retrieves a user by exact username
func (r *SQLUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.store.db.QueryRowContext(ctx, userColumns+` WHERE username = $1`, username))
}

func postExists(ctx context.Context, tx *sql.Tx, postID int64, lock string) error {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM posts WHERE id = $1`+lock, postID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// affected maps an exec that touched no rows to ErrNotFound.
func affected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
