package repositories

import (
	"context"
	"sort"

	"postboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB.
// Comments live under their post so a post's thread is one prefix scan.
type BadgerCommentRepository struct {
	store *BadgerStore
}

// Create creates a new comment
func (r *BadgerCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.store.update(ctx, func(txn *badger.Txn) error {
		ok, err := exists(txn, postKey(comment.PostID))
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}

		id, err := getNextID(txn, CommentSeqKey)
		if err != nil {
			return err
		}
		comment.ID = id

		if err := setEntity(txn, commentKey(comment.PostID, comment.ID), comment); err != nil {
			return err
		}
		return txn.Set(commentIndexKey(comment.ID), []byte(formatID(comment.PostID)))
	})
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		return getComment(txn, id, &comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// View retrieves a comment joined with its author.
func (r *BadgerCommentRepository) View(ctx context.Context, id int64) (*models.CommentView, error) {
	var view models.CommentView
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		if err := getComment(txn, id, &view.Comment); err != nil {
			return err
		}
		var err error
		view.Author, err = loadAuthor(txn, view.AuthorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// CountByPost returns the number of comments on a post.
func (r *BadgerCommentRepository) CountByPost(ctx context.Context, postID int64) (int, error) {
	var count int
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		count = countPrefix(txn, commentPrefix(postID))
		return nil
	})
	return count, err
}

// ListByPost retrieves a window of comments for a post, oldest first
func (r *BadgerCommentRepository) ListByPost(ctx context.Context, postID int64, limit, offset int) ([]*models.CommentView, error) {
	views := []*models.CommentView{}
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		prefix := commentPrefix(postID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		var comments []*models.Comment
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var comment models.Comment
			if err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &comment)
			}); err != nil {
				return err
			}
			comments = append(comments, &comment)
		}
		// Keys are already in id order; a stable sort keeps it for equal timestamps.
		sort.SliceStable(comments, func(i, j int) bool {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		})

		for _, comment := range window(comments, limit, offset) {
			author, err := loadAuthor(txn, comment.AuthorID)
			if err != nil {
				return err
			}
			views = append(views, &models.CommentView{Comment: *comment, Author: author})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// Update updates an existing comment
func (r *BadgerCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.store.update(ctx, func(txn *badger.Txn) error {
		var existing models.Comment
		if err := getComment(txn, comment.ID, &existing); err != nil {
			return err
		}
		// A comment never moves between posts.
		comment.PostID = existing.PostID
		return setEntity(txn, commentKey(comment.PostID, comment.ID), comment)
	})
}

// Delete deletes a comment by ID
func (r *BadgerCommentRepository) Delete(ctx context.Context, id int64) error {
	return r.store.update(ctx, func(txn *badger.Txn) error {
		postID, err := getInt64(txn, commentIndexKey(id))
		if err != nil {
			return err
		}
		if err := txn.Delete(commentKey(postID, id)); err != nil {
			return err
		}
		return txn.Delete(commentIndexKey(id))
	})
}

func getComment(txn *badger.Txn, id int64, comment *models.Comment) error {
	postID, err := getInt64(txn, commentIndexKey(id))
	if err != nil {
		return err
	}
	return getEntity(txn, commentKey(postID, id), comment)
}
