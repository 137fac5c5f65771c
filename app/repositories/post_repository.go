package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"postboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	store *BadgerStore
}

// Create creates a new post
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.store.update(ctx, func(txn *badger.Txn) error {
		// Get next ID
		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id

		return setEntity(txn, postKey(post.ID), post)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		return getEntity(txn, postKey(id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// View retrieves a post with its author and aggregates as seen by viewerID.
func (r *BadgerPostRepository) View(ctx context.Context, id, viewerID int64) (*models.PostView, error) {
	var view *models.PostView
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		var post models.Post
		if err := getEntity(txn, postKey(id), &post); err != nil {
			return err
		}
		var err error
		view, err = postView(txn, &post, viewerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Count returns the number of posts matching search.
func (r *BadgerPostRepository) Count(ctx context.Context, search string) (int, error) {
	var count int
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		posts, err := matchingPosts(txn, search)
		count = len(posts)
		return err
	})
	return count, err
}

// List retrieves a window of posts, newest first
func (r *BadgerPostRepository) List(ctx context.Context, q PostQuery) ([]*models.PostView, error) {
	views := []*models.PostView{}
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		posts, err := matchingPosts(txn, q.Search)
		if err != nil {
			return err
		}
		sort.Slice(posts, func(i, j int) bool {
			if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
				return posts[i].CreatedAt.After(posts[j].CreatedAt)
			}
			return posts[i].ID > posts[j].ID
		})

		for _, post := range window(posts, q.Limit, q.Offset) {
			view, err := postView(txn, post, q.ViewerID)
			if err != nil {
				return err
			}
			views = append(views, view)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(ctx context.Context, post *models.Post) error {
	return r.store.update(ctx, func(txn *badger.Txn) error {
		key := postKey(post.ID)

		// Verify post exists
		ok, err := exists(txn, key)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}

		return setEntity(txn, key, post)
	})
}

// Delete deletes a post by ID along with its comments and likes
func (r *BadgerPostRepository) Delete(ctx context.Context, id int64) error {
	return r.store.update(ctx, func(txn *badger.Txn) error {
		key := postKey(id)

		// Verify post exists
		ok, err := exists(txn, key)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}

		keys := [][]byte{key}
		for _, ck := range keysWithPrefix(txn, commentPrefix(id)) {
			commentID, err := lastID(ck)
			if err != nil {
				return fmt.Errorf("malformed comment key %q: %w", ck, err)
			}
			keys = append(keys, ck, commentIndexKey(commentID))
		}
		keys = append(keys, keysWithPrefix(txn, likePrefix(id))...)

		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// matchingPosts loads every post whose title or content contains search, ignoring case.
func matchingPosts(txn *badger.Txn, search string) ([]*models.Post, error) {
	needle := strings.ToLower(search)
	prefix := []byte(PostKeyPrefix)

	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var posts []*models.Post
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var post models.Post
		err := it.Item().Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal post: %w", err)
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(post.Title), needle) &&
			!strings.Contains(strings.ToLower(post.Content), needle) {
			continue
		}
		posts = append(posts, &post)
	}
	return posts, nil
}

func postView(txn *badger.Txn, post *models.Post, viewerID int64) (*models.PostView, error) {
	author, err := loadAuthor(txn, post.AuthorID)
	if err != nil {
		return nil, err
	}
	view := &models.PostView{
		Post:          *post,
		Author:        author,
		TotalLikes:    countPrefix(txn, likePrefix(post.ID)),
		TotalComments: countPrefix(txn, commentPrefix(post.ID)),
	}
	if viewerID > 0 {
		view.IsLiked, err = exists(txn, likeKey(post.ID, viewerID))
		if err != nil {
			return nil, err
		}
	}
	return view, nil
}

// loadAuthor returns the user with id, or a bare user carrying only the id
// when the account is gone.
func loadAuthor(txn *badger.Txn, id int64) (models.User, error) {
	var user models.User
	err := getEntity(txn, userKey(id), &user)
	if err == ErrNotFound {
		return models.User{ID: id}, nil
	}
	return user, err
}

// window applies limit and offset to a slice; a non-positive limit keeps the rest.
func window[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
