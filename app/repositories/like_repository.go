package repositories

import (
	"context"

	"github.com/dgraph-io/badger/v4"
)

// BadgerLikeRepository stores each like as an empty key like:<post>:<user>,
// so membership is a key lookup and the total is a prefix count.
type BadgerLikeRepository struct {
	store *BadgerStore
}

// Toggle flips the like of userID on postID.
func (r *BadgerLikeRepository) Toggle(ctx context.Context, postID, userID int64) (bool, int, error) {
	var liked bool
	var total int
	err := r.store.update(ctx, func(txn *badger.Txn) error {
		ok, err := exists(txn, postKey(postID))
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}

		key := likeKey(postID, userID)
		was, err := exists(txn, key)
		if err != nil {
			return err
		}
		if was {
			err = txn.Delete(key)
		} else {
			err = txn.Set(key, nil)
		}
		if err != nil {
			return err
		}
		liked = !was
		// Iterators see the transaction's own pending writes.
		total = countPrefix(txn, likePrefix(postID))
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return liked, total, nil
}

// Count returns the number of users liking postID.
func (r *BadgerLikeRepository) Count(ctx context.Context, postID int64) (int, error) {
	var total int
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		total = countPrefix(txn, likePrefix(postID))
		return nil
	})
	return total, err
}

// IsLiked reports whether userID likes postID.
func (r *BadgerLikeRepository) IsLiked(ctx context.Context, postID, userID int64) (bool, error) {
	var liked bool
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		var err error
		liked, err = exists(txn, likeKey(postID, userID))
		return err
	})
	return liked, err
}
