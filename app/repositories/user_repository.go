package repositories

import (
	"context"

	"postboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerUserRepository implements UserRepository using BadgerDB
type BadgerUserRepository struct {
	store *BadgerStore
}

// Create creates a new user, reserving the username.
func (r *BadgerUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.store.update(ctx, func(txn *badger.Txn) error {
		taken, err := exists(txn, usernameKey(user.Username))
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicate
		}

		id, err := getNextID(txn, UserSeqKey)
		if err != nil {
			return err
		}
		user.ID = id

		if err := setEntity(txn, userKey(user.ID), user); err != nil {
			return err
		}
		return txn.Set(usernameKey(user.Username), []byte(formatID(user.ID)))
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		return getEntity(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by exact username
func (r *BadgerUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		id, err := getInt64(txn, usernameKey(username))
		if err != nil {
			return err
		}
		return getEntity(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
