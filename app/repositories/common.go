package repositories

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Badger key layout. Ids are zero padded so key order is id order.
const (
	PostKeyPrefix      = "post:"         // post:<post>
	CommentKeyPrefix   = "comment:"      // comment:<post>:<comment>
	CommentIndexPrefix = "comment-post:" // comment-post:<comment> -> <post>
	LikeKeyPrefix      = "like:"         // like:<post>:<user>
	UserKeyPrefix      = "user:"         // user:<user>
	UsernameKeyPrefix  = "username:"     // username:<name> -> <user>

	// Sequence keys for auto-incrementing IDs
	PostSeqKey    = "seq:post"
	CommentSeqKey = "seq:comment"
	UserSeqKey    = "seq:user"
)

func postKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", PostKeyPrefix, id))
}

func commentPrefix(postID int64) []byte {
	return []byte(fmt.Sprintf("%s%020d:", CommentKeyPrefix, postID))
}

func commentKey(postID, id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d:%020d", CommentKeyPrefix, postID, id))
}

func commentIndexKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", CommentIndexPrefix, id))
}

func likePrefix(postID int64) []byte {
	return []byte(fmt.Sprintf("%s%020d:", LikeKeyPrefix, postID))
}

func likeKey(postID, userID int64) []byte {
	return []byte(fmt.Sprintf("%s%020d:%020d", LikeKeyPrefix, postID, userID))
}

func userKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", UserKeyPrefix, id))
}

func usernameKey(username string) []byte {
	return []byte(UsernameKeyPrefix + username)
}

// lastID parses the id after the final ':' of a key.
func lastID(key []byte) (int64, error) {
	s := string(key)
	return strconv.ParseInt(s[strings.LastIndexByte(s, ':')+1:], 10, 64)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// getNextID gets the next available ID for a given sequence key
func getNextID(txn *badger.Txn, seqKey string) (int64, error) {
	var id int64
	item, err := txn.Get([]byte(seqKey))
	if err == badger.ErrKeyNotFound {
		id = 1
	} else if err != nil {
		return 0, fmt.Errorf("failed to get sequence: %w", err)
	} else {
		err = item.Value(func(val []byte) error {
			id, err = strconv.ParseInt(string(val), 10, 64)
			if err != nil {
				return fmt.Errorf("failed to parse sequence: %w", err)
			}
			id++
			return nil
		})
		if err != nil {
			return 0, err
		}
	}

	// Update the sequence
	err = txn.Set([]byte(seqKey), []byte(formatID(id)))
	if err != nil {
		return 0, fmt.Errorf("failed to update sequence: %w", err)
	}

	return id, nil
}

// getInt64 reads a key whose value is a decimal id.
func getInt64(txn *badger.Txn, key []byte) (int64, error) {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	var id int64
	err = item.Value(func(val []byte) error {
		id, err = strconv.ParseInt(string(val), 10, 64)
		return err
	})
	return id, err
}

// getEntity loads and unmarshals key into v, mapping a missing key to ErrNotFound.
func getEntity(txn *badger.Txn, key []byte, v interface{}) error {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, v)
	})
}

// setEntity marshals v under key.
func setEntity(txn *badger.Txn, key []byte, v interface{}) error {
	data, err := marshalEntity(v)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// exists reports whether key is present.
func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	return err == nil, err
}

// countPrefix counts the keys under prefix without fetching values.
func countPrefix(txn *badger.Txn, prefix []byte) int {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	count := 0
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		count++
	}
	return count
}

// keysWithPrefix copies every key under prefix.
func keysWithPrefix(txn *badger.Txn, prefix []byte) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

// marshalEntity marshals an entity to JSON
func marshalEntity(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}
