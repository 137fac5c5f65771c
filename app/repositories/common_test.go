package repositories

import (
	"testing"

	"postboard/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNextID(t *testing.T) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	defer db.Close()

	t.Run("first ID", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			id, err := getNextID(txn, PostSeqKey)
			assert.NoError(t, err)
			assert.Equal(t, int64(1), id)
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("sequential IDs", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			for i := int64(2); i <= 5; i++ {
				id, err := getNextID(txn, PostSeqKey)
				assert.NoError(t, err)
				assert.Equal(t, i, id)
			}
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("different sequence keys", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			commentID, err := getNextID(txn, CommentSeqKey)
			assert.NoError(t, err)
			assert.Equal(t, int64(1), commentID, "Comment sequence should start from 1")
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("persistence across transactions", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			id, err := getNextID(txn, UserSeqKey)
			assert.NoError(t, err)
			assert.Equal(t, int64(1), id)
			return nil
		})
		assert.NoError(t, err)

		err = db.Update(func(txn *badger.Txn) error {
			id, err := getNextID(txn, UserSeqKey)
			assert.NoError(t, err)
			assert.Equal(t, int64(2), id)
			return nil
		})
		assert.NoError(t, err)
	})
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "post:00000000000000000042", string(postKey(42)))
	assert.Equal(t, "comment:00000000000000000001:00000000000000000007", string(commentKey(1, 7)))
	assert.Equal(t, "like:00000000000000000003:", string(likePrefix(3)))

	id, err := lastID(commentKey(1, 7))
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	// Zero padding keeps lexical key order equal to numeric id order.
	assert.Less(t, string(postKey(9)), string(postKey(10)))
}

func TestMarshalEntity(t *testing.T) {
	t.Run("round trip post", func(t *testing.T) {
		post := &models.Post{ID: 1, Title: "Test Post", Content: "Test Content", AuthorID: 3}

		data, err := marshalEntity(post)
		require.NoError(t, err)

		var unmarshaled models.Post
		require.NoError(t, unmarshalEntity(data, &unmarshaled))
		assert.Equal(t, *post, unmarshaled)
	})

	t.Run("marshal invalid entity", func(t *testing.T) {
		_, err := marshalEntity(struct{ Ch chan int }{Ch: make(chan int)})
		assert.Error(t, err)
	})

	t.Run("unmarshal invalid JSON", func(t *testing.T) {
		var post models.Post
		assert.Error(t, unmarshalEntity([]byte(`{"id":1,invalid json}`), &post))
	})

	t.Run("unmarshal into nil", func(t *testing.T) {
		assert.Error(t, unmarshalEntity([]byte(`{"id":1}`), nil))
	})
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%golang%", likePattern("GoLang"))
	assert.Equal(t, `%100\% sure\_%`, likePattern("100% sure_"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}

func TestPageClause(t *testing.T) {
	clause, args := pageClause(0, 0, 1)
	assert.Empty(t, clause)
	assert.Nil(t, args)

	clause, args = pageClause(10, 20, 3)
	assert.Equal(t, " LIMIT $3 OFFSET $4", clause)
	assert.Equal(t, []interface{}{10, 20}, args)
}
