package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/starnotary/starnotary/store"
)

func TestMemDatabase(t *testing.T) {
	assert := assert.New(t)

	db := NewMemDatabase()

	key := []byte("k1")
	value := []byte("v1")
	assert.Nil(db.Put(key, value))

	has, err := db.Has(key)
	assert.Nil(err)
	assert.True(has)

	got, err := db.Get(key)
	assert.Nil(err)
	assert.Equal(value, got)

	// The stored value is a copy, mutating the original must not leak in.
	value[0] = 'x'
	got, err = db.Get(key)
	assert.Nil(err)
	assert.Equal([]byte("v1"), got)

	assert.Nil(db.Delete(key))
	_, err = db.Get(key)
	assert.ErrorIs(err, store.ErrKeyNotFound)
	assert.Equal(0, db.Len())
}
