package kvstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/starnotary/starnotary/common"
	"github.com/starnotary/starnotary/store"
	"github.com/starnotary/starnotary/store/database/backend"
)

type testEntry struct {
	Name  string      `json:"name"`
	Count uint64      `json:"count"`
	Hash  common.Hash `json:"hash"`
}

func TestKVStoreRoundTrip(t *testing.T) {
	assert := assert.New(t)

	kv := NewKVStore(backend.NewMemDatabase())

	key := common.Bytes("entry/1")
	in := testEntry{Name: "polaris", Count: 42, Hash: common.HexToHash("0xabcd")}
	assert.Nil(kv.Put(key, in))

	out := testEntry{}
	assert.Nil(kv.Get(key, &out))
	assert.Equal(in, out)

	assert.Nil(kv.Delete(key))
	err := kv.Get(key, &out)
	assert.ErrorIs(err, store.ErrKeyNotFound)
}

func TestKVStoreMissingKey(t *testing.T) {
	assert := assert.New(t)

	kv := NewKVStore(backend.NewMemDatabase())
	out := testEntry{}
	assert.ErrorIs(kv.Get(common.Bytes("nope"), &out), store.ErrKeyNotFound)
}

func TestKVStoreOverwrite(t *testing.T) {
	assert := assert.New(t)

	kv := NewKVStore(backend.NewMemDatabase())
	key := common.Bytes("entry/1")
	assert.Nil(kv.Put(key, testEntry{Name: "old"}))
	assert.Nil(kv.Put(key, testEntry{Name: "new"}))

	out := testEntry{}
	assert.Nil(kv.Get(key, &out))
	assert.Equal("new", out.Name)
}
