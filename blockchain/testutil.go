package blockchain

import (
	"testing"

	"github.com/starnotary/starnotary/common"
	"github.com/starnotary/starnotary/core"
	"github.com/starnotary/starnotary/store/database/backend"
	"github.com/starnotary/starnotary/store/kvstore"
)

// CreateTestChain creates a fresh chain over an in-memory store.
func CreateTestChain(t *testing.T) *Chain {
	chain, err := NewChain(kvstore.NewKVStore(backend.NewMemDatabase()))
	if err != nil {
		t.Fatalf("Failed to create test chain: %v", err)
	}
	return chain
}

// CreateTestClaimBody encodes a claim body for the given owner with a fixed
// star payload.
func CreateTestClaimBody(t *testing.T, owner common.Address, story string) string {
	body, err := core.EncodeBody(&core.ClaimBody{
		Owner: owner,
		Star: &core.Star{
			RA:    "16h 29m 1.0s",
			Dec:   "68° 52' 56.9",
			Story: story,
		},
	})
	if err != nil {
		t.Fatalf("Failed to encode claim body: %v", err)
	}
	return body
}

// CorruptTestBlock overwrites the stored body of the block at the given
// height without recomputing its digest.
func CorruptTestBlock(t *testing.T, chain *Chain, height uint64) {
	block, err := chain.findBlockByHeight(height)
	if err != nil {
		t.Fatalf("Failed to load block at height %v: %v", height, err)
	}
	raw := map[string]interface{}{}
	if err := chain.store.Get(blockKey(block.Hash()), &raw); err != nil {
		t.Fatalf("Failed to load raw block: %v", err)
	}
	raw["body"] = "deadbeef"
	if err := chain.store.Put(blockKey(block.Hash()), raw); err != nil {
		t.Fatalf("Failed to write corrupted block: %v", err)
	}
}
