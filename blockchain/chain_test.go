package blockchain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/starnotary/starnotary/common"
	"github.com/starnotary/starnotary/core"
)

func TestFreshChainHasGenesis(t *testing.T) {
	assert := assert.New(t)

	chain := CreateTestChain(t)
	assert.Equal(uint64(0), chain.Height())

	genesis, err := chain.FindBlockByHeight(0)
	assert.Nil(err)
	assert.NotNil(genesis)
	assert.True(genesis.IsGenesis())
	assert.True(genesis.PrevHash.IsEmpty())
	assert.True(genesis.SelfCheck())

	body, err := genesis.DecodeBody()
	assert.Nil(err)
	assert.Equal(core.GenesisBodyData, body.Data)
}

func TestAddBlock(t *testing.T) {
	assert := assert.New(t)

	chain := CreateTestChain(t)
	owner := common.HexToAddress("0x2E833968E5bB786Ae419c4d13189fB081Cc43bab")

	b1, err := chain.AddBlock(CreateTestClaimBody(t, owner, "first"))
	assert.Nil(err)
	assert.Equal(uint64(1), b1.Height)
	assert.Equal(uint64(1), chain.Height())

	b2, err := chain.AddBlock(CreateTestClaimBody(t, owner, "second"))
	assert.Nil(err)
	assert.Equal(uint64(2), b2.Height)
	assert.Equal(uint64(2), chain.Height())

	// Linkage: every block points at the hash of its predecessor.
	genesis, err := chain.FindBlockByHeight(0)
	assert.Nil(err)
	assert.Equal(genesis.Hash(), b1.PrevHash)
	assert.Equal(b1.Hash(), b2.PrevHash)
}

func TestFindBlockByHash(t *testing.T) {
	assert := assert.New(t)

	chain := CreateTestChain(t)
	owner := common.HexToAddress("0x2E833968E5bB786Ae419c4d13189fB081Cc43bab")
	committed, err := chain.AddBlock(CreateTestClaimBody(t, owner, "findme"))
	assert.Nil(err)

	found, err := chain.FindBlockByHash(committed.Hash())
	assert.Nil(err)
	assert.Equal(committed.Hash(), found.Hash())
	assert.Equal(committed.Body, found.Body)

	_, err = chain.FindBlockByHash(common.HexToHash("0x1234"))
	assert.ErrorIs(err, ErrBlockNotFound)
}

func TestFindBlockByHeightMiss(t *testing.T) {
	assert := assert.New(t)

	chain := CreateTestChain(t)
	block, err := chain.FindBlockByHeight(42)
	assert.Nil(err)
	assert.Nil(block)
}

func TestStarsByOwner(t *testing.T) {
	assert := assert.New(t)

	chain := CreateTestChain(t)
	alice := common.HexToAddress("0x2E833968E5bB786Ae419c4d13189fB081Cc43bab")
	bob := common.HexToAddress("0x9F1233798E905E173560071255140b4A8abd3Ec6")

	_, err := chain.AddBlock(CreateTestClaimBody(t, alice, "alice 1"))
	assert.Nil(err)
	_, err = chain.AddBlock(CreateTestClaimBody(t, bob, "bob 1"))
	assert.Nil(err)
	_, err = chain.AddBlock(CreateTestClaimBody(t, alice, "alice 2"))
	assert.Nil(err)

	stars, err := chain.StarsByOwner(alice)
	assert.Nil(err)
	assert.Equal(2, len(stars))
	assert.Equal("alice 1", stars[0].Story)
	assert.Equal("alice 2", stars[1].Story)

	stars, err = chain.StarsByOwner(bob)
	assert.Nil(err)
	assert.Equal(1, len(stars))
	assert.Equal("bob 1", stars[0].Story)

	stars, err = chain.StarsByOwner(common.HexToAddress("0xdead"))
	assert.Nil(err)
	assert.Equal(0, len(stars))
}

func TestAddBlockRefusedOnCorruption(t *testing.T) {
	assert := assert.New(t)

	chain := CreateTestChain(t)
	owner := common.HexToAddress("0x2E833968E5bB786Ae419c4d13189fB081Cc43bab")
	_, err := chain.AddBlock(CreateTestClaimBody(t, owner, "ok"))
	assert.Nil(err)

	CorruptTestBlock(t, chain, 1)

	_, err = chain.AddBlock(CreateTestClaimBody(t, owner, "rejected"))
	assert.ErrorIs(err, ErrChainCorrupt)

	// The refused append must leave the chain exactly as it was.
	assert.Equal(uint64(1), chain.Height())

	// Writes stay halted: a retry re-audits and fails again.
	_, err = chain.AddBlock(CreateTestClaimBody(t, owner, "still rejected"))
	assert.ErrorIs(err, ErrChainCorrupt)
}

func TestConcurrentAppends(t *testing.T) {
	assert := assert.New(t)

	chain := CreateTestChain(t)
	owner := common.HexToAddress("0x2E833968E5bB786Ae419c4d13189fB081Cc43bab")

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := chain.AddBlock(CreateTestClaimBody(t, owner, "concurrent"))
			assert.Nil(err)
		}()
	}
	wg.Wait()

	assert.Equal(uint64(n), chain.Height())

	// Heights are contiguous and linkage intact.
	defects := NewChainValidator(chain).WalkAndValidate()
	assert.Equal(0, len(defects))

	seen := map[common.Hash]bool{}
	for h := uint64(0); h <= chain.Height(); h++ {
		block, err := chain.FindBlockByHeight(h)
		assert.Nil(err)
		assert.NotNil(block)
		assert.Equal(h, block.Height)
		assert.False(seen[block.Hash()])
		seen[block.Hash()] = true
	}
}
