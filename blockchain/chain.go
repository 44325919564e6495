package blockchain

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/starnotary/starnotary/common"
	"github.com/starnotary/starnotary/core"
	"github.com/starnotary/starnotary/store"
)

var logger *log.Entry = log.WithFields(log.Fields{"prefix": "blockchain"})

var (
	// ErrBlockNotFound indicates a lookup for a hash no committed block has.
	ErrBlockNotFound = errors.New("block not found")

	// ErrChainCorrupt indicates the committed chain failed its integrity
	// audit. Appends are refused until the condition is remediated.
	ErrChainCorrupt = errors.New("chain corrupted")
)

// Chain owns the ordered, append-only sequence of blocks and is its sole
// mutator. The whole read-seal-audit-commit sequence of AddBlock runs under
// the write lock, so at most one append is in flight at a time and readers
// never observe a half-applied mutation.
type Chain struct {
	store store.Store

	mu     *sync.RWMutex
	height uint64
	tip    common.Hash
}

// NewChain creates a new Chain instance backed by the given store. The
// genesis block is synthesized and committed before NewChain returns, so no
// caller can observe a chain without it.
func NewChain(store store.Store) (*Chain, error) {
	chain := &Chain{
		store: store,
		mu:    &sync.RWMutex{},
	}

	genesis, err := chain.findBlockByHeight(core.GenesisHeight)
	if err != nil && !errors.Is(err, ErrBlockNotFound) {
		return nil, err
	}
	if genesis == nil {
		genesis = core.NewGenesisBlock(uint64(time.Now().Unix()))
		if err := chain.saveBlock(genesis); err != nil {
			return nil, err
		}
		logger.WithFields(log.Fields{"hash": genesis.Hash().Hex()}).Info("Genesis block committed")
	}

	// Recover the tip from the height index. Walking from zero keeps a
	// pre-populated store usable even though the default backend is
	// memory-resident.
	tip := genesis
	for {
		next, err := chain.findBlockByHeight(tip.Height + 1)
		if err != nil {
			if errors.Is(err, ErrBlockNotFound) {
				break
			}
			return nil, err
		}
		tip = next
	}
	chain.height = tip.Height
	chain.tip = tip.Hash()

	return chain, nil
}

// Height returns the highest committed height.
func (ch *Chain) Height() uint64 {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return ch.height
}

// AddBlock seals a new block carrying the given encoded body and commits it
// as the new tip. The existing chain is audited first; on any defect the
// append is refused with ErrChainCorrupt and the chain is left untouched.
func (ch *Chain) AddBlock(body string) (*core.Block, error) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	block := core.NewBlock(body)
	block.Seal(ch.tip, ch.height+1, uint64(time.Now().Unix()))

	if res := block.Validate(); res.IsError() {
		return nil, errors.Errorf("refusing to commit invalid block: %v", res.Message)
	}
	if defects := ch.audit(); len(defects) > 0 {
		logger.WithFields(log.Fields{"defects": len(defects)}).Error("Chain audit failed, refusing append")
		return nil, errors.Wrapf(ErrChainCorrupt, "%v defect(s), first: %v", len(defects), defects[0].Error())
	}

	if err := ch.saveBlock(block); err != nil {
		return nil, err
	}
	ch.height = block.Height
	ch.tip = block.Hash()

	logger.WithFields(log.Fields{
		"height": block.Height,
		"hash":   block.Hash().Hex(),
	}).Info("Block committed")

	return block, nil
}

// FindBlockByHash tries to retrieve the block with the given hash.
func (ch *Chain) FindBlockByHash(hash common.Hash) (*core.Block, error) {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return ch.findBlockByHash(hash)
}

// FindBlockByHeight tries to retrieve the block at the given height. A miss
// is not an error: the block pointer is nil when the height does not exist.
func (ch *Chain) FindBlockByHeight(height uint64) (*core.Block, error) {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	block, err := ch.findBlockByHeight(height)
	if errors.Is(err, ErrBlockNotFound) {
		return nil, nil
	}
	return block, err
}

// StarsByOwner collects the decoded star payloads of every block owned by
// the given address, in chain order. The genesis block is skipped.
func (ch *Chain) StarsByOwner(owner common.Address) ([]*core.Star, error) {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	stars := []*core.Star{}
	for height := core.GenesisHeight + 1; height <= ch.height; height++ {
		block, err := ch.findBlockByHeight(height)
		if err != nil {
			return nil, err
		}
		body, err := block.DecodeBody()
		if err != nil {
			return nil, errors.Wrapf(err, "block %v", block.Hash().Hex())
		}
		if body.Owner == owner {
			stars = append(stars, body.Star)
		}
	}
	return stars, nil
}

// ---------------------- Non-locking internals ----------------------- //

// audit walks the committed chain in ascending height order and collects
// every detected defect. Callers must hold the lock.
func (ch *Chain) audit() []IntegrityError {
	defects := []IntegrityError{}
	var prev *core.Block
	for height := core.GenesisHeight; height <= ch.height; height++ {
		block, err := ch.findBlockByHeight(height)
		if err != nil {
			defects = append(defects, IntegrityError{
				Height: common.JSONUint64(height),
				Reason: "block missing from store",
			})
			prev = nil
			continue
		}
		if !block.SelfCheck() {
			defects = append(defects, IntegrityError{
				Height:    common.JSONUint64(height),
				BlockHash: block.Hash(),
				Reason:    "block hash does not match its contents",
			})
		}
		if height > core.GenesisHeight && prev != nil && block.PrevHash != prev.Hash() {
			defects = append(defects, IntegrityError{
				Height:    common.JSONUint64(height),
				BlockHash: block.Hash(),
				Reason:    "previous block hash does not match preceding block",
			})
		}
		prev = block
	}
	return defects
}

func (ch *Chain) findBlockByHash(hash common.Hash) (*core.Block, error) {
	block := &core.Block{}
	if err := ch.store.Get(blockKey(hash), block); err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil, errors.Wrap(ErrBlockNotFound, hash.Hex())
		}
		return nil, err
	}
	return block, nil
}

func (ch *Chain) findBlockByHeight(height uint64) (*core.Block, error) {
	var hash common.Hash
	if err := ch.store.Get(blockByHeightIndexKey(height), &hash); err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil, errors.Wrapf(ErrBlockNotFound, "height %v", height)
		}
		return nil, err
	}
	return ch.findBlockByHash(hash)
}

func (ch *Chain) saveBlock(block *core.Block) error {
	if err := ch.store.Put(blockKey(block.Hash()), block); err != nil {
		return err
	}
	return ch.store.Put(blockByHeightIndexKey(block.Height), block.Hash())
}

// blockKey constructs the store key for the given block hash.
func blockKey(hash common.Hash) common.Bytes {
	return append(common.Bytes("b/"), hash.Bytes()...)
}

// blockByHeightIndexKey constructs the store key for the given block height.
func blockByHeightIndexKey(height uint64) common.Bytes {
	buf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(buf, height)
	return append(common.Bytes("bh/"), buf[:n]...)
}
