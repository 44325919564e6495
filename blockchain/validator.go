package blockchain

import (
	"fmt"

	"github.com/starnotary/starnotary/common"
)

// IntegrityError describes one defect found while auditing the chain.
type IntegrityError struct {
	Height    common.JSONUint64 `json:"height"`
	BlockHash common.Hash       `json:"hash"`
	Reason    string            `json:"reason"`
}

func (e IntegrityError) Error() string {
	return fmt.Sprintf("block %v (height %v): %v", e.BlockHash.Hex(), uint64(e.Height), e.Reason)
}

// ChainValidator is a read-only auditor of a Chain. It walks every committed
// block in ascending height order verifying per-block integrity and linkage,
// and reports the complete list of defects rather than stopping at the first.
type ChainValidator struct {
	chain *Chain
}

// NewChainValidator creates a validator for the given chain.
func NewChainValidator(chain *Chain) *ChainValidator {
	return &ChainValidator{chain: chain}
}

// WalkAndValidate audits the whole chain. An empty list means the chain is
// sound. The chain is never mutated.
func (v *ChainValidator) WalkAndValidate() []IntegrityError {
	v.chain.mu.RLock()
	defer v.chain.mu.RUnlock()
	return v.chain.audit()
}
