package core

import (
	"encoding/json"
	"fmt"

	"github.com/starnotary/starnotary/common"
	"github.com/starnotary/starnotary/common/result"
	"github.com/starnotary/starnotary/crypto"
)

// GenesisHeight is the height reserved for the genesis block.
const GenesisHeight uint64 = 0

// Block represents a single entry of the ledger. Once sealed and committed
// its fields never change.
type Block struct {
	Height    uint64
	Timestamp uint64 // unix seconds, captured at sealing
	PrevHash  common.Hash
	Body      string // opaque hex-of-JSON encoding of the payload

	hash common.Hash // cache of the calculated hash
}

// NewBlock creates a new unsealed Block carrying the given encoded body.
func NewBlock(body string) *Block {
	return &Block{Body: body}
}

func (b *Block) String() string {
	if b == nil {
		return "nil"
	}
	return fmt.Sprintf("Block{Height: %v, Timestamp: %v, PrevHash: %v, Hash: %v, Body: %v}",
		b.Height, b.Timestamp, b.PrevHash.Hex(), b.Hash().Hex(), b.Body)
}

// Seal assigns the linkage and position fields and computes the block hash.
// Called exactly once per block, after the body is fixed.
func (b *Block) Seal(prevHash common.Hash, height uint64, timestamp uint64) {
	b.PrevHash = prevHash
	b.Height = height
	b.Timestamp = timestamp
	b.hash = b.calculateHash()
}

// Hash returns the hash assigned at seal time.
func (b *Block) Hash() common.Hash {
	if b == nil {
		return common.Hash{}
	}
	return b.hash
}

// SelfCheck recomputes the digest from the block's current fields and reports
// whether it still equals the hash assigned at seal time.
func (b *Block) SelfCheck() bool {
	return b.hash == b.calculateHash()
}

// IsGenesis indicates whether this is the genesis block.
func (b *Block) IsGenesis() bool {
	return b.Height == GenesisHeight
}

// Validate checks the block is legitimate.
func (b *Block) Validate() result.Result {
	if b.hash.IsEmpty() {
		return result.Error("block is not sealed").WithErrorCode(result.CodeUnsealedBlock)
	}
	if len(b.Body) == 0 {
		return result.Error("block body is empty").WithErrorCode(result.CodeEmptyBody)
	}
	if !b.SelfCheck() {
		return result.Error("block hash does not match its contents")
	}
	return result.OK
}

// sealBytes returns the canonical encoding of the block's fields, excluding
// the stored hash itself.
func (b *Block) sealBytes() common.Bytes {
	r := struct {
		Height    common.JSONUint64 `json:"height"`
		Timestamp common.JSONUint64 `json:"time"`
		PrevHash  common.Hash       `json:"previousBlockHash"`
		Body      string            `json:"body"`
	}{
		Height:    common.JSONUint64(b.Height),
		Timestamp: common.JSONUint64(b.Timestamp),
		PrevHash:  b.PrevHash,
		Body:      b.Body,
	}
	raw, _ := json.Marshal(r)
	return raw
}

func (b *Block) calculateHash() common.Hash {
	return crypto.Keccak256Hash(b.sealBytes())
}

// DecodeBody decodes the stored body into its structured payload.
func (b *Block) DecodeBody() (*ClaimBody, error) {
	return DecodeBody(b.Body)
}

type blockJSON struct {
	Height    common.JSONUint64 `json:"height"`
	Timestamp common.JSONUint64 `json:"time"`
	PrevHash  *common.Hash      `json:"previousBlockHash,omitempty"`
	Hash      common.Hash       `json:"hash"`
	Body      string            `json:"body"`
}

// MarshalJSON implements json.Marshaler. The previous block hash is omitted
// for the genesis block.
func (b *Block) MarshalJSON() ([]byte, error) {
	r := blockJSON{
		Height:    common.JSONUint64(b.Height),
		Timestamp: common.JSONUint64(b.Timestamp),
		Hash:      b.Hash(),
		Body:      b.Body,
	}
	if !b.IsGenesis() {
		prevHash := b.PrevHash
		r.PrevHash = &prevHash
	}
	return json.Marshal(r)
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Block) UnmarshalJSON(data []byte) error {
	r := blockJSON{}
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	b.Height = uint64(r.Height)
	b.Timestamp = uint64(r.Timestamp)
	if r.PrevHash != nil {
		b.PrevHash = *r.PrevHash
	} else {
		b.PrevHash = common.Hash{}
	}
	b.Body = r.Body
	b.hash = r.Hash
	return nil
}
