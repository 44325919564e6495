package blockchain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/starnotary/starnotary/common"
)

func TestWalkAndValidateSoundChain(t *testing.T) {
	assert := assert.New(t)

	chain := CreateTestChain(t)
	owner := common.HexToAddress("0x2E833968E5bB786Ae419c4d13189fB081Cc43bab")
	for i := 0; i < 5; i++ {
		_, err := chain.AddBlock(CreateTestClaimBody(t, owner, "sound"))
		assert.Nil(err)
	}

	defects := NewChainValidator(chain).WalkAndValidate()
	assert.Equal(0, len(defects))
}

func TestWalkAndValidateDetectsTampering(t *testing.T) {
	assert := assert.New(t)

	chain := CreateTestChain(t)
	owner := common.HexToAddress("0x2E833968E5bB786Ae419c4d13189fB081Cc43bab")
	for i := 0; i < 4; i++ {
		_, err := chain.AddBlock(CreateTestClaimBody(t, owner, "tamper"))
		assert.Nil(err)
	}

	CorruptTestBlock(t, chain, 2)

	defects := NewChainValidator(chain).WalkAndValidate()
	assert.Equal(1, len(defects))
	assert.Equal(uint64(2), uint64(defects[0].Height))
	assert.Contains(defects[0].Reason, "hash does not match")
}

func TestWalkAndValidateCollectsAllDefects(t *testing.T) {
	assert := assert.New(t)

	chain := CreateTestChain(t)
	owner := common.HexToAddress("0x2E833968E5bB786Ae419c4d13189fB081Cc43bab")
	for i := 0; i < 6; i++ {
		_, err := chain.AddBlock(CreateTestClaimBody(t, owner, "multi"))
		assert.Nil(err)
	}

	CorruptTestBlock(t, chain, 1)
	CorruptTestBlock(t, chain, 4)

	defects := NewChainValidator(chain).WalkAndValidate()
	assert.Equal(2, len(defects))
	assert.Equal(uint64(1), uint64(defects[0].Height))
	assert.Equal(uint64(4), uint64(defects[1].Height))
}

func TestWalkAndValidateDoesNotMutate(t *testing.T) {
	assert := assert.New(t)

	chain := CreateTestChain(t)
	owner := common.HexToAddress("0x2E833968E5bB786Ae419c4d13189fB081Cc43bab")
	_, err := chain.AddBlock(CreateTestClaimBody(t, owner, "immutable"))
	assert.Nil(err)

	before := chain.Height()
	validator := NewChainValidator(chain)
	validator.WalkAndValidate()
	validator.WalkAndValidate()
	assert.Equal(before, chain.Height())

	defects := validator.WalkAndValidate()
	assert.Equal(0, len(defects))
}
