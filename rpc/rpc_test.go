package rpc

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/starnotary/starnotary/blockchain"
	"github.com/starnotary/starnotary/common"
	"github.com/starnotary/starnotary/core"
	"github.com/starnotary/starnotary/crypto"
	"github.com/starnotary/starnotary/registry"
)

func newTestServer(t *testing.T) (*StarNotaryRPCServer, *blockchain.Chain) {
	chain := blockchain.CreateTestChain(t)
	validator := blockchain.NewChainValidator(chain)
	verifier := registry.NewOwnershipVerifier(chain)
	return NewStarNotaryRPCServer(chain, validator, verifier), chain
}

func doJSON(t *testing.T, server *StarNotaryRPCServer, method, path string, body interface{}, out interface{}) int {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code
}

func TestEndToEndStarRegistration(t *testing.T) {
	assert := assert.New(t)

	server, chain := newTestServer(t)
	key, pubKey, err := crypto.GenerateKeyPair()
	assert.Nil(err)
	address := pubKey.Address()

	// Request a challenge.
	challenge := RequestChallengeResult{}
	code := doJSON(t, server, http.MethodPost, "/v1/challenge",
		RequestChallengeArgs{Address: address.Hex()}, &challenge)
	assert.Equal(http.StatusOK, code)
	assert.Contains(challenge.Message, address.Hex()+":")
	assert.Contains(challenge.Message, ":starRegistry")

	// Sign it out-of-band.
	sig, err := key.SignText(common.Bytes(challenge.Message))
	assert.Nil(err)

	// Submit the star.
	star := &core.Star{RA: "16h 29m 1.0s", Dec: "68° 52' 56.9", Story: "Testing the story 4"}
	submitted := SubmitStarResult{}
	code = doJSON(t, server, http.MethodPost, "/v1/stars", SubmitStarArgs{
		Address:   address.Hex(),
		Message:   challenge.Message,
		Signature: hex.EncodeToString(sig.ToBytes()),
		Star:      star,
	}, &submitted)
	assert.Equal(http.StatusCreated, code)
	assert.Equal(uint64(1), submitted.Block.Height)

	// Look the block up both ways.
	byHash := GetBlockResult{}
	code = doJSON(t, server, http.MethodGet, "/v1/blocks/hash/"+submitted.Block.Hash().Hex(), nil, &byHash)
	assert.Equal(http.StatusOK, code)
	assert.Equal(submitted.Block.Hash(), byHash.Block.Hash())

	byHeight := GetBlockResult{}
	code = doJSON(t, server, http.MethodGet, "/v1/blocks/height/1", nil, &byHeight)
	assert.Equal(http.StatusOK, code)
	assert.Equal(submitted.Block.Hash(), byHeight.Block.Hash())

	// The owner lookup returns the decoded star, not the opaque encoding.
	stars := GetStarsByOwnerResult{}
	code = doJSON(t, server, http.MethodGet, "/v1/stars/"+address.Hex(), nil, &stars)
	assert.Equal(http.StatusOK, code)
	assert.Equal(1, len(stars.Stars))
	assert.Equal("Testing the story 4", stars.Stars[0].Story)
	assert.Equal("16h 29m 1.0s", stars.Stars[0].RA)

	height := GetChainHeightResult{}
	code = doJSON(t, server, http.MethodGet, "/v1/chain/height", nil, &height)
	assert.Equal(http.StatusOK, code)
	assert.Equal(common.JSONUint64(1), height.Height)

	assert.Equal(uint64(1), chain.Height())
}

func TestSubmitStarRejections(t *testing.T) {
	assert := assert.New(t)

	server, chain := newTestServer(t)
	key, pubKey, err := crypto.GenerateKeyPair()
	assert.Nil(err)
	address := pubKey.Address()
	otherKey, _, err := crypto.GenerateKeyPair()
	assert.Nil(err)

	star := &core.Star{RA: "r", Dec: "d", Story: "s"}
	challenge := RequestChallengeResult{}
	doJSON(t, server, http.MethodPost, "/v1/challenge",
		RequestChallengeArgs{Address: address.Hex()}, &challenge)

	sign := func(k *crypto.PrivateKey, msg string) string {
		sig, err := k.SignText(common.Bytes(msg))
		assert.Nil(err)
		return hex.EncodeToString(sig.ToBytes())
	}

	// Malformed message.
	code := doJSON(t, server, http.MethodPost, "/v1/stars", SubmitStarArgs{
		Address: address.Hex(), Message: "garbage", Signature: sign(key, "garbage"), Star: star,
	}, nil)
	assert.Equal(http.StatusBadRequest, code)

	// Expired challenge.
	stale := fmt.Sprintf("%s:%d:starRegistry", address.Hex(), 1)
	code = doJSON(t, server, http.MethodPost, "/v1/stars", SubmitStarArgs{
		Address: address.Hex(), Message: stale, Signature: sign(key, stale), Star: star,
	}, nil)
	assert.Equal(http.StatusForbidden, code)

	// Signed by a different key.
	code = doJSON(t, server, http.MethodPost, "/v1/stars", SubmitStarArgs{
		Address: address.Hex(), Message: challenge.Message, Signature: sign(otherKey, challenge.Message), Star: star,
	}, nil)
	assert.Equal(http.StatusUnauthorized, code)

	// Signature that is not hex.
	code = doJSON(t, server, http.MethodPost, "/v1/stars", SubmitStarArgs{
		Address: address.Hex(), Message: challenge.Message, Signature: "zz", Star: star,
	}, nil)
	assert.Equal(http.StatusBadRequest, code)

	// Bad address.
	code = doJSON(t, server, http.MethodPost, "/v1/stars", SubmitStarArgs{
		Address: "1xyz", Message: challenge.Message, Signature: sign(key, challenge.Message), Star: star,
	}, nil)
	assert.Equal(http.StatusBadRequest, code)

	// Nothing landed on the chain.
	assert.Equal(uint64(0), chain.Height())
}

func TestLookupMisses(t *testing.T) {
	assert := assert.New(t)

	server, _ := newTestServer(t)

	code := doJSON(t, server, http.MethodGet,
		"/v1/blocks/hash/0x00000000000000000000000000000000000000000000000000000000000000ff", nil, nil)
	assert.Equal(http.StatusNotFound, code)

	byHeight := GetBlockResult{}
	code = doJSON(t, server, http.MethodGet, "/v1/blocks/height/99", nil, &byHeight)
	assert.Equal(http.StatusOK, code)
	assert.Nil(byHeight.Block)

	code = doJSON(t, server, http.MethodGet, "/v1/blocks/height/notanumber", nil, nil)
	assert.Equal(http.StatusBadRequest, code)
}

func TestAuditEndpoint(t *testing.T) {
	assert := assert.New(t)

	server, chain := newTestServer(t)
	owner := common.HexToAddress("0x2E833968E5bB786Ae419c4d13189fB081Cc43bab")
	_, err := chain.AddBlock(blockchain.CreateTestClaimBody(t, owner, "audit me"))
	assert.Nil(err)

	audit := AuditChainResult{}
	code := doJSON(t, server, http.MethodGet, "/v1/chain/audit", nil, &audit)
	assert.Equal(http.StatusOK, code)
	assert.Equal(0, len(audit.Defects))

	blockchain.CorruptTestBlock(t, chain, 1)
	code = doJSON(t, server, http.MethodGet, "/v1/chain/audit", nil, &audit)
	assert.Equal(http.StatusOK, code)
	assert.Equal(1, len(audit.Defects))
}
