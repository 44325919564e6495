package registry

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/starnotary/starnotary/blockchain"
	"github.com/starnotary/starnotary/common"
	"github.com/starnotary/starnotary/core"
	"github.com/starnotary/starnotary/crypto"
)

var logger *log.Entry = log.WithFields(log.Fields{"prefix": "registry"})

// challengeSuffix terminates every ownership challenge message.
const challengeSuffix = "starRegistry"

var (
	// ErrMalformedMessage indicates a challenge message that does not match
	// the <address>:<unixSeconds>:starRegistry grammar.
	ErrMalformedMessage = errors.New("malformed challenge message")

	// ErrExpiredChallenge indicates the challenge was issued longer ago than
	// the freshness window allows.
	ErrExpiredChallenge = errors.New("challenge expired")

	// ErrInvalidSignature indicates the signature does not verify against
	// the claimed address.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidStar indicates the star payload is missing required fields.
	ErrInvalidStar = errors.New("invalid star payload")
)

// OwnershipVerifier issues time-stamped challenges and gates new claims on
// challenge freshness and signature validity before delegating to the chain.
type OwnershipVerifier struct {
	chain *blockchain.Chain
}

// NewOwnershipVerifier creates a verifier gating appends to the given chain.
func NewOwnershipVerifier(chain *blockchain.Chain) *OwnershipVerifier {
	return &OwnershipVerifier{chain: chain}
}

// GenerateChallenge returns the message the wallet must sign to prove
// control of the given address. The embedded timestamp is the sole
// freshness anchor.
func (v *OwnershipVerifier) GenerateChallenge(address common.Address) string {
	return fmt.Sprintf("%s:%d:%s", address.Hex(), time.Now().Unix(), challengeSuffix)
}

// VerifyAndClaim validates the signed challenge and, on success, registers
// the star as a new block owned by the given address. Any validation
// failure rejects the claim before the chain is touched.
func (v *OwnershipVerifier) VerifyAndClaim(address common.Address, message string, signature *crypto.Signature, star *core.Star) (*core.Block, error) {
	issuedAt, err := parseChallenge(message)
	if err != nil {
		return nil, err
	}

	window := viper.GetInt64(common.CfgRegistryChallengeWindowSecs)
	elapsed := time.Now().Unix() - issuedAt
	if elapsed > window {
		return nil, errors.Wrapf(ErrExpiredChallenge, "issued %v seconds ago, window is %v", elapsed, window)
	}

	if signature == nil || !signature.VerifyText(common.Bytes(message), address) {
		logger.WithFields(log.Fields{"address": address.Hex()}).Warn("Claim rejected: signature verification failed")
		return nil, errors.Wrapf(ErrInvalidSignature, "address %v", address.Hex())
	}

	if res := star.Validate(); res.IsError() {
		return nil, errors.Wrap(ErrInvalidStar, res.Message)
	}

	body, err := core.EncodeBody(&core.ClaimBody{Owner: address, Star: star})
	if err != nil {
		return nil, err
	}
	block, err := v.chain.AddBlock(body)
	if err != nil {
		return nil, err
	}

	logger.WithFields(log.Fields{
		"address": address.Hex(),
		"height":  block.Height,
		"hash":    block.Hash().Hex(),
	}).Info("Star registered")

	return block, nil
}

// parseChallenge extracts the issuance timestamp from a challenge message,
// enforcing the three-field colon-delimited grammar.
func parseChallenge(message string) (int64, error) {
	parts := strings.Split(message, ":")
	if len(parts) != 3 {
		return 0, errors.Wrapf(ErrMalformedMessage, "expected 3 fields, got %v", len(parts))
	}
	if parts[2] != challengeSuffix {
		return 0, errors.Wrapf(ErrMalformedMessage, "unexpected suffix %q", parts[2])
	}
	issuedAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedMessage, "bad timestamp %q", parts[1])
	}
	return issuedAt, nil
}
