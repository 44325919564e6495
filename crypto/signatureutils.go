package crypto

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/pkg/errors"

	"github.com/starnotary/starnotary/common"
)

// SignatureLength is the size of a recoverable ECDSA signature:
// 64 bytes [R || S] plus 1 byte recovery id.
const SignatureLength = 64 + 1

// textPrefix is the prefix applied to personal messages before hashing. It
// matches the convention widely implemented by wallet software, so any
// standard wallet can produce a verifiable challenge signature.
const textPrefix = "\x19Ethereum Signed Message:\n"

// TextHash prefixes the given message with the personal-message header and
// returns its keccak256 digest.
func TextHash(msg common.Bytes) common.Hash {
	return keccak256Hash([]byte(fmt.Sprintf("%s%d", textPrefix, len(msg))), msg)
}

// RecoverSigner recovers the address that produced the given signature over
// the given digest.
func RecoverSigner(digest common.Hash, sig *Signature) (common.Address, error) {
	pubBytes, err := ecrecover(digest[:], sig.ToBytes())
	if err != nil {
		return common.Address{}, err
	}
	if len(pubBytes) == 0 || pubBytes[0] != 4 {
		return common.Address{}, errors.New("invalid recovered public key")
	}
	return common.BytesToAddress(keccak256(pubBytes[1:])[12:]), nil
}

// sign calculates a recoverable ECDSA signature over the given 32 byte hash.
// The produced signature is in the [R || S || V] format where V is 0 or 1.
func sign(hash []byte, prv *ecdsa.PrivateKey) ([]byte, error) {
	if len(hash) != common.HashLength {
		return nil, errors.Errorf("hash is required to be exactly 32 bytes (%d)", len(hash))
	}
	seckey := secp256k1.PrivKeyFromBytes(fromECDSA(prv))
	defer seckey.Zero()

	// SignCompact returns [V+27 || R || S], rotate to [R || S || V].
	compact := secpecdsa.SignCompact(seckey, hash, false)
	sig := make([]byte, SignatureLength)
	copy(sig, compact[1:])
	sig[64] = compact[0] - 27
	return sig, nil
}

// ecrecover returns the uncompressed public key that created the given
// signature. The signature must be in the [R || S || V] format.
func ecrecover(hash, sig []byte) ([]byte, error) {
	if len(sig) != SignatureLength {
		return nil, errors.Errorf("invalid signature length: %v", len(sig))
	}
	if sig[64] >= 4 {
		return nil, errors.New("invalid recovery id")
	}
	compact := make([]byte, SignatureLength)
	compact[0] = sig[64] + 27
	copy(compact[1:], sig)

	pub, _, err := secpecdsa.RecoverCompact(compact, hash)
	if err != nil {
		return nil, err
	}
	return pub.SerializeUncompressed(), nil
}
