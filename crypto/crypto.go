package crypto

import (
	"crypto/ecdsa"

	"github.com/pkg/errors"

	"github.com/starnotary/starnotary/common"
)

//
// PrivateKey represents the private key
//
type PrivateKey struct {
	privKey *ecdsa.PrivateKey
}

// PublicKey returns the public key corresponding to the private key
func (sk *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{pubKey: &sk.privKey.PublicKey}
}

// ToBytes returns the bytes representation of the private key
func (sk *PrivateKey) ToBytes() common.Bytes {
	return fromECDSA(sk.privKey)
}

// SaveToFile saves the private key to the designated file
func (sk *PrivateKey) SaveToFile(filepath string) error {
	return saveECDSA(filepath, sk.privKey)
}

// Sign signs the given message with the private key. The message is
// keccak256 hashed before signing.
func (sk *PrivateKey) Sign(msg common.Bytes) (*Signature, error) {
	digest := keccak256Hash(msg)
	sigBytes, err := sign(digest[:], sk.privKey)
	if err != nil {
		return nil, err
	}
	return &Signature{data: sigBytes}, nil
}

// SignText signs the given message with the private key, applying the
// personal-message prefix first so the signature cannot be replayed as a
// signature of raw data.
func (sk *PrivateKey) SignText(msg common.Bytes) (*Signature, error) {
	digest := TextHash(msg)
	sigBytes, err := sign(digest[:], sk.privKey)
	if err != nil {
		return nil, err
	}
	return &Signature{data: sigBytes}, nil
}

//
// PublicKey represents the public key
//
type PublicKey struct {
	pubKey *ecdsa.PublicKey
}

// Address returns the address corresponding to the public key
func (pk *PublicKey) Address() common.Address {
	pubBytes := fromECDSAPub(pk.pubKey)
	return common.BytesToAddress(keccak256(pubBytes[1:])[12:])
}

// IsEmpty indicates whether the public key is empty
func (pk *PublicKey) IsEmpty() bool {
	return pk.pubKey == nil || pk.pubKey.X == nil || pk.pubKey.Y == nil
}

// ToBytes returns the bytes representation of the public key
func (pk *PublicKey) ToBytes() common.Bytes {
	return fromECDSAPub(pk.pubKey)
}

//
// Signature represents the digital signature
//
type Signature struct {
	data common.Bytes
}

// ToBytes returns the bytes representation of the signature
func (sig *Signature) ToBytes() common.Bytes {
	return sig.data
}

// IsEmpty indicates whether the signature is empty
func (sig *Signature) IsEmpty() bool {
	return len(sig.data) == 0
}

// Verify verifies the signature against the given raw message and signer
// address. The message is keccak256 hashed before verification.
func (sig *Signature) Verify(msg common.Bytes, signer common.Address) bool {
	return verify(keccak256Hash(msg), sig, signer)
}

// VerifyText verifies the signature against the given personal message and
// signer address, applying the personal-message prefix before verification.
func (sig *Signature) VerifyText(msg common.Bytes, signer common.Address) bool {
	return verify(TextHash(msg), sig, signer)
}

func verify(digest common.Hash, sig *Signature, signer common.Address) bool {
	if sig.IsEmpty() {
		return false
	}
	recovered, err := RecoverSigner(digest, sig)
	if err != nil {
		return false
	}
	return recovered == signer
}

// ----------------------- Constructors ----------------------- //

// GenerateKeyPair generates a random private/public key pair
func GenerateKeyPair() (*PrivateKey, *PublicKey, error) {
	ske, err := generateKey()
	if err != nil {
		return nil, nil, err
	}
	return &PrivateKey{privKey: ske}, &PublicKey{pubKey: &ske.PublicKey}, nil
}

// PrivateKeyFromFile loads the private key from the given file
func PrivateKeyFromFile(filepath string) (*PrivateKey, error) {
	privKey, err := loadECDSA(filepath)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{privKey: privKey}, nil
}

// PrivateKeyFromHex parses a hex-encoded secp256k1 private key
func PrivateKeyFromHex(hexkey string) (*PrivateKey, error) {
	privKey, err := hexToECDSA(hexkey)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{privKey: privKey}, nil
}

// SignatureFromBytes parses the given bytes as a [R || S || V] signature
func SignatureFromBytes(data common.Bytes) (*Signature, error) {
	if len(data) != SignatureLength {
		return nil, errors.Errorf("invalid signature length: %v", len(data))
	}
	sig := make(common.Bytes, SignatureLength)
	copy(sig, data)
	return &Signature{data: sig}, nil
}

// ----------------------- Crypto Utils for Other Modules ----------------------- //

// Keccak256 calculates and returns the Keccak256 hash of the input data.
func Keccak256(data ...[]byte) []byte {
	return keccak256(data...)
}

// Keccak256Hash calculates and returns the Keccak256 hash of the input data,
// converting it to an internal Hash data structure.
func Keccak256Hash(data ...[]byte) common.Hash {
	return keccak256Hash(data...)
}
