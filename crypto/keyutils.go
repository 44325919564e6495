package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"os"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"
)

var secp256k1N = secp256k1.S256().N

// s256 returns an instance of the secp256k1 curve.
func s256() elliptic.Curve {
	return secp256k1.S256()
}

// generateKey generates a new secp256k1 private key.
func generateKey() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(s256(), rand.Reader)
}

// hexToECDSA parses a secp256k1 private key.
func hexToECDSA(hexkey string) (*ecdsa.PrivateKey, error) {
	b, err := hex.DecodeString(hexkey)
	if err != nil {
		return nil, errors.New("invalid hex string")
	}
	return toECDSA(b, true)
}

// toECDSA creates a private key with the given D value. The strict parameter
// controls whether the key's length should be enforced at the curve size or
// it can also accept legacy encodings (0 prefixes).
func toECDSA(d []byte, strict bool) (*ecdsa.PrivateKey, error) {
	priv := new(ecdsa.PrivateKey)
	priv.PublicKey.Curve = s256()
	if strict && 8*len(d) != priv.Params().BitSize {
		return nil, errors.Errorf("invalid length, need %d bits", priv.Params().BitSize)
	}
	priv.D = new(big.Int).SetBytes(d)

	// The priv.D must < N
	if priv.D.Cmp(secp256k1N) >= 0 {
		return nil, errors.New("invalid private key, >=N")
	}
	// The priv.D must not be zero or negative.
	if priv.D.Sign() <= 0 {
		return nil, errors.New("invalid private key, zero or negative")
	}

	priv.PublicKey.X, priv.PublicKey.Y = priv.PublicKey.Curve.ScalarBaseMult(d)
	if priv.PublicKey.X == nil {
		return nil, errors.New("invalid private key")
	}
	return priv, nil
}

// fromECDSA exports a private key into a binary dump.
func fromECDSA(priv *ecdsa.PrivateKey) []byte {
	if priv == nil {
		return nil
	}
	return paddedBigBytes(priv.D, priv.Params().BitSize/8)
}

// fromECDSAPub exports a public key into the 65 byte uncompressed format.
func fromECDSAPub(pub *ecdsa.PublicKey) []byte {
	if pub == nil || pub.X == nil || pub.Y == nil {
		return nil
	}
	return elliptic.Marshal(s256(), pub.X, pub.Y)
}

// loadECDSA loads a secp256k1 private key from the given file.
func loadECDSA(file string) (*ecdsa.PrivateKey, error) {
	buf, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	if len(buf) < 64 {
		return nil, errors.New("key file too short")
	}
	key := make([]byte, 32)
	if _, err := hex.Decode(key, buf[:64]); err != nil {
		return nil, err
	}
	return toECDSA(key, true)
}

// saveECDSA saves a secp256k1 private key to the given file with
// restrictive permissions. The key data is saved hex-encoded.
func saveECDSA(file string, key *ecdsa.PrivateKey) error {
	k := hex.EncodeToString(fromECDSA(key))
	return os.WriteFile(file, []byte(k), 0600)
}

// paddedBigBytes encodes a big integer as a big-endian byte slice of the
// given length.
func paddedBigBytes(bigint *big.Int, n int) []byte {
	if bigint.BitLen()/8 >= n {
		return bigint.Bytes()
	}
	ret := make([]byte, n)
	bigint.FillBytes(ret)
	return ret
}
