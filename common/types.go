package common

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// HashLength is the expected length of a digest in bytes
	HashLength = 32
	// AddressLength is the expected length of an address in bytes
	AddressLength = 20
)

// Bytes is a handy alias
type Bytes []byte

// Hash represents the 32 byte keccak256 digest of arbitrary data.
type Hash [HashLength]byte

// BytesToHash converts the given byte slice to a Hash, left-truncating
// if the input is too long.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// HexToHash converts the given hex string to a Hash.
func HexToHash(s string) Hash {
	return BytesToHash(fromHex(s))
}

// Bytes returns the bytes representation of the hash
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns the hex representation of the hash with the 0x prefix
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

// IsEmpty indicates whether the hash is all zeros
func (h Hash) IsEmpty() bool {
	return h == Hash{}
}

// MarshalText implements encoding.TextMarshaler
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (h *Hash) UnmarshalText(input []byte) error {
	dec := fromHex(string(input))
	if len(dec) != HashLength {
		return fmt.Errorf("invalid hash length: %v", len(dec))
	}
	copy(h[:], dec)
	return nil
}

// Address represents the 20 byte address of a wallet.
type Address [AddressLength]byte

// BytesToAddress converts the given byte slice to an Address, left-truncating
// if the input is too long.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// HexToAddress converts the given hex string to an Address.
func HexToAddress(s string) Address {
	return BytesToAddress(fromHex(s))
}

// IsHexAddress verifies whether a string can represent a valid hex-encoded
// address or not.
func IsHexAddress(s string) bool {
	if has0xPrefix(s) {
		s = s[2:]
	}
	if len(s) != 2*AddressLength {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// Bytes returns the bytes representation of the address
func (a Address) Bytes() []byte { return a[:] }

// Hex returns the hex representation of the address with the 0x prefix
func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) String() string { return a.Hex() }

// IsEmpty indicates whether the address is all zeros
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// MarshalText implements encoding.TextMarshaler
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (a *Address) UnmarshalText(input []byte) error {
	dec := fromHex(string(input))
	if len(dec) != AddressLength {
		return fmt.Errorf("invalid address length: %v", len(dec))
	}
	copy(a[:], dec)
	return nil
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func fromHex(s string) []byte {
	if has0xPrefix(s) {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, _ := hex.DecodeString(strings.ToLower(s))
	return b
}
