package core

import (
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/starnotary/starnotary/common"
	"github.com/starnotary/starnotary/common/result"
)

// ErrDecode indicates a stored body that cannot be decoded. It should never
// occur for blocks this system wrote itself and signals corruption.
var ErrDecode = errors.New("body cannot be decoded")

// GenesisBodyData is the constant marker carried by the genesis block body.
const GenesisBodyData = "Genesis Block"

// Star is the astronomical observation registered by a claim. The required
// fields are validated at ingestion; any extra fields submitted alongside
// them survive the encode/decode round trip untouched.
type Star struct {
	RA    string
	Dec   string
	Story string
	Extra map[string]json.RawMessage
}

// Validate checks that the required star fields are present.
func (s *Star) Validate() result.Result {
	if s == nil {
		return result.Error("star is missing").WithErrorCode(result.CodeMissingStarField)
	}
	if s.RA == "" {
		return result.Error("star ra is missing").WithErrorCode(result.CodeMissingStarField)
	}
	if s.Dec == "" {
		return result.Error("star dec is missing").WithErrorCode(result.CodeMissingStarField)
	}
	if s.Story == "" {
		return result.Error("star story is missing").WithErrorCode(result.CodeMissingStarField)
	}
	return result.OK
}

// MarshalJSON implements json.Marshaler.
func (s Star) MarshalJSON() ([]byte, error) {
	m := map[string]json.RawMessage{}
	for k, v := range s.Extra {
		m[k] = v
	}
	for k, v := range map[string]string{"ra": s.RA, "dec": s.Dec, "story": s.Story} {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		m[k] = raw
	}
	return json.Marshal(m)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Star) UnmarshalJSON(data []byte) error {
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for key, dst := range map[string]*string{"ra": &s.RA, "dec": &s.Dec, "story": &s.Story} {
		if raw, ok := m[key]; ok {
			if err := json.Unmarshal(raw, dst); err != nil {
				return err
			}
			delete(m, key)
		}
	}
	if len(m) > 0 {
		s.Extra = m
	}
	return nil
}

// ClaimBody is the decoded payload of a claim block.
type ClaimBody struct {
	Owner common.Address `json:"owner"`
	Star  *Star          `json:"star,omitempty"`
	Data  string         `json:"data,omitempty"` // genesis marker only
}

// EncodeBody encodes the given payload into its opaque at-rest form,
// hex-encoded JSON.
func EncodeBody(body *ClaimBody) (string, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// DecodeBody decodes the opaque at-rest encoding back into the structured
// payload.
func DecodeBody(encoded string) (*ClaimBody, error) {
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrap(ErrDecode, err.Error())
	}
	body := &ClaimBody{}
	if err := json.Unmarshal(raw, body); err != nil {
		return nil, errors.Wrap(ErrDecode, err.Error())
	}
	return body, nil
}

// NewGenesisBlock synthesizes the fixed first block of a chain, sealed at
// the given timestamp with no predecessor.
func NewGenesisBlock(timestamp uint64) *Block {
	body, err := EncodeBody(&ClaimBody{Data: GenesisBodyData})
	if err != nil {
		panic(err) // constant payload, cannot fail
	}
	block := NewBlock(body)
	block.Seal(common.Hash{}, GenesisHeight, timestamp)
	return block
}
