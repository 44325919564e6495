package rpc

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/starnotary/starnotary/blockchain"
	"github.com/starnotary/starnotary/common"
	"github.com/starnotary/starnotary/core"
	"github.com/starnotary/starnotary/crypto"
	"github.com/starnotary/starnotary/registry"
)

// ------------------------------- RequestChallenge -----------------------------------

type RequestChallengeArgs struct {
	Address string `json:"address"`
}

type RequestChallengeResult struct {
	Message string `json:"message"`
}

func (t *StarNotaryRPCService) RequestChallenge(w http.ResponseWriter, r *http.Request) {
	args := RequestChallengeArgs{}
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	address, ok := parseAddress(w, args.Address)
	if !ok {
		return
	}

	message := t.verifier.GenerateChallenge(address)
	writeJSON(w, http.StatusOK, RequestChallengeResult{Message: message})
}

// ------------------------------- SubmitStar -----------------------------------

type SubmitStarArgs struct {
	Address   string     `json:"address"`
	Message   string     `json:"message"`
	Signature string     `json:"signature"`
	Star      *core.Star `json:"star"`
}

type SubmitStarResult struct {
	Block *core.Block `json:"block"`
}

func (t *StarNotaryRPCService) SubmitStar(w http.ResponseWriter, r *http.Request) {
	args := SubmitStarArgs{}
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	address, ok := parseAddress(w, args.Address)
	if !ok {
		return
	}

	sigBytes, err := hex.DecodeString(strip0x(args.Signature))
	if err != nil {
		writeError(w, http.StatusBadRequest, "signature must be hex encoded")
		return
	}
	signature, err := crypto.SignatureFromBytes(sigBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	block, err := t.verifier.VerifyAndClaim(address, args.Message, signature, args.Star)
	if err != nil {
		writeClaimError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, SubmitStarResult{Block: block})
}

// ------------------------------- GetBlockByHash -----------------------------------

type GetBlockResult struct {
	Block *core.Block `json:"block"`
}

func (t *StarNotaryRPCService) GetBlockByHash(w http.ResponseWriter, r *http.Request) {
	hash := common.HexToHash(mux.Vars(r)["hash"])
	block, err := t.chain.FindBlockByHash(hash)
	if err != nil {
		if errors.Is(err, blockchain.ErrBlockNotFound) {
			writeError(w, http.StatusNotFound, "block not found")
			return
		}
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GetBlockResult{Block: block})
}

// ------------------------------- GetBlockByHeight -----------------------------------

func (t *StarNotaryRPCService) GetBlockByHeight(w http.ResponseWriter, r *http.Request) {
	height, err := strconv.ParseUint(mux.Vars(r)["height"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "height must be a non-negative integer")
		return
	}
	block, err := t.chain.FindBlockByHeight(height)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	// A missing height is not an error, the block is simply null.
	writeJSON(w, http.StatusOK, GetBlockResult{Block: block})
}

// ------------------------------- GetStarsByOwner -----------------------------------

type GetStarsByOwnerResult struct {
	Stars []*core.Star `json:"stars"`
}

func (t *StarNotaryRPCService) GetStarsByOwner(w http.ResponseWriter, r *http.Request) {
	address, ok := parseAddress(w, mux.Vars(r)["address"])
	if !ok {
		return
	}
	stars, err := t.chain.StarsByOwner(address)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GetStarsByOwnerResult{Stars: stars})
}

// ------------------------------- GetChainHeight -----------------------------------

type GetChainHeightResult struct {
	Height common.JSONUint64 `json:"height"`
}

func (t *StarNotaryRPCService) GetChainHeight(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, GetChainHeightResult{Height: common.JSONUint64(t.chain.Height())})
}

// ------------------------------- AuditChain -----------------------------------

type AuditChainResult struct {
	Defects []blockchain.IntegrityError `json:"defects"`
}

func (t *StarNotaryRPCService) AuditChain(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, AuditChainResult{Defects: t.validator.WalkAndValidate()})
}

// ------------------------------- helpers -----------------------------------

type errorResult struct {
	Error string `json:"error"`
}

func parseAddress(w http.ResponseWriter, s string) (common.Address, bool) {
	if !common.IsHexAddress(s) {
		writeError(w, http.StatusBadRequest, "address must be a 20 byte hex string")
		return common.Address{}, false
	}
	return common.HexToAddress(s), true
}

func writeClaimError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrMalformedMessage), errors.Is(err, registry.ErrInvalidStar):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, registry.ErrExpiredChallenge):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, registry.ErrInvalidSignature):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, blockchain.ErrChainCorrupt):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeInternalError(w, err)
	}
}

func writeInternalError(w http.ResponseWriter, err error) {
	logger.WithFields(log.Fields{"error": err}).Error("Request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResult{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithFields(log.Fields{"error": err}).Error("Failed to encode response")
	}
}

func strip0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
