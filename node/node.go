package node

import (
	"context"
	"sync"

	"github.com/spf13/viper"

	"github.com/starnotary/starnotary/blockchain"
	"github.com/starnotary/starnotary/common"
	"github.com/starnotary/starnotary/registry"
	"github.com/starnotary/starnotary/rpc"
	"github.com/starnotary/starnotary/store"
	"github.com/starnotary/starnotary/store/database"
	"github.com/starnotary/starnotary/store/kvstore"
)

type Node struct {
	Store     store.Store
	Chain     *blockchain.Chain
	Validator *blockchain.ChainValidator
	Verifier  *registry.OwnershipVerifier
	RPC       *rpc.StarNotaryRPCServer

	// Life cycle
	wg      *sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	stopped bool
}

type Params struct {
	DB database.Database
}

func NewNode(params *Params) (*Node, error) {
	store := kvstore.NewKVStore(params.DB)
	chain, err := blockchain.NewChain(store)
	if err != nil {
		return nil, err
	}
	validator := blockchain.NewChainValidator(chain)
	verifier := registry.NewOwnershipVerifier(chain)

	node := &Node{
		Store:     store,
		Chain:     chain,
		Validator: validator,
		Verifier:  verifier,
		wg:        &sync.WaitGroup{},
	}

	if viper.GetBool(common.CfgRPCEnabled) {
		node.RPC = rpc.NewStarNotaryRPCServer(chain, validator, verifier)
	}

	return node, nil
}

// Start starts sub components and kicks off the main loop.
func (n *Node) Start(ctx context.Context) {
	c, cancel := context.WithCancel(ctx)
	n.ctx = c
	n.cancel = cancel

	if n.RPC != nil {
		n.RPC.Start(n.ctx)
	}
}

// Stop notifies all sub components to stop without blocking.
func (n *Node) Stop() {
	n.cancel()
	n.stopped = true
}

// Wait blocks until all sub components stop.
func (n *Node) Wait() {
	if n.RPC != nil {
		n.RPC.Wait()
	}
	n.wg.Wait()
}
