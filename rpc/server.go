package rpc

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/net/netutil"

	"github.com/starnotary/starnotary/blockchain"
	"github.com/starnotary/starnotary/common"
	"github.com/starnotary/starnotary/common/util"
	"github.com/starnotary/starnotary/registry"
)

var logger *log.Entry = log.WithFields(log.Fields{"prefix": "rpc"})

// StarNotaryRPCService exposes the notary operations over HTTP/JSON.
type StarNotaryRPCService struct {
	chain     *blockchain.Chain
	validator *blockchain.ChainValidator
	verifier  *registry.OwnershipVerifier

	// Life cycle
	wg      *sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	stopped bool
}

// StarNotaryRPCServer is an instance of the RPC service.
type StarNotaryRPCServer struct {
	*StarNotaryRPCService

	server   *http.Server
	router   *mux.Router
	listener net.Listener
}

// NewStarNotaryRPCServer creates a new instance of StarNotaryRPCServer.
func NewStarNotaryRPCServer(chain *blockchain.Chain, validator *blockchain.ChainValidator, verifier *registry.OwnershipVerifier) *StarNotaryRPCServer {
	t := &StarNotaryRPCServer{
		StarNotaryRPCService: &StarNotaryRPCService{
			chain:     chain,
			validator: validator,
			verifier:  verifier,
			wg:        &sync.WaitGroup{},
		},
	}

	timeout := viper.GetDuration(common.CfgRPCTimeoutSecs) * time.Second

	t.router = mux.NewRouter()
	t.router.Handle("/", &defaultHTTPHandler{})
	for _, route := range t.routes() {
		t.router.Handle(route.pattern, corsMiddleware(http.TimeoutHandler(route.handler, timeout, ""))).Methods(route.method, "OPTIONS")
	}

	t.server = &http.Server{
		Handler: t.router,
	}

	logger = util.GetLoggerForModule("rpc")

	return t
}

type route struct {
	method  string
	pattern string
	handler http.HandlerFunc
}

func (t *StarNotaryRPCService) routes() []route {
	return []route{
		{http.MethodPost, "/v1/challenge", t.RequestChallenge},
		{http.MethodPost, "/v1/stars", t.SubmitStar},
		{http.MethodGet, "/v1/blocks/hash/{hash}", t.GetBlockByHash},
		{http.MethodGet, "/v1/blocks/height/{height}", t.GetBlockByHeight},
		{http.MethodGet, "/v1/stars/{address}", t.GetStarsByOwner},
		{http.MethodGet, "/v1/chain/height", t.GetChainHeight},
		{http.MethodGet, "/v1/chain/audit", t.AuditChain},
	}
}

// Start creates the main goroutine.
func (t *StarNotaryRPCServer) Start(ctx context.Context) {
	c, cancel := context.WithCancel(ctx)
	t.ctx = c
	t.cancel = cancel

	t.wg.Add(1)
	go t.mainLoop()
}

func (t *StarNotaryRPCServer) mainLoop() {
	defer t.wg.Done()

	go t.serve()

	<-t.ctx.Done()
	t.stopped = true
	t.server.Shutdown(t.ctx)
}

func (t *StarNotaryRPCServer) serve() {
	address := viper.GetString(common.CfgRPCAddress)
	port := viper.GetString(common.CfgRPCPort)
	l, err := net.Listen("tcp", address+":"+port)
	if err != nil {
		logger.WithFields(log.Fields{"error": err}).Fatal("Failed to create listener")
	} else {
		logger.WithFields(log.Fields{"address": address, "port": port}).Info("RPC server started")
	}
	defer l.Close()

	ll := netutil.LimitListener(l, viper.GetInt(common.CfgRPCMaxConnections))
	t.listener = ll

	logger.Info(t.server.Serve(ll))
}

// Stop notifies all goroutines to stop without blocking.
func (t *StarNotaryRPCServer) Stop() {
	t.cancel()
}

// Wait blocks until all goroutines stop.
func (t *StarNotaryRPCServer) Wait() {
	t.wg.Wait()
}

func corsMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		handler.ServeHTTP(w, r)
	})
}

type defaultHTTPHandler struct {
}

func (dh *defaultHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Star notary node is up and running!\n"))
}
