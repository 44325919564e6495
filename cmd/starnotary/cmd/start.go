package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/starnotary/starnotary/node"
	"github.com/starnotary/starnotary/store/database/backend"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the star notary node.",
	Run:   runStart,
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) {
	// The chain is memory-resident by design and reset on restart.
	params := &node.Params{
		DB: backend.NewMemDatabase(),
	}
	n, err := node.NewNode(params)
	if err != nil {
		log.WithFields(log.Fields{"error": err}).Fatal("Failed to create node")
	}
	n.Start(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("Shutting down")
		n.Stop()
	}()

	n.Wait()
}
