package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/starnotary/starnotary/crypto"
)

var keyPath string

// keyCmd groups key management subcommands
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage wallet keys.",
}

// keyNewCmd generates a new wallet key
var keyNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a new wallet key.",
	Run:   runKeyNew,
}

// keyShowCmd prints the address of an existing key
var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the address of an existing wallet key.",
	Run:   runKeyShow,
}

func init() {
	keyCmd.PersistentFlags().StringVar(&keyPath, "key", "key", "path of the wallet key file")
	keyCmd.AddCommand(keyNewCmd)
	keyCmd.AddCommand(keyShowCmd)
	RootCmd.AddCommand(keyCmd)
}

func runKeyNew(cmd *cobra.Command, args []string) {
	privKey, pubKey, err := crypto.GenerateKeyPair()
	if err != nil {
		log.WithFields(log.Fields{"err": err}).Fatal("Failed to generate key")
	}
	if err := privKey.SaveToFile(keyPath); err != nil {
		log.WithFields(log.Fields{"err": err, "path": keyPath}).Fatal("Failed to save key")
	}
	fmt.Println("Address:", pubKey.Address().Hex())
	fmt.Println("Key file:", keyPath)
}

func runKeyShow(cmd *cobra.Command, args []string) {
	privKey, err := crypto.PrivateKeyFromFile(keyPath)
	if err != nil {
		log.WithFields(log.Fields{"err": err, "path": keyPath}).Fatal("Failed to load key")
	}
	fmt.Println("Address:", privKey.PublicKey().Address().Hex())
}
