package cmd

import (
	"encoding/hex"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/starnotary/starnotary/common"
	"github.com/starnotary/starnotary/crypto"
)

var (
	signKeyPath string
	signMessage string
)

// signCmd signs an ownership challenge with a wallet key
var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign an ownership challenge message.",
	Run:   runSign,
}

func init() {
	signCmd.Flags().StringVar(&signKeyPath, "key", "key", "path of the wallet key file")
	signCmd.Flags().StringVar(&signMessage, "message", "", "challenge message to sign")
	signCmd.MarkFlagRequired("message")
	RootCmd.AddCommand(signCmd)
}

func runSign(cmd *cobra.Command, args []string) {
	privKey, err := crypto.PrivateKeyFromFile(signKeyPath)
	if err != nil {
		log.WithFields(log.Fields{"err": err, "path": signKeyPath}).Fatal("Failed to load key")
	}
	sig, err := privKey.SignText(common.Bytes(signMessage))
	if err != nil {
		log.WithFields(log.Fields{"err": err}).Fatal("Failed to sign message")
	}
	fmt.Println("Address:", privKey.PublicKey().Address().Hex())
	fmt.Println("Signature:", hex.EncodeToString(sig.ToBytes()))
}
