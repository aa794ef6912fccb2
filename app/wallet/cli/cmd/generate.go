package cmd

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/identity"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	RunE:  generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) error {
	privateKey, err := identity.Generate()
	if err != nil {
		return err
	}

	if err := identity.Save(getPrivateKeyPath(), privateKey); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), identity.Token(privateKey.PublicKey))

	return nil
}
