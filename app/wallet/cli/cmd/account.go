package cmd

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/identity"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print the identity token and the ledger identity of the wallet",
	RunE:  accountRun,
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

func accountRun(cmd *cobra.Command, args []string) error {
	privateKey, err := identity.Load(getPrivateKeyPath())
	if err != nil {
		return err
	}

	// The identity depends on the digest strategy of the chain.
	h, err := chainHasher()
	if err != nil {
		return err
	}

	token := identity.Token(privateKey.PublicKey)
	fmt.Fprintln(cmd.OutOrStdout(), "Token:", token)
	fmt.Fprintln(cmd.OutOrStdout(), "ID:   ", database.NewAccountID(h, token))

	return nil
}
