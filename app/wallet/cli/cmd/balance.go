package cmd

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/identity"
	"github.com/spf13/cobra"
)

type balance struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Balances    []balance `json:"balances"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) error {
	privateKey, err := identity.Load(getPrivateKeyPath())
	if err != nil {
		return err
	}

	h, err := chainHasher()
	if err != nil {
		return err
	}

	id := database.NewAccountID(h, identity.Token(privateKey.PublicKey))
	fmt.Fprintln(cmd.OutOrStdout(), "For Identity:", id)

	var bals balances
	if err := get(fmt.Sprintf("%s/v1/balances/list/%s", url, id), &bals); err != nil {
		return err
	}

	if len(bals.Balances) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), bals.Balances[0].Balance)
	}

	return nil
}
