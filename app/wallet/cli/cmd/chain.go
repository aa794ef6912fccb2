package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

type chainStatus struct {
	Valid  bool   `json:"valid"`
	Length int    `json:"length"`
	Error  string `json:"error"`
}

type block struct {
	Digest       string `json:"self_digest"`
	PreviousLink string `json:"previous_link"`
	CreatedAt    int64  `json:"created_at"`
	Data         string `json:"data"`
	Entries      []any  `json:"entries"`
}

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the blocks of the chain and whether it is valid",
	RunE:  chainRun,
}

func init() {
	rootCmd.AddCommand(chainCmd)
}

func chainRun(cmd *cobra.Command, args []string) error {
	var blocks []block
	if err := get(fmt.Sprintf("%s/v1/blocks/list", url), &blocks); err != nil {
		return err
	}

	for i, blk := range blocks {
		fmt.Fprintf(cmd.OutOrStdout(), "%4d %s prev[%s] entries[%d] data[%s]\n", i, blk.Digest, blk.PreviousLink, len(blk.Entries), blk.Data)
	}

	var status chainStatus
	if err := get(fmt.Sprintf("%s/v1/chain/valid", url), &status); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Valid:", status.Valid, status.Error)

	return nil
}
