package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var data string

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Append an opaque record to the ledger",
	RunE:  recordRun,
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().StringVarP(&data, "data", "d", "", "Record to append.")
}

func recordRun(cmd *cobra.Command, args []string) error {
	if data == "" {
		return errors.New("a record is required")
	}

	rec := struct {
		Data string `json:"data"`
	}{
		Data: data,
	}

	var blk blockData
	if err := post(fmt.Sprintf("%s/v1/record/submit", url), rec, &blk); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Block:", blk.Digest)

	return nil
}
