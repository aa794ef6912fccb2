package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	privateURL string
	peerHost   string
)

var peerCmd = &cobra.Command{
	Use:   "peer",
	Short: "Register a peer the node replicates blocks to",
	RunE:  peerRun,
}

func init() {
	rootCmd.AddCommand(peerCmd)
	peerCmd.Flags().StringVar(&privateURL, "private-url", "http://localhost:9080", "Url of the node's private api.")
	peerCmd.Flags().StringVar(&peerHost, "host", "", "Host and port of the peer.")
}

func peerRun(cmd *cobra.Command, args []string) error {
	if peerHost == "" {
		return errors.New("a peer host is required")
	}

	np := struct {
		Host string `json:"host"`
	}{
		Host: peerHost,
	}

	var resp struct {
		Added bool `json:"added"`
		Peers []struct {
			Host string `json:"host"`
		} `json:"peers"`
	}
	if err := post(fmt.Sprintf("%s/v1/node/peers", privateURL), np, &resp); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Added:", resp.Added)
	for _, p := range resp.Peers {
		fmt.Fprintln(cmd.OutOrStdout(), p.Host)
	}

	return nil
}
