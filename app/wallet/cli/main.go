// This program is a wallet for the ledger node. It manages identity keys,
// signs transfers and queries the node.
package main

import "github.com/ardanlabs/ledger/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
