package cmd

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/ledger/foundation/blockchain/identity"
	"github.com/spf13/cobra"
)

type transfer struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Amount   int64  `json:"amount"`
}

type signedTransfer struct {
	Transfer  transfer `json:"transfer"`
	Signature string   `json:"signature"`
}

type submission struct {
	Transfers []signedTransfer `json:"transfers"`
}

type blockData struct {
	Digest string `json:"self_digest"`
}

var (
	to     string
	amount int64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign and submit a transfer",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Name of a local key or the identity token of the receiver.")
	sendCmd.Flags().Int64VarP(&amount, "amount", "v", 0, "Amount to send.")
}

func sendRun(cmd *cobra.Command, args []string) error {
	if to == "" {
		return errors.New("a receiver is required")
	}

	privateKey, err := identity.Load(getPrivateKeyPath())
	if err != nil {
		return err
	}

	receiver, err := resolveToken(to)
	if err != nil {
		return err
	}

	sub, err := newSubmission(privateKey, receiver, amount)
	if err != nil {
		return err
	}

	var blk blockData
	if err := post(fmt.Sprintf("%s/v1/tx/submit", url), sub, &blk); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Block:", blk.Digest)

	return nil
}

// newSubmission signs a single transfer from the owner of the key.
func newSubmission(privateKey *ecdsa.PrivateKey, receiver string, amount int64) (submission, error) {
	tr := transfer{
		Sender:   identity.Token(privateKey.PublicKey),
		Receiver: receiver,
		Amount:   amount,
	}

	sig, err := identity.Sign(tr, privateKey)
	if err != nil {
		return submission{}, err
	}

	return submission{Transfers: []signedTransfer{{Transfer: tr, Signature: sig}}}, nil
}

// resolveToken treats the value as the name of a key in the account path
// when such a key exists, otherwise as an identity token.
func resolveToken(value string) (string, error) {
	path := keyPath(value)
	if _, err := os.Stat(path); err != nil {
		return value, nil
	}

	privateKey, err := identity.Load(path)
	if err != nil {
		return "", err
	}

	return identity.Token(privateKey.PublicKey), nil
}
