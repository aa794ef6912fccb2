package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
)

var client = http.Client{Timeout: 10 * time.Second}

// chainHasher asks the node for the genesis information to find the digest
// strategy of the chain.
func chainHasher() (digest.Hasher, error) {
	var gen struct {
		Digest string `json:"digest"`
	}
	if err := get(fmt.Sprintf("%s/v1/genesis/list", url), &gen); err != nil {
		return digest.Hasher{}, err
	}

	return digest.NewByName(gen.Digest)
}

func get(endpoint string, out any) error {
	resp, err := client.Get(endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decode(resp, out)
}

func post(endpoint string, in any, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}

	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decode(resp, out)
}

func decode(resp *http.Response, out any) error {
	if resp.StatusCode >= http.StatusBadRequest {
		var er errs.Response
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		if er.Reason != "" {
			return fmt.Errorf("status %d: %s: %s", resp.StatusCode, er.Reason, er.Error)
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, er.Error)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
