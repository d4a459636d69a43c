package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"
)

// Vault wraps the KV store holding payout accounts (one per caller
// identity) and the treasury account that funds refunds.
type Vault struct {
	PayoutPath   string
	TreasuryPath string
	*api.Client
}

func New(token, unsealKey, address, payoutPath, treasuryPath string) (*Vault, error) {
	config := &api.Config{
		Address: address,
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("new: error initializing vault: %w", err)
	}

	client.SetToken(token)

	s := client.Sys()
	status, err := s.SealStatus()
	if err != nil {
		return nil, fmt.Errorf("new: error getting seal status: %w", err)
	}

	if status.Sealed {
		unsealResponse, err := s.Unseal(unsealKey)
		if err != nil {
			return nil, fmt.Errorf("new: error getting unseal response: %w", err)
		}
		if unsealResponse.Sealed {
			return nil, fmt.Errorf("new: vault unseal unsuccesfull")
		}
	}

	err = mountIfNotExists(client, payoutPath)
	if err != nil {
		return nil, fmt.Errorf("new: unable to mount payout path: %w", err)
	}

	err = mountIfNotExists(client, treasuryPath)
	if err != nil {
		return nil, fmt.Errorf("new: unable to mount treasury path: %w", err)
	}

	return &Vault{PayoutPath: payoutPath, TreasuryPath: treasuryPath, Client: client}, nil
}

func mountIfNotExists(client *api.Client, path string) error {
	mounts, err := client.Sys().ListMounts()
	if err != nil {
		return fmt.Errorf("mountIfNotExists: unable to list mounts: %w", err)
	}

	if _, ok := mounts[path+"/"]; !ok {
		err = client.Sys().Mount(path, &api.MountInput{Type: "kv"})
		if err != nil {
			return fmt.Errorf("mountIfNotExists: unable to create path: %w", err)
		}
	}

	return nil
}
