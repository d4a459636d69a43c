package payment

import (
	"context"
	"evently-backend/codec"
	"evently-backend/vault"
	"fmt"

	"github.com/algorand/go-algorand-sdk/crypto"
	"github.com/algorand/go-algorand-sdk/mnemonic"
)

const (
	accountAddress     = "account_address"
	privateKey         = "private_key"
	securityPassphrase = "security_passphrase"
)

// Account is an Algorand account. PrivateKey and SecurityPassphrase are
// stored sealed in Vault and only decrypted for signing.
type Account struct {
	AccountAddress     string
	PrivateKey         string
	SecurityPassphrase string
}

// Accounts is the Vault backed registry of payout accounts, keyed by caller
// identity, plus the treasury account refunds are paid from.
type Accounts struct {
	vault  vault.Vault
	secret string
}

func NewAccounts(v vault.Vault, secret string) *Accounts {
	return &Accounts{vault: v, secret: secret}
}

// Ensure returns the payout address registered for identity, generating and
// storing a fresh account when none exists yet.
func (a *Accounts) Ensure(ctx context.Context, identity string) (string, error) {
	path := fmt.Sprintf("%s/%s", a.vault.PayoutPath, identity)
	account, ok, err := a.read(path)
	if err != nil {
		return "", fmt.Errorf("ensure: error reading payout account for %s: %w", identity, err)
	}

	if ok {
		return account.AccountAddress, nil
	}

	account, err = generateAccount()
	if err != nil {
		return "", fmt.Errorf("ensure: %w", err)
	}

	err = a.write(path, account)
	if err != nil {
		return "", fmt.Errorf("ensure: error storing payout account for %s: %w", identity, err)
	}

	return account.AccountAddress, nil
}

// Payout returns the payout account registered for identity.
func (a *Accounts) Payout(identity string) (*Account, bool, error) {
	account, ok, err := a.read(fmt.Sprintf("%s/%s", a.vault.PayoutPath, identity))
	if err != nil {
		return nil, false, fmt.Errorf("payout: error reading account for %s: %w", identity, err)
	}

	return account, ok, nil
}

// Treasury returns the refund funding account.
func (a *Accounts) Treasury() (*Account, error) {
	account, ok, err := a.read(a.vault.TreasuryPath + "/funding")
	if err != nil {
		return nil, fmt.Errorf("treasury: error reading treasury account: %w", err)
	}

	if !ok {
		return nil, fmt.Errorf("treasury: treasury account not seeded")
	}

	return account, nil
}

// SeedTreasury stores the refund funding account.
func (a *Accounts) SeedTreasury(account *Account) error {
	err := a.write(a.vault.TreasuryPath+"/funding", account)
	if err != nil {
		return fmt.Errorf("seedTreasury: error storing treasury account: %w", err)
	}

	return nil
}

func generateAccount() (*Account, error) {
	account := crypto.GenerateAccount()
	passphrase, err := mnemonic.FromPrivateKey(account.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("generateAccount: error generating account: %w", err)
	}

	return &Account{
		AccountAddress:     account.Address.String(),
		PrivateKey:         string(account.PrivateKey),
		SecurityPassphrase: passphrase,
	}, nil
}

func (a *Accounts) read(path string) (*Account, bool, error) {
	secret, err := a.vault.Logical().Read(path)
	if err != nil {
		return nil, false, fmt.Errorf("read: could not read %s: %w", path, err)
	}

	if secret == nil || secret.Data == nil {
		return nil, false, nil
	}

	address, addressOK := secret.Data[accountAddress]
	if !addressOK {
		return nil, false, fmt.Errorf("read: account address not found at %s", path)
	}
	sealedKey, keyOK := secret.Data[privateKey]
	if !keyOK {
		return nil, false, fmt.Errorf("read: private key not found at %s", path)
	}
	sealedPassphrase, passphraseOK := secret.Data[securityPassphrase]
	if !passphraseOK {
		return nil, false, fmt.Errorf("read: security passphrase not found at %s", path)
	}

	key, err := codec.Decrypt([]byte(a.secret), sealedKey.(string))
	if err != nil {
		return nil, false, fmt.Errorf("read: could not unseal private key: %w", err)
	}

	passphrase, err := codec.Decrypt([]byte(a.secret), sealedPassphrase.(string))
	if err != nil {
		return nil, false, fmt.Errorf("read: could not unseal security passphrase: %w", err)
	}

	return &Account{
		AccountAddress:     address.(string),
		PrivateKey:         string(key),
		SecurityPassphrase: string(passphrase),
	}, true, nil
}

func (a *Accounts) write(path string, account *Account) error {
	sealedKey, err := codec.Encrypt([]byte(a.secret), []byte(account.PrivateKey))
	if err != nil {
		return fmt.Errorf("write: could not seal private key: %w", err)
	}

	sealedPassphrase, err := codec.Encrypt([]byte(a.secret), []byte(account.SecurityPassphrase))
	if err != nil {
		return fmt.Errorf("write: could not seal security passphrase: %w", err)
	}

	data := map[string]interface{}{
		accountAddress:     account.AccountAddress,
		privateKey:         sealedKey,
		securityPassphrase: sealedPassphrase,
	}

	_, err = a.vault.Logical().Write(path, data)
	if err != nil {
		return fmt.Errorf("write: unable to write to vault: %w", err)
	}

	return nil
}
