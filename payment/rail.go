package payment

import (
	"context"
	"evently-backend/logger"
	"fmt"

	"github.com/algorand/go-algorand-sdk/client/algod"
	"github.com/algorand/go-algorand-sdk/crypto"
	"github.com/algorand/go-algorand-sdk/mnemonic"
	"github.com/algorand/go-algorand-sdk/transaction"
)

// Rail moves value back to callers. The box office treats it as an opaque
// collaborator: a refund either commits or fails, nothing in between.
type Rail interface {
	Refund(ctx context.Context, to string, amount uint64) error
}

type algoRail struct {
	treasury   *Account
	accounts   *Accounts
	apiAddress string
	apiKey     string
	minFee     uint64
}

// NewRail returns a Rail that pays refunds from the treasury account as
// Algorand payment transactions. Amounts are in microalgos, the smallest
// currency unit.
func NewRail(treasury *Account, accounts *Accounts, apiAddress, apiKey string, minFee uint64) Rail {
	return &algoRail{
		treasury:   treasury,
		accounts:   accounts,
		apiAddress: apiAddress,
		apiKey:     apiKey,
		minFee:     minFee,
	}
}

func (a *algoRail) Refund(ctx context.Context, to string, amount uint64) error {
	account, ok, err := a.accounts.Payout(to)
	if err != nil {
		return fmt.Errorf("refund: error resolving payout account: %w", err)
	}

	if !ok {
		return fmt.Errorf("refund: no payout account registered for %s", to)
	}

	var headers []*algod.Header
	headers = append(headers, &algod.Header{Key: "X-API-Key", Value: a.apiKey})
	algodClient, err := algod.MakeClientWithHeaders(a.apiAddress, "", headers)
	if err != nil {
		return fmt.Errorf("refund: error connecting to algod: %w", err)
	}

	txParams, err := algodClient.SuggestedParams()
	if err != nil {
		return fmt.Errorf("refund: error getting suggested tx params: %w", err)
	}

	note := []byte(fmt.Sprintf("Refunding %d to %s", amount, to))
	genID := txParams.GenesisID
	genHash := txParams.GenesisHash
	firstValidRound := txParams.LastRound
	lastValidRound := firstValidRound + 1000

	txn, err := transaction.MakePaymentTxnWithFlatFee(a.treasury.AccountAddress, account.AccountAddress, a.minFee, amount, firstValidRound, lastValidRound, note, "", genID, genHash)
	if err != nil {
		return fmt.Errorf("refund: error creating transaction: %w", err)
	}

	privateKey, err := mnemonic.ToPrivateKey(a.treasury.SecurityPassphrase)
	if err != nil {
		return fmt.Errorf("refund: error getting private key from mnemonic: %w", err)
	}

	txID, bytes, err := crypto.SignTransaction(privateKey, txn)
	if err != nil {
		return fmt.Errorf("refund: failed to sign transaction: %w", err)
	}
	logger.Infof(ctx, "refund: signed txid: %s", txID)

	txHeaders := append([]*algod.Header{}, &algod.Header{Key: "Content-Type", Value: "application/x-binary"})
	sendResponse, err := algodClient.SendRawTransaction(bytes, txHeaders...)
	if err != nil {
		return fmt.Errorf("refund: failed to send transaction: %w", err)
	}
	logger.Infof(ctx, "refund: submitted transaction %s", sendResponse.TxID)

	return waitForConfirmation(ctx, algodClient, sendResponse.TxID)
}

// waitForConfirmation blocks until the network confirms txID.
func waitForConfirmation(ctx context.Context, algodClient algod.Client, txID string) error {
	for {
		pt, err := algodClient.PendingTransactionInformation(txID)
		if err != nil {
			logger.Infof(ctx, "waiting for confirmation of %s (pool error, if any): %s", txID, err)
			continue
		}
		if pt.ConfirmedRound > 0 {
			logger.Infof(ctx, "transaction %s confirmed in round %d", pt.TxID, pt.ConfirmedRound)
			return nil
		}
		nodeStatus, err := algodClient.Status()
		if err != nil {
			return fmt.Errorf("waitForConfirmation: error getting algod status: %w", err)
		}
		algodClient.StatusAfterBlock(nodeStatus.LastRound + 1)
	}
}
