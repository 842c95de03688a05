package blockbook

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/tdex-network/bitcoin-payments/pkg/explorer"
)

func (b *blockbook) GetTransaction(
	ctx context.Context, txid string,
) (*explorer.Transaction, error) {
	if err := validateTxID(txid); err != nil {
		return nil, err
	}

	var resp txResponse
	if err := b.get(ctx, fmt.Sprintf("/api/v2/tx/%s", txid), &resp); err != nil {
		return nil, err
	}
	return resp.toTransaction()
}

// BroadcastTransaction posts the raw tx hex as the request body.
func (b *blockbook) BroadcastTransaction(
	ctx context.Context, txhex string,
) (string, error) {
	var resp sendTxResponse
	if err := b.post(ctx, "/api/v2/sendtx/", txhex, &resp); err != nil {
		return "", fmt.Errorf("error on broadcasting tx: %w", err)
	}
	if resp.Result == "" {
		return "", fmt.Errorf("error on broadcasting tx: empty txid")
	}
	return resp.Result, nil
}

func validateTxID(txid string) error {
	if len(txid) != chainhash.MaxHashStringSize {
		return fmt.Errorf("%w: %s", explorer.ErrInvalidTxID, txid)
	}
	if _, err := hex.DecodeString(txid); err != nil {
		return fmt.Errorf("%w: %s", explorer.ErrInvalidTxID, txid)
	}
	return nil
}
