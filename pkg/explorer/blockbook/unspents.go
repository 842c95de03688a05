package blockbook

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tdex-network/bitcoin-payments/pkg/explorer"
)

func (b *blockbook) GetUtxos(
	ctx context.Context, address string,
) ([]explorer.Utxo, error) {
	var resp []utxo
	path := fmt.Sprintf("/api/v2/utxo/%s", url.PathEscape(address))
	if err := b.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("error on retrieving utxos: %w", err)
	}

	utxos := make([]explorer.Utxo, 0, len(resp))
	for _, u := range resp {
		unspent, err := u.toUtxo(address)
		if err != nil {
			return nil, fmt.Errorf("error on retrieving utxos: %w", err)
		}
		utxos = append(utxos, unspent)
	}
	return utxos, nil
}

func (b *blockbook) GetAddressBalance(
	ctx context.Context, address string,
) (*explorer.Balance, error) {
	var resp addressResponse
	path := fmt.Sprintf(
		"/api/v2/address/%s?details=basic", url.PathEscape(address),
	)
	if err := b.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("error on retrieving balance: %w", err)
	}
	return resp.toBalance()
}
