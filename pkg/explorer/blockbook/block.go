package blockbook

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tdex-network/bitcoin-payments/pkg/explorer"
)

func (b *blockbook) GetBlock(
	ctx context.Context, hashOrHeight string,
) (*explorer.Block, error) {
	var resp blockResponse
	path := fmt.Sprintf("/api/v2/block/%s", url.PathEscape(hashOrHeight))
	if err := b.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.toBlock(), nil
}
