package blockbook

import (
	"fmt"
	"strconv"

	"github.com/tdex-network/bitcoin-payments/pkg/explorer"
)

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Blockbook struct {
		BestHeight int64 `json:"bestHeight"`
		InSync     bool  `json:"inSync"`
	} `json:"blockbook"`
	Backend struct {
		Chain         string `json:"chain"`
		Blocks        int64  `json:"blocks"`
		BestBlockHash string `json:"bestBlockHash"`
	} `json:"backend"`
}

func (s statusResponse) toStatus() *explorer.Status {
	return &explorer.Status{
		Chain:         s.Backend.Chain,
		InSync:        s.Blockbook.InSync,
		BestHeight:    s.Blockbook.BestHeight,
		BestBlockHash: s.Backend.BestBlockHash,
	}
}

type utxo struct {
	TxID          string `json:"txid"`
	Vout          uint32 `json:"vout"`
	Value         string `json:"value"`
	Height        int64  `json:"height"`
	Confirmations int64  `json:"confirmations"`
}

func (u utxo) toUtxo(address string) (explorer.Utxo, error) {
	value, err := parseValue(u.Value)
	if err != nil {
		return explorer.Utxo{}, err
	}
	return explorer.Utxo{
		TxID:          u.TxID,
		Vout:          u.Vout,
		Value:         value,
		Confirmations: u.Confirmations,
		Height:        u.Height,
		Address:       address,
	}, nil
}

type addressResponse struct {
	Address            string `json:"address"`
	Balance            string `json:"balance"`
	UnconfirmedBalance string `json:"unconfirmedBalance"`
	Txs                int64  `json:"txs"`
}

func (a addressResponse) toBalance() (*explorer.Balance, error) {
	confirmed, err := parseValue(a.Balance)
	if err != nil {
		return nil, err
	}
	unconfirmed, err := parseValue(a.UnconfirmedBalance)
	if err != nil {
		return nil, err
	}
	return &explorer.Balance{
		Address:     a.Address,
		Confirmed:   confirmed,
		Unconfirmed: unconfirmed,
		TxCount:     a.Txs,
	}, nil
}

type vin struct {
	N         int64    `json:"n"`
	TxID      string   `json:"txid"`
	Vout      uint32   `json:"vout"`
	Value     string   `json:"value"`
	Addresses []string `json:"addresses"`
}

type vout struct {
	N         int64    `json:"n"`
	Value     string   `json:"value"`
	Addresses []string `json:"addresses"`
	Hex       string   `json:"hex"`
}

type txResponse struct {
	TxID          string `json:"txid"`
	BlockHash     string `json:"blockHash"`
	BlockHeight   int64  `json:"blockHeight"`
	Confirmations int64  `json:"confirmations"`
	BlockTime     int64  `json:"blockTime"`
	Value         string `json:"value"`
	ValueIn       string `json:"valueIn"`
	Fees          string `json:"fees"`
	Hex           string `json:"hex"`
	Vin           []vin  `json:"vin"`
	Vout          []vout `json:"vout"`
}

func (t txResponse) toTransaction() (*explorer.Transaction, error) {
	values := make([]int64, 3)
	for i, v := range []string{t.Value, t.ValueIn, t.Fees} {
		value, err := parseValue(v)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}

	ins := make([]explorer.TxInput, 0, len(t.Vin))
	for _, in := range t.Vin {
		value, err := parseValue(in.Value)
		if err != nil {
			return nil, err
		}
		ins = append(ins, explorer.TxInput{
			N:         in.N,
			TxID:      in.TxID,
			Vout:      in.Vout,
			Value:     value,
			Addresses: in.Addresses,
		})
	}

	outs := make([]explorer.TxOutput, 0, len(t.Vout))
	for _, out := range t.Vout {
		value, err := parseValue(out.Value)
		if err != nil {
			return nil, err
		}
		outs = append(outs, explorer.TxOutput{
			N:         out.N,
			Value:     value,
			Addresses: out.Addresses,
			Script:    out.Hex,
		})
	}

	// blockbook reports a negative height for mempool txs
	blockHeight := t.BlockHeight
	if blockHeight < 0 {
		blockHeight = 0
	}

	return &explorer.Transaction{
		TxID:          t.TxID,
		BlockHash:     t.BlockHash,
		BlockHeight:   blockHeight,
		BlockTime:     t.BlockTime,
		Confirmations: t.Confirmations,
		Value:         values[0],
		ValueIn:       values[1],
		Fees:          values[2],
		Hex:           t.Hex,
		Vin:           ins,
		Vout:          outs,
	}, nil
}

type sendTxResponse struct {
	Result string `json:"result"`
}

type blockResponse struct {
	Hash              string `json:"hash"`
	PreviousBlockHash string `json:"previousBlockHash"`
	NextBlockHash     string `json:"nextBlockHash"`
	Height            int64  `json:"height"`
	Confirmations     int64  `json:"confirmations"`
	Time              int64  `json:"time"`
	TxCount           int64  `json:"txCount"`
	Txs               []struct {
		TxID string `json:"txid"`
	} `json:"txs"`
}

func (b blockResponse) toBlock() *explorer.Block {
	txids := make([]string, 0, len(b.Txs))
	for _, tx := range b.Txs {
		txids = append(txids, tx.TxID)
	}
	return &explorer.Block{
		Hash:              b.Hash,
		PreviousBlockHash: b.PreviousBlockHash,
		NextBlockHash:     b.NextBlockHash,
		Height:            b.Height,
		Confirmations:     b.Confirmations,
		Time:              b.Time,
		TxCount:           b.TxCount,
		TxIDs:             txids,
	}
}

// parseValue parses an amount in satoshis encoded as string. An empty string
// is a zero amount.
func parseValue(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return v, nil
}
