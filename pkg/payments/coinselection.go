package payments

import "sort"

// MatureConfirmations is the number of confirmations after which a utxo is
// considered mature.
const MatureConfirmations = 6

// SortUtxos returns the given utxos in the order they are selected: mature
// ones first, ascending by value, then immature ones, descending by number of
// confirmations. The given slice is not modified.
func SortUtxos(utxos []Utxo) []Utxo {
	mature := make([]Utxo, 0, len(utxos))
	immature := make([]Utxo, 0)
	for _, u := range utxos {
		if u.Confirmations >= MatureConfirmations {
			mature = append(mature, u)
		} else {
			immature = append(immature, u)
		}
	}

	sort.SliceStable(mature, func(i, j int) bool {
		return mature[i].Satoshis < mature[j].Satoshis
	})
	sort.SliceStable(immature, func(i, j int) bool {
		return immature[i].Confirmations > immature[j].Confirmations
	})

	return append(mature, immature...)
}
