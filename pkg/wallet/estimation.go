package wallet

// EstimateTxSize makes an estimation of the size of a transaction spending
// inputsCount single-sig inputs into outputsCount outputs, returned as a
// [min, max] range of weight units (4 per byte) so that the fractional vsize
// of segwit transactions is represented without rounding.
// The min bound assumes short signatures and P2WPKH-sized outputs, the max
// bound assumes the longest DER signatures and P2SH/P2PKH-sized outputs.
func EstimateTxSize(inputsCount, outputsCount int, segwit bool) (minWeight, maxWeight int) {
	varintLength := varIntSerializeSize(uint64(inputsCount))

	if !segwit {
		minSize := varintLength + 4 + 146*inputsCount + 1 + 31*outputsCount + 4
		maxSize := varintLength + 4 + 148*inputsCount + 1 + 33*outputsCount + 4
		return minSize * 4, maxSize * 4
	}

	// version + marker/flag + outpoints/sequences/scriptsigs + outputs + locktime
	minNoWitness := varintLength + 4 + 2 + 59*inputsCount + 1 + 31*outputsCount + 4
	maxNoWitness := varintLength + 4 + 2 + 59*inputsCount + 1 + 33*outputsCount + 4
	minWitness := minNoWitness + 106*inputsCount
	maxWitness := maxNoWitness + 108*inputsCount

	return minNoWitness*3 + minWitness, maxNoWitness*3 + maxWitness
}

// EstimateTxVsize returns the midpoint of the EstimateTxSize range in
// (virtual) bytes, rounded up.
func EstimateTxVsize(inputsCount, outputsCount int, segwit bool) int {
	minWeight, maxWeight := EstimateTxSize(inputsCount, outputsCount, segwit)
	// ceil((min/4 + max/4) / 2)
	return (minWeight + maxWeight + 7) / 8
}

func varIntSerializeSize(val uint64) int {
	switch {
	case val < 0xfd:
		return 1
	case val < 0xffff:
		return 3
	default:
		return 5
	}
}
