package tx

import "math"

const (
	// DustLimit is the smallest P2PKH output relayed by BCH nodes, in satoshis.
	DustLimit = uint64(546)

	// P2PKHInputSize is the serialized size of a signed P2PKH input with a
	// compressed key.
	P2PKHInputSize = 148

	// P2PKHOutputSize is the serialized size of a P2PKH output.
	P2PKHOutputSize = 34

	// SatoshisPerBCH is the number of satoshis in one BCH.
	SatoshisPerBCH = 100_000_000
)

// EstimateTxSize returns the byte size of a P2PKH-only transaction with the
// given input and output counts: version, input count, inputs, output count,
// outputs and locktime.
func EstimateTxSize(numInputs, numOutputs int) int {
	if numInputs < 0 {
		numInputs = 0
	}
	if numOutputs < 0 {
		numOutputs = 0
	}
	return 4 +
		varIntSize(uint64(numInputs)) + numInputs*P2PKHInputSize +
		varIntSize(uint64(numOutputs)) + numOutputs*P2PKHOutputSize +
		4
}

// EstimateFee returns the fee in satoshis for a one-input transaction paying
// outputCount recipients plus one change output, at feeRatePerByte sat/byte.
// The result is rounded down.
func EstimateFee(outputCount int, feeRatePerByte float64) uint64 {
	if feeRatePerByte <= 0 || math.IsNaN(feeRatePerByte) {
		return 0
	}
	size := EstimateTxSize(1, outputCount+1)
	return uint64(math.Floor(float64(size) * feeRatePerByte))
}

// RecipientFeeRate is the fallback sat/byte rate used when no explicit rate is
// configured: one sat/byte per recipient.
func RecipientFeeRate(recipients int) float64 {
	return 1.0 * float64(recipients)
}

func varIntSize(n uint64) int {
	switch {
	case n < 0xfd:
		return 1
	case n <= 0xffff:
		return 3
	case n <= 0xffffffff:
		return 5
	default:
		return 9
	}
}
