package modexp

import "math/big"

// ParsedInputs holds validated operands for a^n mod m.
// All three are non-negative, below the validator's limit, and M > 0.
type ParsedInputs struct {
	A *big.Int
	N *big.Int
	M *big.Int
}

// Step is the accumulator after processing one bit of the exponent.
type Step struct {
	Bit          uint8
	Value        *big.Int
	Operation    string // plain text, e.g. "(4)²⋅2 mod 100"
	OperationTeX string // e.g. "4^2 \cdot 2"
}

// CalculationResult is the full trace of one calculation.
// Bits are most-significant first and len(Steps) == len(Bits).
type CalculationResult struct {
	Bits      []uint8
	Steps     []Step
	BinaryStr string
	Result    *big.Int
}

// BitCount returns the number of processed bits.
func (r CalculationResult) BitCount() int {
	return len(r.Bits)
}

// Calculate runs the engine on the parsed inputs.
func (in ParsedInputs) Calculate() CalculationResult {
	return Calculate(in.A, in.N, in.M)
}
