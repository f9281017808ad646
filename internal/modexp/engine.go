package modexp

import (
	"fmt"
	"math/big"
)

var one = big.NewInt(1)

// Calculate computes a^n mod m by scanning the bits of n from the most
// significant end, recording the accumulator after every bit. After k bits the
// accumulator equals a^p mod m where p is the k-bit prefix of n.
//
// m must be positive; inputs from ValidateAndParse always satisfy this. For
// n == 0 the result is 1 mod m, including 0^0.
//
// The arguments are not modified and the returned values share no memory
// with them.
func Calculate(a, n, m *big.Int) CalculationResult {
	if m == nil || m.Sign() <= 0 {
		panic("modexp: modulus must be positive")
	}

	if n.Sign() == 0 {
		r := new(big.Int).Mod(one, m)
		return CalculationResult{
			Bits: []uint8{0},
			Steps: []Step{{
				Bit:          0,
				Value:        new(big.Int).Set(r),
				Operation:    "a^0 = 1",
				OperationTeX: "a^0 = 1",
			}},
			BinaryStr: "0",
			Result:    r,
		}
	}

	binaryStr := n.Text(2)
	bits := make([]uint8, len(binaryStr))
	for i := range binaryStr {
		bits[i] = binaryStr[i] - '0'
	}

	steps := make([]Step, 0, len(bits))
	v := new(big.Int).Mod(a, m)
	steps = append(steps, Step{
		Bit:          bits[0],
		Value:        v,
		Operation:    fmt.Sprintf("a = %s", a.String()),
		OperationTeX: fmt.Sprintf("a = %s", a.String()),
	})

	for _, bit := range bits[1:] {
		prev := v
		next := new(big.Int).Mul(prev, prev)
		var op, tex string
		if bit == 0 {
			op = fmt.Sprintf("(%s)² mod %s", prev.String(), m.String())
			tex = fmt.Sprintf("%s^2", prev.String())
		} else {
			next.Mul(next, a)
			op = fmt.Sprintf("(%s)²⋅%s mod %s", prev.String(), a.String(), m.String())
			tex = fmt.Sprintf(`%s^2 \cdot %s`, prev.String(), a.String())
		}
		next.Mod(next, m)

		steps = append(steps, Step{
			Bit:          bit,
			Value:        next,
			Operation:    op,
			OperationTeX: tex,
		})
		v = next
	}

	return CalculationResult{
		Bits:      bits,
		Steps:     steps,
		BinaryStr: binaryStr,
		Result:    new(big.Int).Set(v),
	}
}

// Equation renders the final result as "a^n ≡ r (mod m)".
func Equation(in ParsedInputs, r CalculationResult) string {
	return fmt.Sprintf("%s^%s ≡ %s (mod %s)", in.A.String(), in.N.String(), r.Result.String(), in.M.String())
}
