package modexp

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"unicode"
)

// DefaultLimitBits sets the default input ceiling to 2^24. The ceiling only
// bounds how long a rendered trace can get.
const DefaultLimitBits = 24

var digitsPattern = regexp.MustCompile(`^[0-9]+$`)

var defaultValidator = mustValidator(LimitFromBits(DefaultLimitBits))

// LimitFromBits returns 2^bits.
func LimitFromBits(bits uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), bits)
}

// Validator turns raw strings into ParsedInputs under an exclusive upper limit.
// It is immutable and safe for concurrent use.
type Validator struct {
	limit *big.Int
}

// NewValidator returns a validator rejecting any value >= limit. The limit
// must be at least 2 so that some modulus is acceptable.
func NewValidator(limit *big.Int) (*Validator, error) {
	if limit == nil || limit.Cmp(big.NewInt(2)) < 0 {
		return nil, fmt.Errorf("input limit must be at least 2, got %v", limit)
	}
	return &Validator{limit: new(big.Int).Set(limit)}, nil
}

func mustValidator(limit *big.Int) *Validator {
	v, err := NewValidator(limit)
	if err != nil {
		panic(err)
	}
	return v
}

// Limit returns a copy of the exclusive upper bound.
func (v *Validator) Limit() *big.Int {
	return new(big.Int).Set(v.limit)
}

// ValidateAndParse validates with the default 2^24 limit.
func ValidateAndParse(aRaw, nRaw, mRaw string) (ParsedInputs, error) {
	return defaultValidator.ValidateAndParse(aRaw, nRaw, mRaw)
}

// ValidateAndParse checks format, range and modulus, in that order, and
// reports the first failure. It never panics: on error the returned
// ParsedInputs is the zero value.
func (v *Validator) ValidateAndParse(aRaw, nRaw, mRaw string) (ParsedInputs, error) {
	var digits [3]string
	for i, f := range []struct{ name, raw string }{{"a", aRaw}, {"n", nRaw}, {"m", mRaw}} {
		s, err := checkFormat(f.name, f.raw)
		if err != nil {
			return ParsedInputs{}, err
		}
		digits[i] = s
	}

	// Anything with more significant digits than the limit is out of range
	// and is never handed to SetString.
	maxDigits := len(v.limit.String())
	var vals [3]*big.Int
	for i, s := range digits {
		if len(s) > maxDigits {
			return ParsedInputs{}, v.outOfRange()
		}
		x, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return ParsedInputs{}, &ValidationError{
				Kind:    KindInvalidFormat,
				Message: "All inputs must be valid integers",
			}
		}
		if x.Cmp(v.limit) >= 0 {
			return ParsedInputs{}, v.outOfRange()
		}
		vals[i] = x
	}

	a, n, m := vals[0], vals[1], vals[2]
	if m.Sign() == 0 {
		return ParsedInputs{}, &ValidationError{
			Kind:    KindZeroModulus,
			Field:   "m",
			Message: "Modulus (m) must be greater than 0",
		}
	}

	return ParsedInputs{A: a, N: n, M: m}, nil
}

func (v *Validator) outOfRange() error {
	return &ValidationError{
		Kind:    KindOutOfRange,
		Message: fmt.Sprintf("All inputs must be less than %s.", v.limit.String()),
	}
}

// isTrimmable reports whitespace and the byte-order mark, which pasted input
// often carries.
func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// checkFormat trims raw and checks it is an unsigned base-10 integer. It
// returns the digits without leading zeros ("0" for an all-zero input).
func checkFormat(field, raw string) (string, error) {
	s := strings.TrimFunc(raw, isTrimmable)
	if !digitsPattern.MatchString(s) {
		return "", &ValidationError{
			Kind:    KindInvalidFormat,
			Field:   field,
			Message: fmt.Sprintf("%s must be a non-negative integer.", field),
		}
	}
	if s = strings.TrimLeft(s, "0"); s == "" {
		s = "0"
	}
	return s, nil
}
