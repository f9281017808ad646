package modexp

import (
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAndParseAccepts(t *testing.T) {
	in, err := ValidateAndParse(" 0012 ", "23\n", "\t100")
	require.NoError(t, err)

	assert.Equal(t, "12", in.A.String())
	assert.Equal(t, "23", in.N.String())
	assert.Equal(t, "100", in.M.String())
}

func TestValidateAndParseInvalidFormat(t *testing.T) {
	tests := []struct {
		name    string
		a, n, m string
		field   string
	}{
		{name: "empty", a: "", n: "1", m: "1", field: "a"},
		{name: "blank", a: "1", n: "   ", m: "1", field: "n"},
		{name: "negative", a: "-1", n: "1", m: "1", field: "a"},
		{name: "plus sign", a: "1", n: "+1", m: "1", field: "n"},
		{name: "decimal point", a: "1", n: "1", m: "1.5", field: "m"},
		{name: "hex prefix", a: "0x10", n: "1", m: "1", field: "a"},
		{name: "inner space", a: "1", n: "1 2", m: "1", field: "n"},
		{name: "trailing letters", a: "12abc", n: "1", m: "1", field: "a"},
		{name: "exponent notation", a: "1", n: "1e3", m: "1", field: "n"},
		{name: "non-ascii digits", a: "1", n: "1", m: "١٢", field: "m"},
		{name: "first failing field wins", a: "x", n: "y", m: "z", field: "a"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in, err := ValidateAndParse(tc.a, tc.n, tc.m)
			require.Error(t, err)
			assert.Nil(t, in.A)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, KindInvalidFormat, verr.Kind)
			assert.Equal(t, tc.field, verr.Field)
			assert.Equal(t, tc.field+" must be a non-negative integer.", err.Error())
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestValidateAndParseOutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		a, n, m string
	}{
		{name: "base at limit", a: "16777216", n: "1", m: "5"},
		{name: "exponent at limit", a: "2", n: "16777216", m: "5"},
		{name: "modulus at limit", a: "2", n: "1", m: "16777216"},
		{name: "huge exponent", a: "2", n: "123456789012345678901234567890", m: "5"},
		{name: "checked before zero modulus", a: "16777216", n: "1", m: "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateAndParse(tc.a, tc.n, tc.m)
			require.Error(t, err)
			assert.Equal(t, KindOutOfRange, KindOf(err))
			assert.ErrorIs(t, err, ErrOutOfRange)
			assert.Equal(t, "All inputs must be less than 16777216.", err.Error())
		})
	}

	_, err := ValidateAndParse("16777215", "16777215", "16777215")
	assert.NoError(t, err)
}

func TestValidateAndParseLongOperands(t *testing.T) {
	huge := strings.Repeat("9", 1_000_000)

	start := time.Now()
	_, err := ValidateAndParse(huge, "3", "5")
	require.Error(t, err)
	assert.Equal(t, KindOutOfRange, KindOf(err))
	assert.Less(t, time.Since(start), time.Second)

	// Format is still checked on every field before range.
	_, err = ValidateAndParse(huge, "x", "5")
	assert.Equal(t, KindInvalidFormat, KindOf(err))

	in, err := ValidateAndParse(strings.Repeat("0", 1_000)+"7", "007", "0000")
	require.Error(t, err)
	assert.Equal(t, KindZeroModulus, KindOf(err))
	assert.Nil(t, in.A)

	in, err = ValidateAndParse(strings.Repeat("0", 1_000)+"7", "007", "016777215")
	require.NoError(t, err)
	assert.Equal(t, "7", in.A.String())
	assert.Equal(t, "7", in.N.String())
	assert.Equal(t, "16777215", in.M.String())
}

func TestValidateAndParseTrimsByteOrderMark(t *testing.T) {
	in, err := ValidateAndParse("\uFEFF5", " \uFEFF 13\n", "23\uFEFF")
	require.NoError(t, err)

	assert.Equal(t, "5", in.A.String())
	assert.Equal(t, "13", in.N.String())
	assert.Equal(t, "23", in.M.String())

	_, err = ValidateAndParse("5\uFEFF5", "1", "1")
	assert.Equal(t, KindInvalidFormat, KindOf(err))
}

func TestValidateAndParseZeroModulus(t *testing.T) {
	for _, raw := range [][2]string{{"0", "0"}, {"5", "7"}, {"16777215", "1"}} {
		_, err := ValidateAndParse(raw[0], raw[1], "000")
		require.Error(t, err)
		assert.Equal(t, KindZeroModulus, KindOf(err))
		assert.ErrorIs(t, err, ErrZeroModulus)
		assert.NotErrorIs(t, err, ErrOutOfRange)
		assert.Equal(t, "Modulus (m) must be greater than 0", err.Error())
	}
}

func TestValidatorCustomLimit(t *testing.T) {
	v, err := NewValidator(LimitFromBits(36))
	require.NoError(t, err)
	assert.Equal(t, "68719476736", v.Limit().String())

	in, err := v.ValidateAndParse("3", "16777216", "23")
	require.NoError(t, err)
	assert.Equal(t, "16777216", in.N.String())

	_, err = v.ValidateAndParse("3", "68719476736", "23")
	assert.EqualError(t, err, "All inputs must be less than 68719476736.")
}

func TestValidatorLimitIsCopied(t *testing.T) {
	limit := big.NewInt(100)
	v, err := NewValidator(limit)
	require.NoError(t, err)

	limit.SetInt64(5)
	v.Limit().SetInt64(1)

	_, err = v.ValidateAndParse("50", "50", "50")
	assert.NoError(t, err)
}

func TestNewValidatorRejectsTinyLimits(t *testing.T) {
	for _, limit := range []*big.Int{nil, big.NewInt(-4), big.NewInt(0), big.NewInt(1)} {
		_, err := NewValidator(limit)
		assert.Error(t, err)
	}
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestValidateThenCalculate(t *testing.T) {
	in, err := ValidateAndParse("2", "23", "100")
	require.NoError(t, err)
	assert.Equal(t, "8", in.Calculate().Result.String())

	_, err = ValidateAndParse("1", "16777216", "5")
	assert.ErrorIs(t, err, ErrOutOfRange)
}

// FuzzValidateAndParse checks that exactly one of (error, parsed inputs) is
// produced and that anything accepted can be calculated.
func FuzzValidateAndParse(f *testing.F) {
	seeds := [][3]string{
		{"2", "23", "100"},
		{"3", "100", "23"},
		{"", "", ""},
		{" 7 ", "0", "1"},
		{"-1", "1.5", "0x1"},
		{"16777216", "1", "1"},
		{"0", "0", "0"},
	}
	for _, s := range seeds {
		f.Add(s[0], s[1], s[2])
	}

	f.Fuzz(func(t *testing.T, a, n, m string) {
		in, err := ValidateAndParse(a, n, m)
		if err != nil {
			if in.A != nil || in.N != nil || in.M != nil {
				t.Fatalf("error %q returned together with parsed inputs", err)
			}
			if err.Error() == "" {
				t.Fatal("empty error message")
			}
			if KindOf(err) == "" {
				t.Fatalf("error %q carries no kind", err)
			}
			return
		}
		if in.A == nil || in.N == nil || in.M == nil {
			t.Fatal("neither error nor parsed inputs")
		}

		r := in.Calculate()
		if r.Result.Cmp(in.M) >= 0 || r.Result.Sign() < 0 {
			t.Fatalf("result %s outside [0, %s)", r.Result, in.M)
		}
		if len(r.Steps) != len(r.Bits) {
			t.Fatalf("steps %d != bits %d", len(r.Steps), len(r.Bits))
		}
	})
}
