// Package querystate mirrors calculator inputs to and from a query string so a
// calculation can be shared as a link. Values are kept as raw strings; the
// calculator's validator decides whether they are usable.
package querystate

import (
	"net/url"
	"strings"
)

// Query string keys.
const (
	KeyA = "a"
	KeyN = "n"
	KeyM = "m"
)

// Inputs is the raw, unvalidated input triple.
type Inputs struct {
	A string `json:"a" yaml:"a"`
	N string `json:"n" yaml:"n"`
	M string `json:"m" yaml:"m"`
}

// Defaults are used for missing or blank keys.
var Defaults = Inputs{A: "3", N: "100", M: "23"}

// Codec reads and writes Inputs against a set of defaults.
type Codec struct {
	defaults Inputs
}

// NewCodec returns a codec; blank fields of defaults fall back to Defaults.
func NewCodec(defaults Inputs) Codec {
	return Codec{defaults: Inputs{
		A: orDefault(defaults.A, Defaults.A),
		N: orDefault(defaults.N, Defaults.N),
		M: orDefault(defaults.M, Defaults.M),
	}}
}

// Defaults returns the codec's default inputs.
func (c Codec) Defaults() Inputs {
	return c.defaults
}

// FromValues reads a, n and m, trimming whitespace. Missing or blank keys
// take the default value.
func (c Codec) FromValues(v url.Values) Inputs {
	return Inputs{
		A: orDefault(strings.TrimSpace(v.Get(KeyA)), c.defaults.A),
		N: orDefault(strings.TrimSpace(v.Get(KeyN)), c.defaults.N),
		M: orDefault(strings.TrimSpace(v.Get(KeyM)), c.defaults.M),
	}
}

// FromQuery parses a raw query string (without the leading '?'). A query that
// cannot be parsed yields the defaults.
func (c Codec) FromQuery(rawQuery string) Inputs {
	v, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return c.defaults
	}
	return c.FromValues(v)
}

// Values returns the query values for in. Blank values and values equal to
// the defaults are omitted.
func (c Codec) Values(in Inputs) url.Values {
	v := url.Values{}
	set := func(key, val, def string) {
		if strings.TrimSpace(val) == "" || val == def {
			return
		}
		v.Set(key, val)
	}
	set(KeyA, in.A, c.defaults.A)
	set(KeyN, in.N, c.defaults.N)
	set(KeyM, in.M, c.defaults.M)
	return v
}

// Encode returns the query string for in, without the leading '?'. It is
// empty when every value matches the defaults.
func (c Codec) Encode(in Inputs) string {
	return c.Values(in).Encode()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
