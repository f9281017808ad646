package calculator

import (
	"encoding/json"
	"fmt"
	"strings"

	"fastexp/internal/modexp"
	"fastexp/internal/querystate"
)

// Operand is an input as written by the client. It accepts a JSON string or
// a JSON number and keeps the literal text, so large integers lose no
// precision before validation.
type Operand string

func (o *Operand) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = Operand(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("operand must be a string or number: %w", err)
	}
	*o = Operand(n.String())
	return nil
}

// ModexpRequest is the JSON body for POST /calculator/modexp.
type ModexpRequest struct {
	A Operand `json:"a"`
	N Operand `json:"n"`
	M Operand `json:"m"`
}

// Inputs returns the trimmed raw inputs.
func (r ModexpRequest) Inputs() querystate.Inputs {
	return querystate.Inputs{
		A: strings.TrimSpace(string(r.A)),
		N: strings.TrimSpace(string(r.N)),
		M: strings.TrimSpace(string(r.M)),
	}
}

// StepResponse is one row of the trace.
type StepResponse struct {
	Bit          uint8  `json:"bit"`
	Value        string `json:"value"`
	Operation    string `json:"operation"`
	OperationTeX string `json:"operation_tex"`
}

// ModexpResponse is the JSON response for the modexp endpoints. Integers are
// decimal strings.
type ModexpResponse struct {
	A        string         `json:"a"`
	N        string         `json:"n"`
	M        string         `json:"m"`
	Bits     []int          `json:"bits"`
	Binary   string         `json:"binary"`
	BitCount int            `json:"bit_count"`
	Steps    []StepResponse `json:"steps"`
	Result   string         `json:"result"`
	Equation string         `json:"equation"`
	Query    string         `json:"query"` // shareable query string, defaults omitted
}

// DefaultsResponse is the JSON response for GET /calculator/modexp/defaults.
type DefaultsResponse struct {
	Defaults querystate.Inputs `json:"defaults"`
	Limit    string            `json:"limit"`
}

// NewModexpResponse converts a trace into its JSON form. query is the share
// query string.
func NewModexpResponse(in modexp.ParsedInputs, res modexp.CalculationResult, query string) ModexpResponse {
	bits := make([]int, len(res.Bits))
	for i, b := range res.Bits {
		bits[i] = int(b)
	}

	steps := make([]StepResponse, len(res.Steps))
	for i, s := range res.Steps {
		steps[i] = StepResponse{
			Bit:          s.Bit,
			Value:        s.Value.String(),
			Operation:    s.Operation,
			OperationTeX: s.OperationTeX,
		}
	}

	return ModexpResponse{
		A:        in.A.String(),
		N:        in.N.String(),
		M:        in.M.String(),
		Bits:     bits,
		Binary:   res.BinaryStr,
		BitCount: res.BitCount(),
		Steps:    steps,
		Result:   res.Result.String(),
		Equation: modexp.Equation(in, res),
		Query:    query,
	}
}
