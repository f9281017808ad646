// Package report renders a calculation trace as terminal text.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"fastexp/internal/modexp"
)

// Explanation describes the left-to-right square-and-multiply method.
const Explanation = `How it works
  1. Convert the exponent n to binary.
  2. Start with the leftmost bit and set the result to a (mod m).
  3. For each following bit:
       bit 0: square the previous result (mod m)
       bit 1: square the previous result and multiply by a (mod m)
  This takes O(log n) multiplications instead of O(n).
`

// WriteSummary prints the final equation and the binary form of the exponent.
func WriteSummary(w io.Writer, in modexp.ParsedInputs, res modexp.CalculationResult) error {
	_, err := fmt.Fprintf(w, "Final result: %s\nBinary representation of %s: (%s)₂ (%d bits)\n",
		modexp.Equation(in, res), in.N.String(), res.BinaryStr, res.BitCount())
	return err
}

// WriteTable prints one row per step: bit, operation and resulting value.
func WriteTable(w io.Writer, in modexp.ParsedInputs, res modexp.CalculationResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Bit", fmt.Sprintf("Operation (mod %s)", in.M.String()), "Result"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, s := range res.Steps {
		table.Append([]string{strconv.Itoa(int(s.Bit)), s.Operation, s.Value.String()})
	}
	table.Render()
}

// Write prints the summary, the step table and, when share is non-empty, the
// query string that reproduces the calculation.
func Write(w io.Writer, in modexp.ParsedInputs, res modexp.CalculationResult, share string) error {
	if err := WriteSummary(w, in, res); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	WriteTable(w, in, res)
	if share != "" {
		if _, err := fmt.Fprintf(w, "\nShare: ?%s\n", share); err != nil {
			return err
		}
	}
	return nil
}
