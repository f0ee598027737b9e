package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/numcheck/internal/ir"
	"github.com/roach88/numcheck/internal/numparse"
)

// ParseOptions holds flags for the parse subcommands.
type ParseOptions struct {
	*RootOptions
	Radix int
}

// ScanInfo describes how much of the input a parser consumed.
type ScanInfo struct {
	CaseID   string `json:"case_id,omitempty"`
	Radix    int    `json:"radix,omitempty"`
	Consumed string `json:"consumed"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Error    string `json:"error,omitempty"`
}

// ParseOutput is the result of a parse subcommand.
type ParseOutput struct {
	Call        string      `json:"call"`
	Input       string      `json:"input"`
	Radix       *int        `json:"radix,omitempty"`
	Value       ir.IRNumber `json:"value"`
	Diagnostics *ScanInfo   `json:"diagnostics,omitempty"`
}

// NewParseCommand creates the parse command group.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a single string",
		Long: `Parse one string with parseInt or parseFloat and print the value.

Inputs that start with "-" must follow "--" so they are not read as flags.

Examples:
  numcheck parse int 0x100
  numcheck parse int 100 --radix 16
  numcheck parse float .01 --verbose
  numcheck parse int -- -42`,
	}

	cmd.AddCommand(newParseIntCommand(rootOpts))
	cmd.AddCommand(newParseFloatCommand(rootOpts))
	return cmd
}

func newParseIntCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "int <input>",
		Short:         "Parse an integer (0x/0b prefixes, radix 2..36)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := ParseOutput{Call: ir.CallParseInt, Input: args[0]}
			if cmd.Flags().Changed("radix") {
				radix := opts.Radix
				out.Radix = &radix
			}
			out.Value = ir.NewIRNumber(numparse.ParseInt(args[0], opts.Radix))

			if opts.Verbose {
				res, err := numparse.ScanInt(args[0], opts.Radix)
				out.Diagnostics = &ScanInfo{
					CaseID:   caseIDOf(ir.CallParseInt, args[0], opts.Radix),
					Radix:    res.Radix,
					Consumed: res.Text,
					Start:    res.Start,
					End:      res.End,
				}
				if err != nil {
					out.Diagnostics.Error = err.Error()
				}
			}
			return outputParse(newFormatter(rootOpts, cmd), out)
		},
	}

	cmd.Flags().IntVar(&opts.Radix, "radix", 0, "radix 2..36 (0 detects 0x/0b prefixes)")
	return cmd
}

func newParseFloatCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "float <input>",
		Short:         "Parse a decimal number",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := ParseOutput{
				Call:  ir.CallParseFloat,
				Input: args[0],
				Value: ir.NewIRNumber(numparse.ParseFloat(args[0])),
			}

			if rootOpts.Verbose {
				res, err := numparse.ScanFloat(args[0])
				out.Diagnostics = &ScanInfo{
					CaseID:   caseIDOf(ir.CallParseFloat, args[0], 0),
					Consumed: res.Text,
					Start:    res.Start,
					End:      res.End,
				}
				if err != nil {
					out.Diagnostics.Error = err.Error()
				}
			}
			return outputParse(newFormatter(rootOpts, cmd), out)
		},
	}
}

func outputParse(formatter *OutputFormatter, out ParseOutput) error {
	if formatter.IsJSON() {
		return formatter.Success(out)
	}

	w := formatter.Writer
	fmt.Fprintln(w, out.Value)
	if d := out.Diagnostics; d != nil {
		if d.CaseID != "" {
			fmt.Fprintf(w, "  case:     %s\n", d.CaseID)
		}
		if d.Radix != 0 {
			fmt.Fprintf(w, "  radix:    %d\n", d.Radix)
		}
		fmt.Fprintf(w, "  consumed: %q [%d:%d]\n", d.Consumed, d.Start, d.End)
		if d.Error != "" {
			fmt.Fprintf(w, "  error:    %s\n", d.Error)
		}
	}
	return nil
}

// caseIDOf is the ID "history --case" looks up for this call. It is empty
// for input that cannot be canonicalised.
func caseIDOf(call, input string, radix int) string {
	id, err := ir.CaseID(call, input, radix)
	if err != nil {
		return ""
	}
	return id
}
