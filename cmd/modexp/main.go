package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fastexp/internal/calculator"
	"fastexp/internal/config"
	"fastexp/internal/modexp"
	"fastexp/internal/report"
)

type options struct {
	a, n, m    string
	query      string
	limitBits  uint
	format     string
	configPath string
	verbose    bool

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "modexp",
		Short: "Trace a^n mod m computed by binary exponentiation",
		Long: `modexp computes a^n mod m by scanning the binary digits of n from the
left, squaring at every bit and multiplying by a at every 1 bit. It prints
each intermediate value so the derivation can be followed step by step.

Inputs not given as flags are read from --query, then from the configured
defaults (a=3, n=100, m=23).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			if opts.verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			opts.logger, err = cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.a, "a", "", "base")
	flags.StringVar(&opts.n, "n", "", "exponent")
	flags.StringVar(&opts.m, "m", "", "modulus")
	flags.StringVar(&opts.query, "query", "", `query string such as "a=5&n=13"`)
	flags.UintVar(&opts.limitBits, "limit-bits", 0, "inputs must be below 2^limit-bits (default from config)")
	flags.StringVar(&opts.format, "format", "table", "output format: table or json")

	pflags := cmd.PersistentFlags()
	pflags.StringVar(&opts.configPath, "config", os.Getenv("MODEXP_CONFIG"), "path to a YAML config file")
	pflags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newExplainCmd(), newConfigCmd())

	return cmd
}

func newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain",
		Short: "Describe the square-and-multiply method",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), report.Explanation)
			return err
		},
	}
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.limitBits != 0 {
		cfg.Calculator.LimitBits = opts.limitBits
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	v, err := cfg.Validator()
	if err != nil {
		return err
	}
	codec := cfg.Codec()

	raw := codec.FromQuery(opts.query)
	flags := cmd.Flags()
	if flags.Changed("a") {
		raw.A = strings.TrimSpace(opts.a)
	}
	if flags.Changed("n") {
		raw.N = strings.TrimSpace(opts.n)
	}
	if flags.Changed("m") {
		raw.M = strings.TrimSpace(opts.m)
	}

	opts.logger.Debug("validating inputs",
		zap.String("a", raw.A),
		zap.String("n", raw.N),
		zap.String("m", raw.M),
		zap.Stringer("limit", v.Limit()),
	)

	in, err := v.ValidateAndParse(raw.A, raw.N, raw.M)
	if err != nil {
		opts.logger.Debug("inputs rejected", zap.String("kind", string(modexp.KindOf(err))), zap.Error(err))
		return err
	}

	res := in.Calculate()
	opts.logger.Debug("calculation finished",
		zap.Stringer("result", res.Result),
		zap.Int("bits", res.BitCount()),
	)

	return render(cmd, opts.format, in, res, codec.Encode(raw))
}

func render(cmd *cobra.Command, format string, in modexp.ParsedInputs, res modexp.CalculationResult, share string) error {
	out := cmd.OutOrStdout()
	switch format {
	case "table":
		return report.Write(out, in, res, share)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(calculator.NewModexpResponse(in, res, share))
	default:
		return fmt.Errorf("unknown format %q (want table or json)", format)
	}
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
