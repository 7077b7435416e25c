package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/n0-computer/dasl/drisl"
	zaplog "github.com/n0-computer/dasl/drisl/log/zap"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dasl",
	Short: "dasl - tools for the DRISL canonical encoding",
	Long: `dasl works with DRISL, a deterministic CBOR subset with exactly one
byte sequence per logical value. It can scan and dump streams of
concatenated values, canonicalize JSON/YAML/msgpack documents, and
print diagnostic notation.`,
}

var verbose bool

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// newLogger returns the decoder logger: zap development output with
// --verbose, disabled otherwise.
func newLogger() drisl.Logger {
	if !verbose {
		return drisl.NopLogger{}
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return drisl.NopLogger{}
	}
	return zaplog.ZapLogger{L: l}
}
