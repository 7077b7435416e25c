package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"

	"github.com/n0-computer/dasl/drisl"
)

// diagCmd represents the diag command
var diagCmd = &cobra.Command{
	Use:   "diag [file]",
	Short: "Print RFC 8949 diagnostic notation for a DRISL value",
	Long: `Diag validates its input as canonical DRISL and prints it in CBOR
diagnostic notation, which preserves type information JSON loses:
byte strings vs text, integer vs float, tagged links. Reads stdin
when no file is given.

Example:
  dasl diag message.drisl
  dasl convert --from json doc.json | dasl diag`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		return runDiag(cmd.OutOrStdout(), in)
	},
}

func init() {
	rootCmd.AddCommand(diagCmd)
}

func runDiag(out io.Writer, in io.Reader) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("empty input: expected DRISL bytes")
	}
	// Validate against the canonical subset first; Diagnose itself
	// accepts all of CBOR.
	if _, err := drisl.Decode(data); err != nil {
		return err
	}
	diag, err := cbor.Diagnose(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, diag)
	return err
}
