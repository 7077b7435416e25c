package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/n0-computer/dasl/drisl"
	"github.com/n0-computer/dasl/transcode"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Stream-decode a file and print each value as a JSON line",
	Long: `Dump reads a file of concatenated DRISL values and writes one JSON
document per value to stdout. Byte strings and links appear as
{"$bytes": "<hex>"} and {"$link": "<hex>"} wrappers.

Example:
  dasl dump records.drisl | jq .`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDump(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func runDump(out io.Writer, path string) error {
	r, closeInput, err := openInput(path)
	if err != nil {
		return err
	}
	defer closeInput()

	dec := drisl.NewDecoderOptions(drisl.NewReaderSource(r), drisl.DecoderOptions{
		Logger: newLogger(),
	})
	for {
		v, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("dump %s: %w", path, err)
		}
		line, err := transcode.ToJSON(v)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "%s\n", line); err != nil {
			return err
		}
	}
}
