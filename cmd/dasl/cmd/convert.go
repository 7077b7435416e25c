package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/n0-computer/dasl/drisl"
	"github.com/n0-computer/dasl/transcode"
)

var convertFrom string

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Canonicalize a JSON, YAML, or msgpack document to DRISL bytes",
	Long: `Convert parses a foreign document and writes its canonical DRISL
encoding to stdout. Two inputs expressing the same logical document
produce byte-identical output. Reads stdin when no file is given.

Example:
  dasl convert --from json config.json > config.drisl
  cat doc.yaml | dasl convert --from yaml > doc.drisl`,
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
		return runConvert(cmd.OutOrStdout(), in, convertFrom)
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertFrom, "from", "json", "Input format: json, yaml, or msgpack")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(out io.Writer, in io.Reader, format string) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var v *drisl.Value
	switch format {
	case "json":
		v, err = transcode.FromJSON(data)
	case "yaml":
		v, err = transcode.FromYAML(data)
	case "msgpack":
		v, err = transcode.FromMsgpack(data)
	default:
		return fmt.Errorf("unknown input format %q", format)
	}
	if err != nil {
		return err
	}

	enc, err := drisl.Encode(v)
	if err != nil {
		return err
	}
	_, err = out.Write(enc)
	return err
}
