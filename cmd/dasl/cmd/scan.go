package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/n0-computer/dasl/drisl"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Stream-decode a file of concatenated values and report throughput",
	Long: `Scan reads a file holding back-to-back DRISL values, decodes them one
by one without buffering the whole file, and prints value count and
throughput. Files ending in .zst are decompressed transparently.

Example:
  dasl scan records.drisl
  dasl scan records.drisl.zst --verbose`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

// openInput opens path, layering zstd decompression for .zst files. The
// returned closer releases both the file and any decompressor.
func openInput(path string) (io.Reader, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, func() { f.Close() }, nil
	}
	zr, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("open zstd stream: %w", err)
	}
	return zr, func() { zr.Close(); f.Close() }, nil
}

func runScan(out io.Writer, path string) error {
	r, closeInput, err := openInput(path)
	if err != nil {
		return err
	}
	defer closeInput()

	dec := drisl.NewDecoderOptions(drisl.NewReaderSource(r), drisl.DecoderOptions{
		Logger: newLogger(),
	})

	start := time.Now()
	var count uint64
	for {
		v, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("scan %s: value %d: %w", path, count+1, err)
		}
		if count == 0 {
			fmt.Fprintf(out, "first value: %s\n", v)
		}
		count++
	}
	elapsed := time.Since(start)

	bytesRead := dec.Offset()
	mib := float64(bytesRead) / 1024 / 1024
	secs := elapsed.Seconds()
	fmt.Fprintf(out, "%s: %d values, %.1f MiB in %dms\n", path, count, mib, elapsed.Milliseconds())
	if secs > 0 {
		fmt.Fprintf(out, "%.2f values/s, %.2f MiB/s\n", float64(count)/secs, mib/secs)
	}
	return nil
}
