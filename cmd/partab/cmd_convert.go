package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/partab"
	"github.com/arloliu/partab/table"
)

func newConvertCmd(c *cli) *cobra.Command {
	var (
		compression string
		bigEndian   bool
	)

	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Re-encode a serialized blob with another compression or byte order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("compression") {
				compression = c.cfg.Compression
			}
			comp, err := parseCompression(compression)
			if err != nil {
				return err
			}

			encOpts := []table.EncodeOption{partab.WithCompression(comp)}
			if bigEndian {
				encOpts = append(encOpts, partab.WithBigEndian())
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			out, err := convert(data, encOpts, c.tableOptions("convert")...)
			if err != nil {
				return fmt.Errorf("convert %s: %w", args[0], err)
			}
			if err := os.WriteFile(args[1], out, 0o644); err != nil { //nolint:gosec
				return err
			}

			c.logger.Info("blob converted",
				"in", args[0], "out", args[1],
				"compression", comp.String(),
				"in_bytes", len(data), "out_bytes", len(out))

			return nil
		},
	}
	cmd.Flags().StringVar(&compression, "compression", "none", "body compression: none, zstd, s2 or lz4 (default from config)")
	cmd.Flags().BoolVar(&bigEndian, "big-endian", false, "write fixed-width fields big-endian")

	return cmd
}

// convert decodes any blob and encodes the same state with encOpts.
func convert(data []byte, encOpts []table.EncodeOption, opts ...table.Option) ([]byte, error) {
	_, state, err := load(data, opts...)
	if err != nil {
		return nil, err
	}

	return state.reencode(encOpts...)
}
