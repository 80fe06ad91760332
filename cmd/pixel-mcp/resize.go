package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/pixel-tools-mcp/internal/imaging"
	"github.com/ironsheep/pixel-tools-mcp/internal/pixbuf"
	"github.com/ironsheep/pixel-tools-mcp/internal/resample"
	"github.com/ironsheep/pixel-tools-mcp/internal/seam"
)

var (
	targetWidth  int
	targetHeight int
)

var resampleCmd = &cobra.Command{
	Use:   "resample <input> <output>",
	Short: "Resize an image by exact pixel replication and decimation",
	Long: `Resize an image to exactly --width x --height pixels. Each output pixel
is a copy of one source pixel, so integer scale factors are lossless.
The output format follows the output file extension.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := imaging.CheckPixels(targetWidth, targetHeight, cfg.Limits.MaxPixels); err != nil {
			return err
		}
		return runResize(cmd, args, func(b pixbuf.Buffer) (pixbuf.Buffer, error) {
			return resample.Resample(b, targetWidth, targetHeight), nil
		})
	},
}

var carveCmd = &cobra.Command{
	Use:   "carve <input> <output>",
	Short: "Shrink an image by seam carving",
	Long: `Shrink an image to --width x --height by removing low-energy seams.
Targets larger than the input leave that dimension unchanged.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResize(cmd, args, func(b pixbuf.Buffer) (pixbuf.Buffer, error) {
			seams := max(b.Width-targetWidth, 0) + max(b.Height-targetHeight, 0)
			if limit := cfg.Limits.MaxSeams; limit > 0 && seams > limit {
				return pixbuf.Buffer{}, fmt.Errorf("%d seams to remove, more than limits.max_seams (%d)", seams, limit)
			}
			carver := seam.Carver{
				Workers:           cfg.Carve.Workers,
				ParallelThreshold: cfg.Carve.ParallelThreshold,
			}
			return carver.Carve(b, targetWidth, targetHeight), nil
		})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{resampleCmd, carveCmd} {
		cmd.Flags().IntVar(&targetWidth, "width", 0, "target width in pixels")
		cmd.Flags().IntVar(&targetHeight, "height", 0, "target height in pixels")
		_ = cmd.MarkFlagRequired("width")
		_ = cmd.MarkFlagRequired("height")
		rootCmd.AddCommand(cmd)
	}
}

// runResize loads args[0], transforms it with fn and saves it to args[1].
func runResize(cmd *cobra.Command, args []string, fn func(pixbuf.Buffer) (pixbuf.Buffer, error)) error {
	in, out := args[0], args[1]
	if targetWidth < 0 || targetHeight < 0 {
		return fmt.Errorf("target dimensions cannot be negative: %dx%d", targetWidth, targetHeight)
	}

	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", in, err)
	}
	src, _, err := imaging.Decode(f, cfg.Limits.MaxPixels)
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	start := time.Now()
	dst, err := fn(src)
	if err != nil {
		return err
	}
	logVerbose("%s %dx%d -> %dx%d in %s", cmd.Name(), src.Width, src.Height, dst.Width, dst.Height, time.Since(start))

	if dst.Empty() {
		return fmt.Errorf("result %dx%d has no pixels to write", dst.Width, dst.Height)
	}
	if err := imaging.Save(out, dst, cfg.Output.Quality); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d -> %dx%d (%s)\n", out, src.Width, src.Height, dst.Width, dst.Height, dst.Digest())
	return nil
}
