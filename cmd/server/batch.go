package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Brownie44l1/ai-dashboard/internal/pixels"
)

var batchOpts struct {
	Op      string
	Kernel  string
	Preset  string
	OutDir  string
	Workers int
}

var batchCmd = &cobra.Command{
	Use:   "batch <image>...",
	Short: "Filter or normalize many images in parallel",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchOpts.Op, "op", "filter", "Operation to apply: filter or normalize")
	batchCmd.Flags().StringVarP(&batchOpts.Kernel, "kernel", "k", "", "Comma-separated kernel weights (filter only)")
	batchCmd.Flags().StringVar(&batchOpts.Preset, "preset", "", "Named kernel (filter only)")
	batchCmd.Flags().StringVarP(&batchOpts.OutDir, "out", "o", "out", "Directory for results")
	batchCmd.Flags().IntVarP(&batchOpts.Workers, "workers", "w", runtime.NumCPU(), "Number of images processed at once")
	batchCmd.MarkFlagsMutuallyExclusive("kernel", "preset")
	rootCmd.AddCommand(batchCmd)
}

// runBatch processes every input, writing <name>_<op>.png into the output
// directory. The first failure cancels work that has not started yet.
func runBatch(cmd *cobra.Command, inputs []string) error {
	var apply func(pixels.Image) (pixels.Image, error)
	switch batchOpts.Op {
	case "filter":
		kernel, err := kernelFromFlags(batchOpts.Kernel, batchOpts.Preset)
		if err != nil {
			return err
		}
		apply = func(img pixels.Image) (pixels.Image, error) { return pixels.Convolve(img, kernel) }
	case "normalize":
		apply = func(img pixels.Image) (pixels.Image, error) { return pixels.Normalize(img).Image, nil }
	default:
		return fmt.Errorf("unknown operation %q: use filter or normalize", batchOpts.Op)
	}
	if batchOpts.Workers < 1 {
		return fmt.Errorf("--workers must be at least 1, got %d", batchOpts.Workers)
	}

	outputs, err := batchOutputs(batchOpts.OutDir, inputs, batchOpts.Op)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(batchOpts.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	bar := progressbar.NewOptions(len(inputs),
		progressbar.OptionSetDescription("Processing images"),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionShowCount(),
	)

	var done atomic.Int64
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(batchOpts.Workers)
	for i, in := range inputs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := loadImage(in)
			if err != nil {
				return err
			}
			out, err := apply(img)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			if err := saveImage(outputs[i], out); err != nil {
				return err
			}
			done.Add(1)
			bar.Add(1)
			return nil
		})
	}

	err = g.Wait()
	bar.Finish()
	fmt.Fprintf(cmd.OutOrStdout(), "\nProcessed %d of %d images into %s\n", done.Load(), len(inputs), batchOpts.OutDir)
	return err
}

// batchOutputs maps each input to its output path. Two inputs that would
// write the same file are rejected before anything is processed.
func batchOutputs(dir string, inputs []string, op string) ([]string, error) {
	outputs := make([]string, len(inputs))
	seen := make(map[string]string, len(inputs))
	for i, in := range inputs {
		out := batchOutputPath(dir, in, op)
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%s and %s would both be written to %s", prev, in, out)
		}
		seen[out] = in
		outputs[i] = out
	}
	return outputs, nil
}

func batchOutputPath(dir, input, op string) string {
	base := filepath.Base(input)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+"_"+op+".png")
}
