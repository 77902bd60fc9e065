package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/pool"
)

var (
	poolSize   string
	poolChunk  int
	poolAlign  int
	poolNoZero bool
)

func init() {
	cmd := newPoolCmd()
	cmd.Flags().StringVar(&poolSize, "size", "4KiB", "Backing buffer size")
	cmd.Flags().IntVar(&poolChunk, "chunk", 64, "Chunk size in bytes")
	cmd.Flags().IntVar(&poolAlign, "align", pool.DefaultConfig.Alignment, "Chunk alignment (power of two)")
	cmd.Flags().BoolVar(&poolNoZero, "no-zero", false, "Hand out chunks without clearing them")
	rootCmd.AddCommand(cmd)
}

func newPoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool [script]",
		Short: "Run a script against a fixed-size chunk pool",
		Long: `The pool command splits a buffer into equal chunks and replays the
allocation script against it. Sizes in alloc lines may be omitted; they
default to the whole chunk.

Example:
  memctl pool --size 64 --chunk 16 script.txt
  echo "alloc a" | memctl pool --chunk 32 -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPool(args)
		},
	}
	return cmd
}

func runPool(args []string) error {
	size, err := parseSize(poolSize)
	if err != nil {
		return err
	}
	b, release, err := newBacking(size)
	if err != nil {
		return err
	}
	defer releaseBacking(release)

	p, err := pool.New(b, poolChunk, &pool.Config{Alignment: poolAlign, Zero: !poolNoZero})
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	printVerbose("Pool: %d chunks of %d bytes\n", p.Cap(), p.ChunkSize())
	return runTarget(newPoolTarget(p), args)
}
