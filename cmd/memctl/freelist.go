package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/freelist"
)

var (
	freelistSize  string
	freelistSplit int
	freelistZero  bool
)

func init() {
	cmd := newFreelistCmd()
	cmd.Flags().StringVar(&freelistSize, "size", "4KiB", "Backing buffer size")
	cmd.Flags().IntVar(&freelistSplit, "split", freelist.MinBlock, "Smallest remainder split off a free block")
	cmd.Flags().BoolVar(&freelistZero, "zero", false, "Clear payloads before handing them out")
	rootCmd.AddCommand(cmd)
}

func newFreelistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "freelist [script]",
		Short: "Run a script against a variable-size freelist allocator",
		Long: `The freelist command manages a buffer as first-fit blocks with boundary
tags and replays the allocation script against it. The final report lists
every block with its state.

Example:
  memctl freelist --size 1KiB script.txt
  memctl freelist --size 64KiB --split 128 --json script.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFreelist(args)
		},
	}
	return cmd
}

func runFreelist(args []string) error {
	size, err := parseSize(freelistSize)
	if err != nil {
		return err
	}
	b, release, err := newBacking(size)
	if err != nil {
		return err
	}
	defer releaseBacking(release)

	f, err := freelist.New(b, &freelist.Config{SplitThreshold: freelistSplit, Zero: freelistZero})
	if err != nil {
		return fmt.Errorf("create freelist: %w", err)
	}
	printVerbose("Freelist: %s window\n", byteCount(len(f.Window())))
	return runTarget(freelistTarget{f}, args)
}
