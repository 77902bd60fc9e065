package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/arena"
)

var arenaSize string

func init() {
	cmd := newArenaCmd()
	cmd.Flags().StringVar(&arenaSize, "size", "4KiB", "Backing buffer size")
	rootCmd.AddCommand(cmd)
}

func newArenaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arena [script]",
		Short: "Run a script against a bump arena",
		Long: `The arena command bump-allocates from a buffer. free lines are accepted
and ignored; memory comes back through reset, or restore to the last save.

Example:
  memctl arena --size 1KiB script.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArena(args)
		},
	}
	return cmd
}

func runArena(args []string) error {
	size, err := parseSize(arenaSize)
	if err != nil {
		return err
	}
	b, release, err := newBacking(size)
	if err != nil {
		return err
	}
	defer releaseBacking(release)

	a, err := arena.New(b)
	if err != nil {
		return fmt.Errorf("create arena: %w", err)
	}
	return runTarget(newArenaTarget(a), args)
}
