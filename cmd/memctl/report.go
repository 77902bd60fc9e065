package main

import (
	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/memkit/alloc"
)

// report is what memctl prints after a run.
type report struct {
	Allocator string     `json:"allocator"`
	Capacity  int        `json:"capacity"`
	Used      int        `json:"used"`
	Available int        `json:"available"`
	NoSpace   int        `json:"noSpace"`
	Live      []liveRow  `json:"live"`
	Blocks    []blockRow `json:"blocks,omitempty"`
	Stats     any        `json:"stats"`
}

type liveRow struct {
	Name string    `json:"name"`
	Ref  alloc.Ref `json:"ref"`
	Size int       `json:"size"`
}

type blockRow struct {
	Offset int  `json:"offset"`
	Size   int  `json:"size"`
	Free   bool `json:"free"`
}

var numbers = message.NewPrinter(language.English)

// byteCount renders n as "1.0 KiB (1,024 bytes)".
func byteCount(n int) string {
	if n < 1024 {
		return numbers.Sprintf("%d bytes", n)
	}
	return numbers.Sprintf("%s (%d bytes)", humanize.IBytes(uint64(n)), n)
}

func printReport(r report) error {
	if jsonOut {
		return printJSON(r)
	}

	printInfo("\n%s allocator:\n", r.Allocator)
	printInfo("  Capacity:  %s\n", byteCount(r.Capacity))
	printInfo("  Used:      %s\n", byteCount(r.Used))
	printInfo("  Available: %s\n", byteCount(r.Available))
	if r.NoSpace > 0 {
		printInfo("  Out of space: %d request(s)\n", r.NoSpace)
	}

	if len(r.Live) > 0 {
		printInfo("\nLive allocations:\n")
		printInfo("  %-12s %10s %10s\n", "NAME", "REF", "SIZE")
		for _, l := range r.Live {
			printInfo("  %-12s %#10x %10s\n", l.Name, l.Ref, numbers.Sprintf("%d", l.Size))
		}
	}

	if len(r.Blocks) > 0 {
		printInfo("\nBlocks:\n")
		printInfo("  %10s %10s  %s\n", "OFFSET", "SIZE", "STATE")
		for _, b := range r.Blocks {
			state := "used"
			if b.Free {
				state = "free"
			}
			printInfo("  %#10x %10s  %s\n", b.Offset, numbers.Sprintf("%d", b.Size), state)
		}
	}
	return nil
}
