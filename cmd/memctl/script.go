package main

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

const commentPrefix = "#"

// op is one parsed script line.
type op struct {
	Line  int
	Verb  string
	Name  string
	Size  int // byte count for alloc and realloc, prefix length for expect; -1 when omitted
	Align int
	Value byte
}

// verbs maps each script verb to the argument count range it accepts,
// not counting the verb.
var verbs = map[string][2]int{
	"alloc":   {1, 2},
	"aligned": {3, 3},
	"free":    {1, 1},
	"realloc": {2, 2},
	"fill":    {2, 2},
	"expect":  {2, 3},
	"save":    {0, 0},
	"restore": {0, 0},
	"reset":   {0, 0},
	"check":   {0, 0},
}

// loadScript reads the script at path; "-" is stdin and "" is an empty script.
func loadScript(path string) ([]op, error) {
	switch path {
	case "":
		return nil, nil
	case "-":
		return parseScript(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	return parseScript(f)
}

// parseScript converts script text into operations.
func parseScript(r io.Reader) ([]op, error) {
	scanner := bufio.NewScanner(r)
	var ops []op
	for n := 1; scanner.Scan(); n++ {
		trim := strings.TrimSpace(scanner.Text())
		if i := strings.Index(trim, commentPrefix); i >= 0 {
			trim = strings.TrimSpace(trim[:i])
		}
		if trim == "" {
			continue
		}
		o, err := parseLine(n, strings.Fields(trim))
		if err != nil {
			return nil, err
		}
		ops = append(ops, o)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ops, nil
}

func parseLine(n int, fields []string) (op, error) {
	o := op{Line: n, Verb: strings.ToLower(fields[0]), Size: -1}
	args := fields[1:]
	span, ok := verbs[o.Verb]
	if !ok {
		return o, fmt.Errorf("line %d: unknown operation %q", n, fields[0])
	}
	if len(args) < span[0] || len(args) > span[1] {
		return o, fmt.Errorf("line %d: %s takes %d-%d arguments, got %d", n, o.Verb, span[0], span[1], len(args))
	}
	if len(args) == 0 {
		return o, nil
	}
	o.Name = args[0]

	var err error
	switch o.Verb {
	case "alloc", "realloc":
		if len(args) > 1 {
			o.Size, err = parseSize(args[1])
		}
	case "aligned":
		if o.Size, err = parseSize(args[1]); err == nil {
			o.Align, err = parseSize(args[2])
		}
	case "fill", "expect":
		var v uint64
		v, err = strconv.ParseUint(args[1], 0, 8)
		o.Value = byte(v)
		if err == nil && len(args) > 2 {
			o.Size, err = parseSize(args[2])
		}
	}
	if err != nil {
		return o, fmt.Errorf("line %d: %w", n, err)
	}
	return o, nil
}

// parseSize accepts plain byte counts and humanized sizes such as "4KiB".
func parseSize(s string) (int, error) {
	v, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if v > math.MaxInt {
		return 0, fmt.Errorf("size %q too large", s)
	}
	return int(v), nil
}
