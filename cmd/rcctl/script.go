package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// step is one parsed script line.
type step struct {
	Line int
	Verb string
	Args []string
	Opts map[string]string // key=value arguments
	Text string            // remainder of the line for write
}

// arity is the number of positional arguments each verb takes.
var arity = map[string]int{
	"alloc":     2, // alloc <name> <size> [dep=<name>]
	"acquire":   1, // acquire <name>
	"write":     1, // write <name> <text...>
	"downgrade": 2, // downgrade <name> <weak>
	"upgrade":   2, // upgrade <weak> <name>
	"init":      0,
	"cleanup":   0,
	"stats":     0,
	"dump":      0,
}

// parseScript reads one operation per line. Blank lines and text after '#'
// are ignored.
func parseScript(r io.Reader) ([]step, error) {
	var steps []step
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		st, err := parseStep(lineNo, fields)
		if err != nil {
			return nil, err
		}
		steps = append(steps, st)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return steps, nil
}

func parseStep(lineNo int, fields []string) (step, error) {
	verb := strings.ToLower(fields[0])
	want, ok := arity[verb]
	if !ok {
		return step{}, fmt.Errorf("line %d: unknown operation %q", lineNo, fields[0])
	}
	st := step{Line: lineNo, Verb: verb, Opts: map[string]string{}}

	rest := fields[1:]
	if verb == "write" {
		if len(rest) < 1 {
			return step{}, fmt.Errorf("line %d: write expects <name> <text>", lineNo)
		}
		st.Args = rest[:1]
		st.Text = strings.Join(rest[1:], " ")
		return st, nil
	}

	for _, f := range rest {
		if k, v, found := strings.Cut(f, "="); found {
			st.Opts[k] = v
			continue
		}
		st.Args = append(st.Args, f)
	}
	if len(st.Args) != want {
		return step{}, fmt.Errorf("line %d: %s expects %d argument(s), got %d", lineNo, verb, want, len(st.Args))
	}
	for k := range st.Opts {
		if verb != "alloc" || k != "dep" {
			return step{}, fmt.Errorf("line %d: unknown option %q for %s", lineNo, k, verb)
		}
	}
	if verb == "alloc" {
		if _, err := strconv.Atoi(st.Args[1]); err != nil {
			return step{}, fmt.Errorf("line %d: bad size %q", lineNo, st.Args[1])
		}
	}
	return st, nil
}
