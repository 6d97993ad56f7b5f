package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/joshuapare/refkit/graph"
	"github.com/joshuapare/refkit/graph/metrics"
	"github.com/joshuapare/refkit/internal/preview"
)

var (
	runStrict   bool
	runMetrics  bool
	runArena    string
	runPreviewN int
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().BoolVar(&runStrict, "strict", false, "Stop at the first failing operation")
	cmd.Flags().BoolVar(&runMetrics, "metrics", false, "Print Prometheus metrics after the run")
	cmd.Flags().StringVar(&runArena, "arena", "", "Override graph.arena (heap, mmap or locked)")
	cmd.Flags().IntVar(&runPreviewN, "preview", preview.DefaultLimit, "Bytes shown per entry in dump")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Run an operation script against a fresh graph",
		Long: `The run command executes a script of graph operations, one per line:

  alloc <name> <size> [dep=<name>]   allocate, optionally depending on <name>
  acquire <name>                     re-acquire <name> by its bytes
  write <name> <text>                copy text into <name>'s block
  downgrade <name> <weak>            downgrade <name>, store the weak ref as <weak>
  upgrade <weak> <name>              upgrade <weak>, store the strong ref as <name>
  init | cleanup | stats | dump

Use "-" to read the script from stdin.

Example:
  rcctl run lifetimes.rc
  rcctl run lifetimes.rc --json
  rcctl run lifetimes.rc --arena mmap --metrics
  rcctl run secrets.rc --arena locked`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	return cmd
}

// Result records the outcome of one script step.
type Result struct {
	Line  int             `json:"line"`
	Op    string          `json:"op"`
	Name  string          `json:"name,omitempty"`
	ID    *graph.EntryID  `json:"id,omitempty"`
	Count int             `json:"count,omitempty"`
	Valid *bool           `json:"valid,omitempty"`
	Stats *graph.Stats    `json:"stats,omitempty"`
	Dump  []EntrySnapshot `json:"dump,omitempty"`
	Error string          `json:"error,omitempty"`
}

// EntrySnapshot is one live entry as shown by dump.
type EntrySnapshot struct {
	ID      graph.EntryID   `json:"id"`
	Count   int             `json:"count"`
	Len     int             `json:"len"`
	Deps    []graph.EntryID `json:"deps,omitempty"`
	Preview string          `json:"preview"`
}

// Report is the JSON document printed with --json.
type Report struct {
	RunID   string      `json:"run_id"`
	Arena   string      `json:"arena"`
	Results []Result    `json:"results"`
	Final   graph.Stats `json:"final"`
}

func runRun(args []string, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if runArena != "" {
		cfg.Graph.Arena = runArena
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	var in io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		in = f
	}
	steps, err := parseScript(in)
	if err != nil {
		return err
	}
	printVerbose(stdout, "Parsed %d operation(s) from %s\n", len(steps), args[0])

	runID := uuid.NewString()
	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return err
	}
	logger = logger.With("run", runID)
	opts, err := cfg.options()
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	opts.Logger = logger
	opts.Observer = metrics.New(reg)

	g, err := graph.New(opts)
	if err != nil {
		return err
	}
	defer g.Cleanup()

	sess := newSession(g)
	report := Report{RunID: runID, Arena: opts.Arena.Name()}
	printVerbose(stdout, "Run %s on the %s arena\n", runID, report.Arena)
	var failed int
	for _, st := range steps {
		res := sess.exec(st)
		report.Results = append(report.Results, res)
		if res.Error != "" {
			failed++
		}
		if !jsonOut {
			printResult(stdout, res)
		}
		if res.Error != "" && runStrict {
			break
		}
	}
	report.Final = g.Stats()

	if jsonOut {
		if err := printJSON(stdout, report); err != nil {
			return err
		}
	} else {
		printInfo(stdout, "live=%d capacity=%d next_id=%d live_bytes=%d\n",
			report.Final.Live, report.Final.Capacity, report.Final.NextID, report.Final.LiveBytes)
	}

	if runMetrics {
		if err := writeMetrics(stdout, reg); err != nil {
			return err
		}
	}
	if failed > 0 && runStrict {
		return fmt.Errorf("%d operation(s) failed", failed)
	}
	return nil
}

func printResult(w io.Writer, r Result) {
	prefix := fmt.Sprintf("%4d %-9s", r.Line, r.Op)
	switch {
	case r.Error != "":
		printInfo(w, "%s %s: error: %s\n", prefix, r.Name, r.Error)
	case r.Stats != nil:
		printInfo(w, "%s live=%d capacity=%d next_id=%d\n", prefix, r.Stats.Live, r.Stats.Capacity, r.Stats.NextID)
	case r.Dump != nil || r.Op == "dump":
		printInfo(w, "%s %d live\n", prefix, len(r.Dump))
		for _, e := range r.Dump {
			printInfo(w, "       id=%d count=%d len=%d deps=%v %q\n", e.ID, e.Count, e.Len, e.Deps, e.Preview)
		}
	case r.Valid != nil:
		id := "-"
		if r.ID != nil {
			id = strconv.FormatUint(uint64(*r.ID), 10)
		}
		printInfo(w, "%s %s valid=%t id=%s\n", prefix, r.Name, *r.Valid, id)
	case r.ID != nil:
		printInfo(w, "%s %s id=%d count=%d\n", prefix, r.Name, *r.ID, r.Count)
	default:
		printInfo(w, "%s ok\n", prefix)
	}
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
