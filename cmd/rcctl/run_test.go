package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/joshuapare/refkit/graph"
)

const cascadeScript = `
alloc parent 8
acquire parent
alloc child 4 dep=parent
write parent hi
downgrade parent wp
dump
downgrade parent wp2
upgrade wp again
stats
`

func TestRunCommand(t *testing.T) {
	tests := []struct {
		name           string
		script         string
		json           bool
		metrics        bool
		arena          string
		strict         bool
		wantErr        bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name:   "cascade text output",
			script: cascadeScript,
			wantContain: []string{
				"alloc     child id=1 count=2",
				"downgrade parent valid=true id=0",
				`id=0 count=1 len=8 deps=[] "hi......"`,
				"downgrade parent valid=false id=-",
				"upgrade   wp: error: graph: entry no longer live: 0",
				"live=0 capacity=8 next_id=2",
			},
		},
		{
			name:        "metrics output",
			script:      cascadeScript,
			metrics:     true,
			wantContain: []string{"refkit_graph_deletions_total 2", `refkit_graph_downgrades_total{outcome="deleted"} 1`},
		},
		{
			name:        "mmap arena",
			script:      "alloc a 10000\nwrite a mapped\ndump\n",
			arena:       "mmap",
			wantContain: []string{`len=10000 deps=[] "mapped`},
		},
		{
			name:        "locked arena",
			script:      "alloc key 16\nwrite key k3y\ndump\n",
			arena:       "locked",
			wantContain: []string{`len=16 deps=[] "k3y.............`},
		},
		{
			name:    "strict stops on error",
			script:  "acquire nobody\nalloc a 1\n",
			strict:  true,
			wantErr: true,
			wantContain: []string{
				`acquire   nobody: error: unknown strong reference "nobody"`,
			},
			wantNotContain: []string{"alloc     a id=0"},
		},
		{
			name:        "errors are recorded without strict",
			script:      "acquire nobody\nalloc a 1\n",
			wantContain: []string{"alloc     a id=0 count=1"},
		},
		{
			name:    "bad arena",
			script:  "stats\n",
			arena:   "slab",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			jsonOut = tt.json
			runMetrics = tt.metrics
			runArena = tt.arena
			runStrict = tt.strict
			path := writeScript(t, tt.script)

			output, _, err := runCapture(t, path)
			if (err != nil) != tt.wantErr {
				t.Errorf("runRun() error = %v, wantErr %v\nOutput: %s", err, tt.wantErr, output)
				return
			}
			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestRunJSONReport(t *testing.T) {
	resetFlags()
	jsonOut = true
	path := writeScript(t, cascadeScript)

	output, _, err := runCapture(t, path)
	if err != nil {
		t.Fatalf("runRun: %v", err)
	}
	assertJSON(t, output)

	var report Report
	if err := json.Unmarshal([]byte(output), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, err := uuid.Parse(report.RunID); err != nil {
		t.Errorf("run_id %q is not a uuid: %v", report.RunID, err)
	}
	if report.Arena != "heap" {
		t.Errorf("arena = %q, want heap", report.Arena)
	}
	if len(report.Results) != 9 {
		t.Fatalf("got %d results, want 9", len(report.Results))
	}
	child := report.Results[2]
	if child.ID == nil || *child.ID != graph.EntryID(1) || child.Count != 2 {
		t.Errorf("child result = %+v", child)
	}
	dump := report.Results[5]
	if len(dump.Dump) != 2 || dump.Dump[1].Deps[0] != 0 {
		t.Errorf("dump result = %+v", dump)
	}
	if report.Final.Deletions != 2 || report.Final.Live != 0 {
		t.Errorf("final stats = %+v", report.Final)
	}
}

func TestRunMissingScript(t *testing.T) {
	resetFlags()
	_, _, err := runCapture(t, filepath.Join(t.TempDir(), "missing.rc"))
	if err == nil {
		t.Fatalf("expected error for missing script")
	}
}

func TestRunVerboseLogsToStderr(t *testing.T) {
	resetFlags()
	verbose = true
	path := writeScript(t, "alloc a 1\ndowngrade a w\n")

	output, logs, err := runCapture(t, path)
	if err != nil {
		t.Fatalf("runRun: %v", err)
	}
	assertContains(t, output, []string{"Parsed 2 operation(s)"})
	assertContains(t, output, []string{"on the heap arena"})
	assertContains(t, logs, []string{"graph: allocated", "graph: deleted", "run="})
}

func TestRunWithConfigFile(t *testing.T) {
	resetFlags()
	cfg := filepath.Join(t.TempDir(), "rcctl.yaml")
	if err := os.WriteFile(cfg, []byte("graph:\n  initial_capacity: 1\n  growth_ratio: 4\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	configPath = cfg
	path := writeScript(t, "alloc a 1\nalloc b 1\nstats\n")

	output, _, err := runCapture(t, path)
	if err != nil {
		t.Fatalf("runRun: %v", err)
	}
	assertContains(t, output, []string{"live=2 capacity=4 next_id=2"})
}
