package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/numcheck/internal/ir"
)

func TestObserveOutcome(t *testing.T) {
	c := New()
	c.ObserveOutcome(ir.Outcome{Call: ir.CallParseInt, Pass: true})
	c.ObserveOutcome(ir.Outcome{Call: ir.CallParseInt, Pass: true})
	c.ObserveOutcome(ir.Outcome{Call: ir.CallParseFloat, Pass: false})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.cases.WithLabelValues(ir.CallParseInt, ResultPass)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cases.WithLabelValues(ir.CallParseFloat, ResultFail)))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.cases.WithLabelValues(ir.CallParseFloat, ResultPass)))
}

func TestObserveRun(t *testing.T) {
	c := New()
	c.ObserveRun(ir.Run{Suite: "parse_numbers", Pass: false})
	c.ObserveRun(ir.Run{Suite: "parse_numbers", Pass: true})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues(ResultPass)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues(ResultFail)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.lastRun.WithLabelValues("parse_numbers")))
}

func TestCollectorsArePrivate(t *testing.T) {
	a, b := New(), New()
	a.ObserveRun(ir.Run{Suite: "s", Pass: true})

	assert.Equal(t, 0.0, testutil.ToFloat64(b.runs.WithLabelValues(ResultPass)))
	assert.Equal(t, 1, testutil.CollectAndCount(a.runs, "numcheck_runs_total"))
}

func TestRegistryGathers(t *testing.T) {
	c := New()
	c.ObserveRun(ir.Run{Suite: "s", Pass: true})

	families, err := c.Registry().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "numcheck_runs_total")
	assert.Contains(t, names, "numcheck_last_run_pass")
}

func TestWriteToTextfile(t *testing.T) {
	c := New()
	c.ObserveOutcome(ir.Outcome{Call: ir.CallParseInt, Pass: true})
	c.ObserveRun(ir.Run{Suite: "hex", Pass: true})

	path := filepath.Join(t.TempDir(), "numcheck.prom")
	require.NoError(t, c.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `numcheck_cases_total{call="parseInt",result="pass"} 1`)
	assert.Contains(t, text, `numcheck_runs_total{result="pass"} 1`)
	assert.Contains(t, text, `numcheck_last_run_pass{suite="hex"} 1`)
}

func TestWriteToTextfile_BadDir(t *testing.T) {
	err := New().WriteToTextfile(filepath.Join(t.TempDir(), "missing", "m.prom"))
	require.Error(t, err)
}
