package observability

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/inkwell/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveRun(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := NewMetrics(reg)

	m.ObserveRun(3, 10*time.Millisecond, nil)
	m.ObserveRun(2, time.Millisecond, nil)
	m.ObserveRun(0, time.Millisecond, domain.NewError(domain.KindEval, "chapter", "a.md", errors.New("boom")))
	m.ObserveRun(0, time.Millisecond, errors.New("plain"))

	assert.Equal(t, 5.0, testutil.ToFloat64(m.ChaptersRendered))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunFailures.WithLabelValues("eval")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunFailures.WithLabelValues("unknown")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RunDuration))
}

func TestMetrics_ObserveReload(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveReload(nil)
	m.ObserveReload(nil)
	m.ObserveReload(errors.New("bad toml"))

	expected := `
# HELP inkwell_context_reloads_total Context reload attempts by result
# TYPE inkwell_context_reloads_total counter
inkwell_context_reloads_total{result="error"} 1
inkwell_context_reloads_total{result="ok"} 2
`
	require.NoError(t, testutil.CollectAndCompare(m.ContextReloads, strings.NewReader(expected)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRun(1, time.Second, nil)
		m.ObserveReload(errors.New("x"))
		m.SetTemplates(4)
	})
}

func TestMetrics_WriteToTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.SetTemplates(4)
	m.ObserveRun(2, time.Millisecond, nil)

	path := filepath.Join(t.TempDir(), "inkwell.prom")
	require.NoError(t, prometheus.WriteToTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "inkwell_templates_loaded 4")
	assert.Contains(t, string(data), "inkwell_chapters_rendered_total 2")
}
