package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveImport(t *testing.T) {
	r := NewRecorder()

	r.ObserveImport(nil, 3, 20*time.Millisecond)
	r.ObserveImport(nil, 2, 10*time.Millisecond)
	r.ObserveImport(errors.New("boom"), 0, time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(r.imports.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.imports.WithLabelValues("error")))
	assert.Equal(t, float64(5), testutil.ToFloat64(r.importRows))
}

func TestRecorder_ObserveCommand(t *testing.T) {
	r := NewRecorder()

	r.ObserveCommand("execute_query", nil)
	r.ObserveCommand("import_excel_data", errors.New("bad file"))

	assert.Equal(t, float64(1), testutil.ToFloat64(r.commands.WithLabelValues("execute_query", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.commands.WithLabelValues("import_excel_data", "error")))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveImport(nil, 1, time.Second)
		r.ObserveCommand("x", nil)
	})
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.ObserveImport(nil, 1, time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "sheetdesk_imports_total"))
}
