package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sheetdesk"

// Recorder 导入与命令调用指标。nil Recorder 的所有方法都是空操作。
type Recorder struct {
	registry *prometheus.Registry

	imports        *prometheus.CounterVec
	importRows     prometheus.Counter
	importDuration prometheus.Histogram
	commands       *prometheus.CounterVec
}

// NewRecorder 创建指标记录器，使用独立的注册表
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Workbook imports by result status.",
		}, []string{"status"}),
		importRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Data rows produced by successful imports.",
		}),
		importDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_duration_seconds",
			Help:      "Wall time of a single workbook import.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_invocations_total",
			Help:      "Command invocations by name and result status.",
		}, []string{"command", "status"}),
	}

	r.registry.MustRegister(
		r.imports,
		r.importRows,
		r.importDuration,
		r.commands,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveImport 记录一次导入
func (r *Recorder) ObserveImport(err error, rows int, d time.Duration) {
	if r == nil {
		return
	}
	r.imports.WithLabelValues(status(err)).Inc()
	r.importDuration.Observe(d.Seconds())
	if err == nil {
		r.importRows.Add(float64(rows))
	}
}

// ObserveCommand 记录一次命令调用
func (r *Recorder) ObserveCommand(name string, err error) {
	if r == nil {
		return
	}
	r.commands.WithLabelValues(name, status(err)).Inc()
}

// Handler 指标导出的 HTTP 处理器
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry 底层注册表（用于测试）
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
