// Package metrics 提供基于Prometheus的指标采集
//
// # 指标类型
//
//   - Counter：只增不减（请求总数、图书变更次数）
//   - Gauge：可增可减（正在处理的请求数）
//   - Histogram：分布统计（请求耗时，自动计算P50/P90/P99）
//
// # 使用方式
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	start := time.Now()
//	err := createBook(ctx)
//	metrics.ObserveCatalogMutation("create", err, time.Since(start))
//
// 辅助函数对未初始化的指标是安全的（直接忽略），单元测试不必关心初始化顺序。
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library"

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/api/v1/books/isbn/:isbn）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 图书目录业务指标

	// CatalogMutationsTotal 图书变更次数
	// 标签：operation（create/update/delete）、result（success/failure）
	CatalogMutationsTotal *prometheus.CounterVec

	// CatalogMutationDuration 图书变更耗时
	CatalogMutationDuration *prometheus.HistogramVec

	// CoverOperationsTotal 封面文件操作次数
	// 标签：operation（save/delete/rename/load）、result（success/failure）
	CoverOperationsTotal *prometheus.CounterVec

	// LocationEntriesSkippedTotal 位置树构建时被跳过的位置编码数
	LocationEntriesSkippedTotal prometheus.Counter

	// BookCacheRequestsTotal 图书详情缓存命中情况
	// 标签：result（hit/miss/error）
	BookCacheRequestsTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态（0=CLOSED 1=OPEN 2=HALF_OPEN）
	// 标签：name
	CircuitBreakerState *prometheus.GaugeVec

	// CatalogEventsPublishedTotal 图书变更事件发布次数
	// 标签：routing_key、result（success/failure）
	CatalogEventsPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有指标（注册到默认Registry，重复调用无副作用）
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP请求耗时（秒）",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_progress",
				Help:      "正在处理的HTTP请求数",
			},
		)

		CatalogMutationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_mutations_total",
				Help:      "图书新增/修改/删除次数",
			},
			[]string{"operation", "result"},
		)

		// 变更涉及数据库事务和封面文件写入，桶比HTTP略宽
		CatalogMutationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "catalog_mutation_duration_seconds",
				Help:      "图书变更耗时（秒）",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"operation"},
		)

		CoverOperationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cover_operations_total",
				Help:      "封面文件操作次数",
			},
			[]string{"operation", "result"},
		)

		LocationEntriesSkippedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "location_entries_skipped_total",
				Help:      "构建位置树时跳过的无效位置编码数",
			},
		)

		BookCacheRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "book_cache_requests_total",
				Help:      "图书详情缓存查询次数",
			},
			[]string{"result"},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "熔断器状态（0=CLOSED 1=OPEN 2=HALF_OPEN）",
			},
			[]string{"name"},
		)

		CatalogEventsPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_events_published_total",
				Help:      "图书变更事件发布次数",
			},
			[]string{"routing_key", "result"},
		)
	})
}

// =========================================
// 辅助函数
// =========================================

// Result 将error转换为result标签值
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	if counter == nil {
		return
	}
	counter.Inc()
}

// IncCounterVec 递增带标签的Counter
func IncCounterVec(counterVec *prometheus.CounterVec, labels ...string) {
	if counterVec == nil {
		return
	}
	counterVec.WithLabelValues(labels...).Inc()
}

// ObserveHistogramVec 记录带标签的Histogram观测值
func ObserveHistogramVec(histogramVec *prometheus.HistogramVec, value float64, labels ...string) {
	if histogramVec == nil {
		return
	}
	histogramVec.WithLabelValues(labels...).Observe(value)
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Dec()
}

// ObserveCatalogMutation 记录一次图书变更（次数 + 耗时）
func ObserveCatalogMutation(operation string, err error, elapsed time.Duration) {
	IncCounterVec(CatalogMutationsTotal, operation, Result(err))
	ObserveHistogramVec(CatalogMutationDuration, elapsed.Seconds(), operation)
}

// ObserveCoverOperation 记录一次封面文件操作
func ObserveCoverOperation(operation string, err error) {
	IncCounterVec(CoverOperationsTotal, operation, Result(err))
}

// SetBreakerState 记录熔断器当前状态
func SetBreakerState(name string, state int) {
	if CircuitBreakerState == nil {
		return
	}
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
