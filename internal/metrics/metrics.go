// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AuthCollector は認証メトリクス収集のインターフェース。
// ハンドラー層から利用する。methodは "local" または "google"。
type AuthCollector interface {
	RecordSignup()
	RecordAuthSuccess(method string)
	RecordAuthFailure(method string)
}

// HTTPCollector はHTTPメトリクス収集のインターフェース。
// ミドルウェアから利用する。
type HTTPCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestDuration(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	signups         prometheus.Counter
	authSuccess     *prometheus.CounterVec
	authFailure     *prometheus.CounterVec
	httpStatus      *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopmall_signup_total",
			Help: "会員登録成功の合計数",
		}),
		authSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopmall_auth_success_total",
			Help: "認証成功の合計数（認証方式別）",
		}, []string{"method"}),
		authFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopmall_auth_failure_total",
			Help: "認証失敗の合計数（認証方式別）",
		}, []string{"method"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopmall_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shopmall_request_duration_seconds",
			Help:    "HTTPリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.signups,
		c.authSuccess,
		c.authFailure,
		c.httpStatus,
		c.requestDuration,
	)

	return c
}

// RecordSignup は会員登録成功を記録する。
func (c *Collector) RecordSignup() {
	c.signups.Inc()
}

// RecordAuthSuccess は認証成功を記録する。
func (c *Collector) RecordAuthSuccess(method string) {
	c.authSuccess.WithLabelValues(method).Inc()
}

// RecordAuthFailure は認証失敗を記録する。
func (c *Collector) RecordAuthFailure(method string) {
	c.authFailure.WithLabelValues(method).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration はリクエスト処理時間を記録する。
func (c *Collector) RecordRequestDuration(duration time.Duration) {
	c.requestDuration.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface checks
var _ AuthCollector = (*Collector)(nil)
var _ HTTPCollector = (*Collector)(nil)
