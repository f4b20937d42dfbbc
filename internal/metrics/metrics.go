// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーや通知層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordModeration(outcome string)
	RecordLikeToggle(itemType string)
	RecordEmailSent(result string)
	RecordToastPublished()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus     *prometheus.CounterVec
	moderations    *prometheus.CounterVec
	likeToggles    *prometheus.CounterVec
	emailsSent     *prometheus.CounterVec
	toastPublished prometheus.Counter
}

var _ MetricsCollector = (*Collector)(nil)

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "naedex_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		moderations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "naedex_moderation_total",
			Help: "審査操作の合計数（承認・差し戻し別）",
		}, []string{"outcome"}),
		likeToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "naedex_like_toggle_total",
			Help: "いいねトグル操作の合計数（対象タイプ別）",
		}, []string{"item_type"}),
		emailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "naedex_email_sent_total",
			Help: "通知メール送信の合計数（結果別）",
		}, []string{"result"}),
		toastPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "naedex_toast_published_total",
			Help: "配信されたトースト通知の合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.moderations,
		c.likeToggles,
		c.emailsSent,
		c.toastPublished,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordModeration は審査操作（approved / rejected）を記録する。
func (c *Collector) RecordModeration(outcome string) {
	c.moderations.WithLabelValues(outcome).Inc()
}

// RecordLikeToggle はいいねトグル操作を記録する。
func (c *Collector) RecordLikeToggle(itemType string) {
	c.likeToggles.WithLabelValues(itemType).Inc()
}

// RecordEmailSent は通知メールの送信結果（sent / skipped / failed）を記録する。
func (c *Collector) RecordEmailSent(result string) {
	c.emailsSent.WithLabelValues(result).Inc()
}

// RecordToastPublished はトースト通知の配信を記録する。
func (c *Collector) RecordToastPublished() {
	c.toastPublished.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
