// metrics — Prometheus-метрики lapa-service (namespace "lapa").
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CountriesRegistered — успешные регистрации стран.
	CountriesRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lapa",
		Name:      "countries_registered_total",
		Help:      "Total number of registered countries",
	})

	// NewsPublished — опубликованные новости по типу.
	NewsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lapa",
		Name:      "news_published_total",
		Help:      "Total number of published news posts",
	}, []string{"news_type"})

	// NewsLikes — лайки.
	NewsLikes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lapa",
		Name:      "news_likes_total",
		Help:      "Total number of likes",
	})

	// CommentsCreated — комментарии: scope=news|global.
	CommentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lapa",
		Name:      "comments_created_total",
		Help:      "Total number of created comments",
	}, []string{"scope"})

	// Unfurls — разворачивания ссылок: outcome=helpful|not_helpful|failed.
	Unfurls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lapa",
		Name:      "unfurl_total",
		Help:      "Total number of link unfurls by outcome",
	}, []string{"outcome"})

	// UnfurlDuration — длительность разворачивания (fetch + decide).
	UnfurlDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lapa",
		Name:      "unfurl_duration_seconds",
		Help:      "Duration of link unfurls in seconds",
		Buckets:   prometheus.DefBuckets,
	})

	// FeedSubscribers — активные подписчики по топику.
	FeedSubscribers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "lapa",
		Name:      "feed_subscribers",
		Help:      "Number of active feed subscribers per topic",
	}, []string{"topic"})

	// FeedDeliveries — разосланные снимки: status=ok|load_failed.
	FeedDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lapa",
		Name:      "feed_snapshots_total",
		Help:      "Total number of snapshot refreshes per topic",
	}, []string{"topic", "status"})

	// HTTPRequests — запросы REST API по методу и коду ответа.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lapa",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP API requests",
	}, []string{"method", "code"})

	// HTTPDuration — длительность запросов REST API (без SSE-стримов).
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lapa",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP API requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "code"})
)

// RecordUnfurl фиксирует исход и длительность разворачивания.
func RecordUnfurl(outcome string, started time.Time) {
	Unfurls.WithLabelValues(outcome).Inc()
	UnfurlDuration.Observe(time.Since(started).Seconds())
}
