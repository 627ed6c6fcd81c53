package middleware

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/lapa-nations/internal/metrics"
)

// Metrics считает запросы и их длительность (lapa_http_*).
func Metrics() Middleware {
	return func(next http.Handler) http.Handler {
		return promhttp.InstrumentHandlerCounter(metrics.HTTPRequests,
			promhttp.InstrumentHandlerDuration(metrics.HTTPDuration, next),
		)
	}
}
