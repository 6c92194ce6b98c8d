package middleware

import (
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"

	"github.com/Alturino/storefront/internal/metrics"
)

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		m := httpsnoop.CaptureMetrics(next, w, r)

		metrics.HttpRequestsTotal.
			WithLabelValues(route, r.Method, strconv.Itoa(m.Code)).
			Inc()
		metrics.HttpRequestDuration.
			WithLabelValues(route, r.Method).
			Observe(m.Duration.Seconds())
	})
}
