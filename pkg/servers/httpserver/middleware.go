package httpserver

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/mileusna/useragent"
	"go.uber.org/zap"

	"git.edtech.vm.prod-6.cloud.el/fabric/scorm/pkg/logger"
)

// statusWriter запоминает код ответа для логов и метрик
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (h *httpserver) MiddleLogger(next http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r)
		timeInterval := time.Since(start)

		h.monitoringTiming(start, name, r.Method)
		h.monitoringStatusCode(name, r.Method, sw.status)

		ua := useragent.Parse(r.UserAgent())
		mes := fmt.Sprintf("Query: %s %s %s %s",
			r.Method,
			r.RequestURI,
			name,
			timeInterval)
		logger.Info(r.Context(), mes,
			zap.Float64("timing", timeInterval.Seconds()),
			zap.Int("status", sw.status),
			zap.String("browser", ua.Name+" "+ua.Version),
			zap.String("os", ua.OS),
			zap.Bool("bot", ua.Bot),
			zap.Bool("mobile", ua.Mobile),
		)
	})
}

func (h *httpserver) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func(r *http.Request) {
			rec := recover()
			if rec != nil {
				b := string(debug.Stack())
				logger.Error(r.Context(), fmt.Sprintf("Recover panic from path: %s: %v", r.URL.String(), rec), zap.String("debug stack", b))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}(r)
		next.ServeHTTP(w, r)
	})
}
