package service

import (
	"time"

	"github.com/go-kit/kit/metrics"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
)

// Названия полей
var (
	fieldMethod = "method"
	fieldKind   = "kind"
	fieldStatus = "status"
)

// Метрики
var (
	timingServiceMetrics metrics.Histogram = kitprometheus.NewSummaryFrom(prometheus.SummaryOpts{
		Name:       "scorm_request_service_timing",
		Help:       "timing a request in service",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001, 0.999: 0.0001},
	}, []string{fieldMethod})

	errorsMetrics metrics.Counter = kitprometheus.NewCounterFrom(prometheus.CounterOpts{
		Name: "scorm_service_errors",
		Help: "error in service",
	}, []string{fieldMethod})

	issuesMetrics metrics.Counter = kitprometheus.NewCounterFrom(prometheus.CounterOpts{
		Name: "scorm_manifest_issues",
		Help: "issues found in parsed manifests",
	}, []string{fieldKind})

	lessonStatusMetrics metrics.Counter = kitprometheus.NewCounterFrom(prometheus.CounterOpts{
		Name: "scorm_lesson_status",
		Help: "lesson status set by learning objects",
	}, []string{fieldStatus})

	activeCoursesMetrics metrics.Gauge = kitprometheus.NewGaugeFrom(prometheus.GaugeOpts{
		Name: "scorm_cached_courses",
		Help: "parsed manifests in cache",
	}, []string{})
)

func (*service) monitoringTimingService(method string, start time.Time) {
	timingServiceMetrics.With(fieldMethod, method).Observe(time.Since(start).Seconds())
}

func (*service) monitoringError(method string, err error) {
	if err == nil {
		return
	}

	errorsMetrics.With(fieldMethod, method).Add(1)
}

func (*service) monitoringIssue(kind string) {
	issuesMetrics.With(fieldKind, kind).Add(1)
}

func (*service) monitoringLessonStatus(status string) {
	lessonStatusMetrics.With(fieldStatus, status).Add(1)
}

func (s *service) monitoringCourses() {
	activeCoursesMetrics.Set(float64(s.cache.Count()))
}
