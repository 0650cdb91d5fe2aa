// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Campaign metrics
	CampaignRunsTotal *prometheus.CounterVec
	CampaignDuration  prometheus.Histogram
	RunInProgress     prometheus.Gauge

	// Fabrication metrics
	RespondentsFabricated prometheus.Counter
	LinesFabricated       *prometheus.CounterVec

	// Engine metrics
	FindingsEmitted *prometheus.CounterVec
	PairsCounted    prometheus.Counter

	// Output metrics
	ReportsGenerated prometheus.Counter
	FilesWritten     *prometheus.CounterVec

	// Export sink metrics
	ExportDuration *prometheus.HistogramVec
	ExportErrors   *prometheus.CounterVec

	// Dashboard metrics
	HTTPRequests     *prometheus.CounterVec
	WSClients        prometheus.Gauge
	WSMessagesSent   prometheus.Counter
	WSClientsDropped prometheus.Counter

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered with reg.
// A nil reg uses the default Prometheus registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "retail_promo_lab"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		CampaignRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "campaign",
			Name:      "runs_total",
			Help:      "Total number of campaign runs by status",
		}, []string{"status"}),
		CampaignDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "campaign",
			Name:      "duration_seconds",
			Help:      "Campaign run duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RunInProgress: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "campaign",
			Name:      "run_in_progress",
			Help:      "1 while a campaign run is executing",
		}),

		RespondentsFabricated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fabricator",
			Name:      "respondents_total",
			Help:      "Total number of respondents fabricated",
		}),
		LinesFabricated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fabricator",
			Name:      "basket_lines_total",
			Help:      "Total number of basket lines fabricated by scenario",
		}, []string{"scenario"}),

		FindingsEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insight",
			Name:      "findings_total",
			Help:      "Total number of insight findings by kind",
		}, []string{"kind"}),
		PairsCounted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "association",
			Name:      "top_pairs_total",
			Help:      "Total number of top item pairs reported",
		}),

		ReportsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),
		FilesWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "files_written_total",
			Help:      "Total number of output files written by name",
		}, []string{"file"}),

		ExportDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "duration_seconds",
			Help:      "Export sink write duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"sink"}),
		ExportErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "errors_total",
			Help:      "Total number of export sink errors",
		}, []string{"sink"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "http_requests_total",
			Help:      "Total number of dashboard HTTP requests by route and status code",
		}, []string{"route", "code"}),
		WSClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "ws_clients",
			Help:      "Number of connected WebSocket subscribers",
		}),
		WSMessagesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "ws_messages_sent_total",
			Help:      "Total number of WebSocket messages queued to subscribers",
		}),
		WSClientsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "ws_clients_dropped_total",
			Help:      "Total number of slow WebSocket subscribers dropped",
		}),

		LastSuccessfulRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful campaign run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// RecordCampaignRun records a finished campaign run.
func RecordCampaignRun(status string, durationSeconds float64) {
	DefaultMetrics.CampaignRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.CampaignDuration.Observe(durationSeconds)
}

// SetRunInProgress flips the in-progress gauge.
func SetRunInProgress(running bool) {
	if running {
		DefaultMetrics.RunInProgress.Set(1)
		return
	}
	DefaultMetrics.RunInProgress.Set(0)
}

// RecordFabricated records respondents and lines fabricated for one scenario.
func RecordFabricated(scenario string, respondents, lines int) {
	DefaultMetrics.RespondentsFabricated.Add(float64(respondents))
	DefaultMetrics.LinesFabricated.WithLabelValues(scenario).Add(float64(lines))
}

// RecordFinding increments the findings counter for kind.
func RecordFinding(kind string) {
	DefaultMetrics.FindingsEmitted.WithLabelValues(kind).Inc()
}

// RecordPairs adds n reported item pairs.
func RecordPairs(n int) {
	DefaultMetrics.PairsCounted.Add(float64(n))
}

// RecordReportGenerated increments the reports counter.
func RecordReportGenerated() {
	DefaultMetrics.ReportsGenerated.Inc()
}

// RecordFileWritten increments the output file counter.
func RecordFileWritten(name string) {
	DefaultMetrics.FilesWritten.WithLabelValues(name).Inc()
}

// RecordExport records export sink metrics.
func RecordExport(sink string, seconds float64, err error) {
	DefaultMetrics.ExportDuration.WithLabelValues(sink).Observe(seconds)
	if err != nil {
		DefaultMetrics.ExportErrors.WithLabelValues(sink).Inc()
	}
}

// RecordHTTPRequest increments the dashboard request counter.
func RecordHTTPRequest(route, code string) {
	DefaultMetrics.HTTPRequests.WithLabelValues(route, code).Inc()
}

// SetLastSuccessfulRun sets the health timestamp.
func SetLastSuccessfulRun(unixSeconds int64) {
	DefaultMetrics.LastSuccessfulRun.Set(float64(unixSeconds))
}
