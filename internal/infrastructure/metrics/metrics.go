package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	MessagesPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_messages_published_total",
		Help: "Messages acknowledged by the broker, per topic.",
	}, []string{"topic"})

	PublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_publish_failures_total",
		Help: "Broker delivery failures, per topic.",
	}, []string{"topic"})

	EligibilityChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_eligibility_checks_total",
		Help: "Eligibility check outcomes (eligible, not_eligible, not_found).",
	}, []string{"outcome"})

	FailureRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_failure_records_total",
		Help: "Failure records appended to the failure store.",
	})
)

// StartServer serves /metrics on its own port, detached from the API
// listener.
func StartServer(port int) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", port)
		log.Info().Str("addr", addr).Msg("Metrics server started")
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error().Err(err).Msg("Metrics server failed")
		}
	}()
}
