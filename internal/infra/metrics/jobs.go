package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(jobsCreatedTotal, jobCreateFailuresTotal, jobPollsTotal) }

var (
	jobsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_created_total",
			Help: "Jobs enqueued for the external worker, by action.",
		},
		[]string{"action"},
	)

	jobCreateFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_create_failures_total",
			Help: "Rejected or failed job creations, by bounded reason.",
		},
		[]string{"reason"}, // not_configured|validation|datastore
	)

	jobPollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_polls_total",
			Help: "Job status reads made by pollers, by result.",
		},
		[]string{"result"}, // ok|unknown|terminal
	)
)

func IncJobCreated(action string) {
	jobsCreatedTotal.WithLabelValues(norm(action)).Inc()
}

func IncJobCreateFailure(reason string) {
	jobCreateFailuresTotal.WithLabelValues(norm(reason)).Inc()
}

func IncJobPoll(result string) {
	jobPollsTotal.WithLabelValues(norm(result)).Inc()
}
