package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admission_checks_total",
		Help: "The total number of admission checks by outcome",
	}, []string{"outcome"})

	checkErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "admission_check_errors_total",
		Help: "The total number of admission checks that failed before producing an outcome",
	})
)
