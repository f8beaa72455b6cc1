package repository

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "inc",
	Name:      "sql_query_duration_seconds",
	Help:      "Duration of sql queries in seconds",
	Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
}, []string{"query"})
