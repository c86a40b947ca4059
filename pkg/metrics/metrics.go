// Package metrics holds the prometheus collectors exported on the private listener.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	LinksCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "locket",
		Name:      "links_created_total",
		Help:      "Links created by the intake workflow.",
	})
	BookmarksCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "locket",
		Name:      "bookmarks_created_total",
		Help:      "Bookmarks created, including restored ones.",
	})
	StatusesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "locket",
		Name:      "statuses_created_total",
		Help:      "Feed entries posted.",
	})
	TitleFetch = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "locket",
		Name:      "title_fetch_total",
		Help:      "Title fetch attempts by result.",
	}, []string{"result"})
	TitleFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "locket",
		Name:      "title_fetch_duration_seconds",
		Help:      "Wall time of title fetch requests.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	Links = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "locket",
		Name:      "links",
		Help:      "Links currently stored.",
	})
	Bookmarks = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "locket",
		Name:      "bookmarks",
		Help:      "Bookmarks currently stored.",
	})
	Statuses = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "locket",
		Name:      "statuses",
		Help:      "Feed entries currently stored.",
	})

	TitleJobs = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "locket",
		Name:      "title_jobs",
		Help:      "Title fetch jobs on the worker pool by state.",
	}, []string{"state"})
	WriteLanes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "locket",
		Name:      "write_lanes",
		Help:      "Users with a live write lane.",
	})
)

// Title fetch results
const (
	FetchOK        = "ok"
	FetchNoTitle   = "no_title"
	FetchHTTPError = "http_status"
	FetchError     = "error"
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once;
// the server is rebuilt in-process when the config file changes.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			LinksCreated, BookmarksCreated, StatusesCreated,
			TitleFetch, TitleFetchDuration,
			Links, Bookmarks, Statuses,
			TitleJobs, WriteLanes,
		)
	})
}
