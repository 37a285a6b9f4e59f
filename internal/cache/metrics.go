package cache

import "github.com/prometheus/client_golang/prometheus"

var (
	hitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "thalamusd",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total lookups served from the weight cache",
	})

	missesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "thalamusd",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total lookups that required materializing an entry",
	})

	evictedFilesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "thalamusd",
		Subsystem: "cache",
		Name:      "evicted_files_total",
		Help:      "Total weight files evicted to stay under the size limit",
	})

	evictedBytesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "thalamusd",
		Subsystem: "cache",
		Name:      "evicted_bytes_total",
		Help:      "Total bytes evicted to stay under the size limit",
	})
)

func init() {
	prometheus.MustRegister(hitsTotal, missesTotal, evictedFilesTotal, evictedBytesTotal)
}
