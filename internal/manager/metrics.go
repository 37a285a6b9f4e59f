package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	loadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "thalamusd",
		Subsystem: "manager",
		Name:      "loads_total",
		Help:      "Total successful model loads",
	})

	loadFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "thalamusd",
		Subsystem: "manager",
		Name:      "load_failures_total",
		Help:      "Total failed model loads",
	})

	loadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "thalamusd",
		Subsystem: "manager",
		Name:      "load_duration_seconds",
		Help:      "Duration of model loads (fetch + device + hook) in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
	})

	unloadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "thalamusd",
		Subsystem: "manager",
		Name:      "unloads_total",
		Help:      "Total model unloads",
	})

	loadedModels = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "thalamusd",
		Subsystem: "manager",
		Name:      "loaded_models",
		Help:      "Number of model versions currently loaded",
	})

	predictDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "thalamusd",
		Subsystem: "manager",
		Name:      "predict_duration_seconds",
		Help:      "Duration of predict calls including pre/post hooks",
		Buckets:   prometheus.DefBuckets,
	}, []string{"model"})
)

func init() {
	prometheus.MustRegister(loadsTotal, loadFailuresTotal, loadDuration,
		unloadsTotal, loadedModels, predictDuration)
}
