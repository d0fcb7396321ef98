package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transcriptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxtral_transcriptions_total",
		Help: "Total transcription requests by outcome.",
	}, []string{"outcome"})

	processingSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voxtral_processing_seconds",
		Help:    "Wall-clock duration of successful transcriptions in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})
)
