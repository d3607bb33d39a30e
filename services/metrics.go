package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	predictionsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flightfare_predictions_generated_total",
		Help: "Total number of prices produced by the model",
	})
	predictionsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flightfare_predictions_stored_total",
		Help: "Total number of predictions appended to history",
	})
	predictionsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flightfare_predictions_failed_total",
		Help: "Total number of failed prediction requests by stage",
	}, []string{"stage"})
	predictionsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flightfare_predictions_published_total",
		Help: "Total number of prediction events published to redis",
	})
)
