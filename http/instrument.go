package http

import (
	"time"

	"newsguard/detector"
	"newsguard/monitoring"
)

// instrumentedPredictor records the outcome and latency of every classification.
type instrumentedPredictor struct {
	Predictor
	metrics *monitoring.Metrics
}

func instrument(p Predictor, metrics *monitoring.Metrics) Predictor {
	return instrumentedPredictor{Predictor: p, metrics: metrics}
}

func (p instrumentedPredictor) Classify(raw string) (*detector.Result, error) {
	start := time.Now()
	result, err := p.Predictor.Classify(raw)
	if err != nil {
		p.metrics.RecordError()
		return nil, err
	}
	p.metrics.RecordClassification(result.Label.String(), result.Cached, time.Since(start))
	return result, nil
}
