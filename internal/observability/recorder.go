package observability

import "time"

// Recorder переводит события клиента рыночных данных в метрики и health.
type Recorder struct {
	metrics *Metrics
	health  *Health
}

func NewRecorder(m *Metrics, h *Health) *Recorder {
	return &Recorder{metrics: m, health: h}
}

func (r *Recorder) UpstreamCall(kind, provider string, took time.Duration, err error) {
	outcome := Outcome(err)
	if r.metrics != nil {
		r.metrics.UpstreamCalls.WithLabelValues(provider, kind, outcome).Inc()
		r.metrics.UpstreamLatency.WithLabelValues(provider, kind).Observe(took.Seconds())
	}
	// отмену сделал вызывающий, о провайдере она ничего не говорит
	if r.health != nil && outcome != OutcomeCanceled {
		r.health.Mark(ServiceName(kind, provider), err == nil)
	}
}

func (r *Recorder) Fallback(op string) {
	if r.metrics != nil {
		r.metrics.Fallbacks.WithLabelValues(op).Inc()
	}
}
