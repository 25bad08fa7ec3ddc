package composite

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// disposeLabel is the policy label used for handles killed by Group.Dispose.
	disposeLabel = "dispose"
	// unnamedLabel is the group label shared by all groups created without WithName.
	unnamedLabel = "unnamed"
)

// Metrics reports group activity to Prometheus. One Metrics can be shared by many groups, series are labeled with the
// name given to WithName. Groups without a name share the "unnamed" series, which are never dropped.
// The series of a named group are dropped once it is disposed, names should be unique among live groups.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	added     *prometheus.CounterVec
	cancelled *prometheus.CounterVec
	live      *prometheus.GaugeVec
}

// NewMetrics creates the composite metrics and registers them with reg.
//
// Example:
//
//	m := composite.Must(composite.NewMetrics(prometheus.DefaultRegisterer))
//	g := composite.Must(composite.New(composite.WithName("hud"), composite.WithMetrics(m)))
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		added: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "composite",
			Name:      "handles_added_total",
			Help:      "Number of handles stored in a group.",
		}, []string{"group"}),
		cancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "composite",
			Name:      "handles_cancelled_total",
			Help:      "Number of handles cancelled by a group, by cancel policy.",
		}, []string{"group", "policy"}),
		live: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "composite",
			Name:      "live_handles",
			Help:      "Number of handles currently held by a group.",
		}, []string{"group"}),
	}

	for _, c := range []prometheus.Collector{m.added, m.cancelled, m.live} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register composite metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) handlesAdded(group string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.added.WithLabelValues(group).Add(float64(n))
}

func (m *Metrics) handlesCancelled(group, policy string) {
	if m == nil {
		return
	}
	m.cancelled.WithLabelValues(group, policy).Inc()
}

// addLive moves the live gauge by delta, groups sharing a label add up.
func (m *Metrics) addLive(group string, delta int) {
	if m == nil || delta == 0 {
		return
	}
	m.live.WithLabelValues(group).Add(float64(delta))
}

// forget drops every series of a disposed group. The shared unnamed series are kept.
func (m *Metrics) forget(group string) {
	if m == nil || group == unnamedLabel {
		return
	}
	labels := prometheus.Labels{"group": group}
	m.added.DeletePartialMatch(labels)
	m.cancelled.DeletePartialMatch(labels)
	m.live.DeletePartialMatch(labels)
}
