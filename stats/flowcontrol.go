// Package stats provides driver runtime metrics
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package stats

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// FlowControl counts per-publication flow-control activity. All methods are
// nil-receiver safe: a publication constructed without metrics skips accounting.
type FlowControl struct {
	statusMessages prometheus.Counter
	evictions      prometheus.Counter
	receivers      prometheus.Gauge
}

func NewFlowControl(reg prometheus.Registerer, channel string, streamID int32) *FlowControl {
	labels := prometheus.Labels{
		"channel":   channel,
		"stream_id": strconv.FormatInt(int64(streamID), 10),
	}
	fc := &FlowControl{
		statusMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "udx",
			Subsystem:   "flow_control",
			Name:        "status_messages_total",
			Help:        "Status messages consumed by the sender",
			ConstLabels: labels,
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "udx",
			Subsystem:   "flow_control",
			Name:        "receiver_evictions_total",
			Help:        "Receivers evicted for status-message staleness",
			ConstLabels: labels,
		}),
		receivers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "udx",
			Subsystem:   "flow_control",
			Name:        "tracked_receivers",
			Help:        "Receivers currently tracked by the strategy",
			ConstLabels: labels,
		}),
	}
	if reg != nil {
		reg.MustRegister(fc.statusMessages, fc.evictions, fc.receivers)
	}
	return fc
}

func (fc *FlowControl) StatusMessage() {
	if fc != nil {
		fc.statusMessages.Inc()
	}
}

func (fc *FlowControl) Evicted() {
	if fc != nil {
		fc.evictions.Inc()
		fc.receivers.Dec()
	}
}

func (fc *FlowControl) Tracked() {
	if fc != nil {
		fc.receivers.Inc()
	}
}
