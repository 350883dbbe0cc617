// SPDX-License-Identifier: AGPL-3.0-or-later
// DMRHub - Run a DMR network server in a single binary
// Copyright (C) 2023-2024 Jacob McSwain
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	// KV Store metrics
	KVOperationsTotal   *prometheus.CounterVec
	KVOperationDuration *prometheus.HistogramVec
	KVKeysTotal         prometheus.Gauge
	KVExpiredKeysTotal  prometheus.Counter
	KVCleanupDuration   prometheus.Histogram

	// Jitter buffer metrics, one increment per AdaptiveJitterBuffer
	// outcome (reordered/dropped/timed-out), labeled by peer.
	JitterFramesTotal *prometheus.CounterVec

	// ACLRejectedTotal counts frames rejected at the ACL gate, labeled
	// by which check failed (src_id/tgid).
	ACLRejectedTotal *prometheus.CounterVec

	// FECUncorrectableTotal counts PDU data blocks that failed FEC
	// decode and were zero-filled during reassembly, labeled by the
	// originating air protocol (dmr/p25).
	FECUncorrectableTotal *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	metrics := &Metrics{
		KVOperationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kv_operations_total",
			Help: "The total number of KV operations performed",
		}, []string{"operation", "status"}),
		KVOperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kv_operation_duration_seconds",
			Help:    "Duration of KV operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		KVKeysTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kv_keys_total",
			Help: "The current number of keys in the KV store",
		}),
		KVExpiredKeysTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kv_expired_keys_total",
			Help: "The total number of expired keys cleaned up",
		}),
		KVCleanupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kv_cleanup_duration_seconds",
			Help:    "Duration of KV cleanup operations",
			Buckets: prometheus.DefBuckets,
		}),
		JitterFramesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jitter_frames_total",
			Help: "The total number of jitter buffer frames by outcome",
		}, []string{"outcome"}),
		ACLRejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acl_rejected_total",
			Help: "The total number of frames rejected at the ACL gate by check",
		}, []string{"check"}),
		FECUncorrectableTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fec_uncorrectable_blocks_total",
			Help: "The total number of PDU data blocks that failed FEC decode, by protocol",
		}, []string{"protocol"}),
	}
	metrics.register()
	return metrics
}

func (m *Metrics) register() {
	prometheus.MustRegister(m.KVOperationsTotal)
	prometheus.MustRegister(m.KVOperationDuration)
	prometheus.MustRegister(m.KVKeysTotal)
	prometheus.MustRegister(m.KVExpiredKeysTotal)
	prometheus.MustRegister(m.KVCleanupDuration)
	prometheus.MustRegister(m.JitterFramesTotal)
	prometheus.MustRegister(m.ACLRejectedTotal)
	prometheus.MustRegister(m.FECUncorrectableTotal)
}

// KV Store metrics methods
func (m *Metrics) RecordKVOperation(operation, status string, duration float64) {
	m.KVOperationsTotal.WithLabelValues(operation, status).Inc()
	m.KVOperationDuration.WithLabelValues(operation).Observe(duration)
}

func (m *Metrics) SetKVKeysTotal(count float64) {
	m.KVKeysTotal.Set(count)
}

func (m *Metrics) IncrementKVExpiredKeys(count float64) {
	m.KVExpiredKeysTotal.Add(count)
}

func (m *Metrics) RecordKVCleanup(duration float64) {
	m.KVCleanupDuration.Observe(duration)
}

// RecordJitterOutcome increments the jitter-buffer counter for one of
// "reordered", "dropped", or "timed_out".
func (m *Metrics) RecordJitterOutcome(outcome string) {
	m.JitterFramesTotal.WithLabelValues(outcome).Inc()
}

// RecordACLRejected increments the ACL-gate reject counter for one of
// "src_id" or "tgid".
func (m *Metrics) RecordACLRejected(check string) {
	m.ACLRejectedTotal.WithLabelValues(check).Inc()
}

// RecordFECUncorrectable increments the FEC-uncorrectable-block
// counter for one of "dmr" or "p25".
func (m *Metrics) RecordFECUncorrectable(protocol string) {
	m.FECUncorrectableTotal.WithLabelValues(protocol).Inc()
}
